package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/config"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	hasher   auth.PasswordHasher
	logger   *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// RegisterInput carries a new account.
type RegisterInput struct {
	Name        string
	Surname     string
	PhoneNumber string
	Password    string
	IsManager   bool
	Lang        string
}

// Session is an authenticated user with a signed token.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    deps.UserRepo,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		hasher:   auth.NewPasswordHasher(cfg.Auth),
		logger:   logger,
	}
}

// Register creates an account keyed by a phone number no one else uses.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	phone := normalizePhone(input.PhoneNumber)
	if phone == "" || input.Password == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name, phone_number, password required", nil)
	}

	if _, err := s.users.GetByPhone(ctx, phone); err == nil {
		return nil, apperrors.NewConflict("phone number already registered", map[string]any{"phone_number": phone})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	lang := input.Lang
	if lang == "" {
		lang = "en"
	}
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Surname:      strings.TrimSpace(input.Surname),
		PhoneNumber:  phone,
		PasswordHash: hash,
		IsManager:    input.IsManager,
		Lang:         lang,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("phone number already registered", map[string]any{"phone_number": phone})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.Bool("manager", user.IsManager))
	return s.issue(user)
}

// Login authenticates by phone number and password.
func (s *AuthService) Login(ctx context.Context, phoneNumber, password string) (*Session, error) {
	user, err := s.users.GetByPhone(ctx, normalizePhone(phoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid phone number or password")
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid phone number or password")
	}
	return s.issue(user)
}

// ListUsers returns every account.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func normalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}
