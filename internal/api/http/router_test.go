package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/facility-service/internal/api/http/handlers"
	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/config"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/lock"
	"github.com/spec-kit/facility-service/internal/observability"
	"github.com/spec-kit/facility-service/internal/service"
)

type testServer struct {
	app   *fiber.App
	store *memStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLocker(t, lock.NewLocalLocker())
}

func newTestServerWithLocker(t *testing.T, locker lock.Locker) *testServer {
	t.Helper()
	var cfg config.Config
	cfg.Auth.JWTSecret = "router-test"
	cfg.Auth.AccessTokenTTLMinutes = 5
	cfg.Auth.BcryptCost = bcrypt.MinCost

	store := newMemStore()
	users := memUsers{store}
	tasks := memTasks{store}
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users})
	teamService := service.NewTeamService(service.TeamDependencies{
		TeamRepo:   memTeams{store},
		Locker:     locker,
		Dispatcher: dispatcher,
	})
	roomService := service.NewRoomService(service.RoomDependencies{RoomRepo: memRooms{store}, FeedbackRepo: memFeedback{store}})
	taskService := service.NewTaskService(service.TaskDependencies{TaskRepo: tasks, Uploader: memUploader{}, Dispatcher: dispatcher})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second, []string{"http://localhost:8081"})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("facility-service", "test", okPinger{}, okPinger{err: assert.AnError}, false, metrics),
		Users:          handlers.NewUsersHandler(authService, teamService),
		Teams:          handlers.NewTeamsHandler(teamService),
		Rooms:          handlers.NewRoomsHandler(roomService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Reports:        handlers.NewReportsHandler(service.NewReportService(tasks, users)),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users),
	})
	return &testServer{app: app, store: store}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(t, req, token)
}

func (s *testServer) send(t *testing.T, req *http.Request, token string) (int, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func (s *testServer) register(t *testing.T, phone string, manager bool) (string, string) {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/api/v1/users", "", map[string]any{
		"name":        "User " + phone,
		"phoneNumber": phone,
		"password":    "pw",
		"manager":     manager,
	})
	require.Equal(t, http.StatusCreated, status)
	var data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.User.ID, data.Auth.Token
}

func taskBody(taskID, employeeID string) map[string]any {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return map[string]any{
		"taskId":     taskID,
		"employeeId": employeeID,
		"title":      "Clean lobby",
		"startTime":  start,
		"endTime":    start.Add(time.Hour),
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	status, _ := srv.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = srv.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env := srv.do(t, http.MethodGet, "/health/metrics", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "/health/live|GET|200")
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, http.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	_, managerToken := srv.register(t, "100", true)
	employeeID, employeeToken := srv.register(t, "200", false)

	status, env := srv.do(t, http.MethodPost, "/api/v1/tasks", employeeToken, taskBody("t-1", employeeID))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, env = srv.do(t, http.MethodPost, "/api/v1/tasks", managerToken, taskBody("t-1", employeeID))
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		TaskID string `json:"taskId"`
		Done   bool   `json:"done"`
		State  string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "t-1", created.TaskID)
	assert.False(t, created.Done)
	assert.Equal(t, "OPEN", created.State)

	status, env = srv.do(t, http.MethodPut, "/api/v1/tasks/missing", managerToken, taskBody("", employeeID))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, env = srv.do(t, http.MethodPost, "/api/v1/tasks/t-1/questionnaire", employeeToken, map[string]any{
		"questionnaireOne":   "As expected",
		"questionnaireThree": "Yes",
		"questionnaireFour":  "Good",
		"questionnaireFive":  "Satisfied",
	})
	require.Equal(t, http.StatusOK, status)

	status, env = srv.do(t, http.MethodGet, "/api/v1/tasks/t-1/status", employeeToken, nil)
	require.Equal(t, http.StatusOK, status)
	var st struct {
		Status string `json:"status"`
		State  string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, "critical", st.Status)
	assert.Equal(t, "CLOSED", st.State)

	status, _ = srv.do(t, http.MethodPut, "/api/v1/tasks/t-1/complete", employeeToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = srv.do(t, http.MethodDelete, "/api/v1/tasks/t-1", managerToken, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = srv.do(t, http.MethodDelete, "/api/v1/tasks/t-1", managerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTaskImageUpload(t *testing.T) {
	srv := newTestServer(t)
	_, managerToken := srv.register(t, "100", true)
	status, _ := srv.do(t, http.MethodPost, "/api/v1/tasks", managerToken, taskBody("t-1", "e-1"))
	require.Equal(t, http.StatusCreated, status)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="room.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/t-1/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	status, env := srv.send(t, req, managerToken)
	require.Equal(t, http.StatusOK, status)

	var task struct {
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Contains(t, task.ImageURL, "https://cdn.test/tasks/t-1/")
}

func TestTeamRosterOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	managerID, managerToken := srv.register(t, "100", true)
	employeeID, employeeToken := srv.register(t, "200", false)

	status, env := srv.do(t, http.MethodPost, "/api/v1/teams", managerToken, map[string]any{"teamName": "Night"})
	require.Equal(t, http.StatusCreated, status)
	var team struct {
		TeamCode   string   `json:"teamCode"`
		EmployeeID []string `json:"employeeId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &team))
	assert.Empty(t, team.EmployeeID)

	status, _ = srv.do(t, http.MethodPost, "/api/v1/teams", managerToken, map[string]any{"teamName": "Again"})
	assert.Equal(t, http.StatusConflict, status)

	status, env = srv.do(t, http.MethodPost, "/api/v1/teams/join", employeeToken, map[string]any{"teamCode": team.TeamCode})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &team))
	assert.Equal(t, []string{employeeID}, team.EmployeeID)

	status, _ = srv.do(t, http.MethodGet, "/api/v1/teams/by-employee/"+employeeID, employeeToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = srv.do(t, http.MethodDelete, "/api/v1/teams/"+managerID+"/employees/nobody", managerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, _ = srv.do(t, http.MethodDelete, "/api/v1/teams/"+managerID+"/employees/"+employeeID, employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = srv.do(t, http.MethodDelete, "/api/v1/teams/"+managerID+"/employees/"+employeeID, managerToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &team))
	assert.Empty(t, team.EmployeeID)
}

func TestRegisterWithTeamCode(t *testing.T) {
	srv := newTestServer(t)
	_, managerToken := srv.register(t, "100", true)
	status, env := srv.do(t, http.MethodPost, "/api/v1/teams", managerToken, map[string]any{"teamName": "Night"})
	require.Equal(t, http.StatusCreated, status)
	var team struct {
		TeamCode string `json:"teamCode"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &team))

	status, env = srv.do(t, http.MethodPost, "/api/v1/users", "", map[string]any{
		"name": "E", "phoneNumber": "300", "password": "pw", "teamCode": team.TeamCode,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Contains(t, string(env.Data), `"team"`)

	status, _ = srv.do(t, http.MethodPost, "/api/v1/users", "", map[string]any{
		"name": "F", "phoneNumber": "400", "password": "pw", "teamCode": "UNKNOWN",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Len(t, srv.store.users, 2)
}

// failAfterLocker grants the first n locks and then reports contention.
type failAfterLocker struct {
	inner lock.Locker
	mu    sync.Mutex
	n     int
}

func (l *failAfterLocker) Lock(ctx context.Context, key string) (lock.Unlock, error) {
	l.mu.Lock()
	if l.n == 0 {
		l.mu.Unlock()
		return nil, lock.ErrNotAcquired
	}
	l.n--
	l.mu.Unlock()
	return l.inner.Lock(ctx, key)
}

func TestRegisterWithTeamCode_JoinFailureKeepsAccount(t *testing.T) {
	srv := newTestServerWithLocker(t, &failAfterLocker{inner: lock.NewLocalLocker(), n: 1})
	_, managerToken := srv.register(t, "100", true)
	status, env := srv.do(t, http.MethodPost, "/api/v1/teams", managerToken, map[string]any{"teamName": "Night"})
	require.Equal(t, http.StatusCreated, status)
	var team struct {
		TeamCode string `json:"teamCode"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &team))

	status, env = srv.do(t, http.MethodPost, "/api/v1/users", "", map[string]any{
		"name": "E", "phoneNumber": "300", "password": "pw", "teamCode": team.TeamCode,
	})
	require.Equal(t, http.StatusCreated, status)

	var data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
		Team      *json.RawMessage `json:"team"`
		TeamError *struct {
			Code string `json:"code"`
		} `json:"teamError"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.User.ID)
	assert.NotEmpty(t, data.Auth.Token)
	assert.Nil(t, data.Team)
	require.NotNil(t, data.TeamError)
	assert.Equal(t, "CONFLICT", data.TeamError.Code)

	status, _ = srv.do(t, http.MethodPost, "/api/v1/users/login", "", map[string]any{"phoneNumber": "300", "password": "pw"})
	assert.Equal(t, http.StatusOK, status)
}

func TestRoomsAndFeedback(t *testing.T) {
	srv := newTestServer(t)
	_, managerToken := srv.register(t, "100", true)

	status, _ := srv.do(t, http.MethodPost, "/api/v1/rooms", managerToken, map[string]any{
		"roomId": "r-1", "roomName": "Lobby", "roomFloor": "1", "teamId": "team-1",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = srv.do(t, http.MethodPost, "/api/v1/rooms/r-1/feedback", "", map[string]any{"rating": 5})
	assert.Equal(t, http.StatusCreated, status)

	status, env := srv.do(t, http.MethodPost, "/api/v1/rooms/r-1/feedback", "", map[string]any{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	status, env = srv.do(t, http.MethodGet, "/api/v1/rooms/r-1/feedback", managerToken, nil)
	require.Equal(t, http.StatusOK, status)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 1)

	status, _ = srv.do(t, http.MethodDelete, "/api/v1/rooms/r-1", managerToken, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestTaskReportDownload(t *testing.T) {
	srv := newTestServer(t)
	_, managerToken := srv.register(t, "100", true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/tasks.xlsx", nil)
	req.Header.Set("Authorization", "Bearer "+managerToken)
	resp, err := srv.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
}

func TestErrorRendering(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	status, env = srv.send(t, req, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}
