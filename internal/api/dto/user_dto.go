package dto

import "time"

// UserRegisterRequest payload for new accounts. TeamCode optionally joins an
// employee to a team on registration.
type UserRegisterRequest struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Manager     bool   `json:"manager"`
	Lang        string `json:"lang"`
	TeamCode    string `json:"teamCode"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is a user without credentials.
type UserResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	PhoneNumber string    `json:"phoneNumber"`
	Manager     bool      `json:"manager"`
	Lang        string    `json:"lang"`
	CreatedAt   time.Time `json:"createdAt"`
}
