package domain

import "time"

// User is an account that logs in with its phone number.
type User struct {
	ID           string
	Name         string
	Surname      string
	PhoneNumber  string
	PasswordHash string
	IsManager    bool
	Lang         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role returns the subject role carried in issued tokens.
func (u *User) Role() Role {
	if u.IsManager {
		return RoleManager
	}
	return RoleEmployee
}
