package domain

import "time"

// Room is a physical location cleaned by a team.
type Room struct {
	ID        string
	RoomID    string
	Name      string
	Floor     string
	TeamID    string
	CreatedAt time.Time
}
