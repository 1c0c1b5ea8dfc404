package models

import "time"

// UserStatus values as stored in the user_status table.
type StatusValue string

const (
	StatusSafe      StatusValue = "safe"
	StatusEmergency StatusValue = "emergency"
	StatusSOSActive StatusValue = "sos_active"
)

// UserStatus is the live "who is in distress and where" record.
// Exactly zero or one row exists per user id.
type UserStatus struct {
	ID         int64       `json:"id" db:"id"`
	UserID     int64       `json:"user_id" db:"user_id"`
	Name       string      `json:"name" db:"name"`
	Latitude   float64     `json:"latitude" db:"latitude"`
	Longitude  float64     `json:"longitude" db:"longitude"`
	Status     StatusValue `json:"status" db:"status"`
	LastUpdate time.Time   `json:"last_update" db:"last_update"`
	Location   string      `json:"location" db:"location"`
}
