package model

import "time"

// UserStatus describes account state.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// Valid reports whether the status is one of the known values.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}

// User represents a registered customer of the shop.
type User struct {
	ID        int64
	Username  string
	Email     string
	FullName  string
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
