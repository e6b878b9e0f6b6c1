package domain

import (
	"strings"
	"time"
)

// UserStatus represents lifecycle states for a member account.
type UserStatus string

const (
	UserStatusNew       UserStatus = "NEW"
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusNew, UserStatusActive, UserStatusSuspended:
		return true
	}
	return false
}

// User is the member account managed by the admin panel.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	MobileNumber string
	DistrictID   *int64
	ClubName     string
	RotaryID     string
	Status       UserStatus
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
}

// FullName joins first and last name, skipping empty parts.
func (u User) FullName() string {
	return JoinName(u.FirstName, u.LastName)
}

// JoinName joins non-empty name parts with a single space.
func JoinName(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// NewUser describes a member row produced by bulk import.
type NewUser struct {
	FirstName    *string
	LastName     *string
	Email        *string
	MobileNumber *string
	DistrictID   *int64
	ClubName     *string
	RotaryID     *string
}
