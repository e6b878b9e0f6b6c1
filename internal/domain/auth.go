package domain

import "time"

// Admin is an operator of the admin panel.
type Admin struct {
	ID           int64
	FirstName    string
	MobileNumber string
	Email        string
	PasswordHash string
}

// Session describes an issued admin token.
type Session struct {
	Token     string
	TokenID   string
	AdminID   int64
	ExpiresAt time.Time
}
