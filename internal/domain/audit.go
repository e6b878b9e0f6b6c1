package domain

import "time"

// AuditEntry is an immutable record of one admin action.
type AuditEntry struct {
	ID        int64
	EventID   string
	EventType string
	AdminID   *int64
	UserID    *int64
	Payload   any
	CreatedAt time.Time
}
