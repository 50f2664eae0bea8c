package domain

import "time"

// UserStatus represents lifecycle states for a portal customer.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is a bank customer who raises tickets through the self-service portal.
type User struct {
	ID             string
	CustomerNumber string
	Name           string
	Email          string
	PasswordHash   string
	Status         UserStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
