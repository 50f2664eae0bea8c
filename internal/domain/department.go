package domain

import "time"

// Department represents a high-level organizational unit of the bank
// (e.g. retail operations, card services). Its ID is one half of the scope
// key under which business hours and holidays are configured.
type Department struct {
	ID          string
	Code        string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
