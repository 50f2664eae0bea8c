package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen        TicketStatus = "OPEN"
	TicketStatusInProgress  TicketStatus = "IN_PROGRESS"
	TicketStatusPendingUser TicketStatus = "PENDING_USER"
	TicketStatusResolved    TicketStatus = "RESOLVED"
	TicketStatusClosed      TicketStatus = "CLOSED"
	TicketStatusCancelled   TicketStatus = "CANCELLED"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Ticket is the aggregate for support requests. SLAMinutes is the business
// time budget copied from the catalog item at creation; SLADueDate is the
// deadline computed against the department/unit business calendar.
type Ticket struct {
	ID            string
	ExternalKey   string
	RequesterID   string
	DepartmentID  string
	UnitID        *string
	AssigneeID    *string
	CatalogItemID *string
	Title         string
	Description   string
	Status        TicketStatus
	Priority      TicketPriority
	SLAMinutes    int
	SLADueDate    *time.Time
	SLABreachedAt *time.Time
	Tags          []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ClosedAt      *time.Time
}

// Open reports whether the ticket still accrues SLA time.
func (t *Ticket) Open() bool {
	switch t.Status {
	case TicketStatusResolved, TicketStatusClosed, TicketStatusCancelled:
		return false
	}
	return true
}
