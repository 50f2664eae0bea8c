package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketSLABreached     EventType = "ticket_sla_breached"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    domain.ActorType `json:"type"`
	UserID  *string          `json:"user_id,omitempty"`
	StaffID *string          `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	DepartmentID string                `json:"department_id"`
	UnitID       *string               `json:"unit_id,omitempty"`
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
	SLADueDate   *time.Time            `json:"sla_due_date,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
	SLADueDate  *time.Time            `json:"sla_due_date,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeStaffID *string `json:"assignee_staff_id,omitempty"`
	UnitID          *string `json:"unit_id,omitempty"`
}

// TicketSLABreachedPayload payload.
type TicketSLABreachedPayload struct {
	DueDate        time.Time `json:"due_date"`
	MinutesOverdue int       `json:"minutes_overdue"`
	Priority       domain.TicketPriority `json:"priority"`
}
