package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeStatus     TicketChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee   TicketChangeType = "ASSIGNEE_CHANGE"
	ChangeTypePriority   TicketChangeType = "PRIORITY_CHANGE"
	ChangeTypeUnit       TicketChangeType = "UNIT_CHANGE"
	ChangeTypeDepartment TicketChangeType = "DEPARTMENT_CHANGE"
	ChangeTypeSLADueDate TicketChangeType = "SLA_DUE_DATE_CHANGE"
	ChangeTypeSLABreach  TicketChangeType = "SLA_BREACH"
)

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID            string
	TicketID      string
	ChangedByType ActorType
	ChangedByID   *string
	ChangeType    TicketChangeType
	OldValue      map[string]any
	NewValue      map[string]any
	CreatedAt     time.Time
}
