package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	DepartmentID  string                `json:"department_id"`
	UnitID        *string               `json:"unit_id"`
	CatalogItemID *string               `json:"catalog_item_id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	SLAMinutes    int                   `json:"sla_minutes"`
	Tags          []string              `json:"tags"`
}

// TicketListQuery captures query filters for user endpoints.
type TicketListQuery struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}

// TicketSummary response.
type TicketSummary struct {
	ID           string                `json:"id"`
	ExternalKey  string                `json:"external_key"`
	DepartmentID string                `json:"department_id"`
	UnitID       *string               `json:"unit_id"`
	Title        string                `json:"title"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	SLADueDate   *time.Time            `json:"sla_due_date"`
	Tags         []string              `json:"tags"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID            string                `json:"id"`
	ExternalKey   string                `json:"external_key"`
	DepartmentID  string                `json:"department_id"`
	UnitID        *string               `json:"unit_id"`
	AssigneeID    *string               `json:"assignee_id"`
	CatalogItemID *string               `json:"catalog_item_id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Status        domain.TicketStatus   `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	SLAMinutes    int                   `json:"sla_minutes"`
	SLADueDate    *time.Time            `json:"sla_due_date"`
	SLABreachedAt *time.Time            `json:"sla_breached_at"`
	Tags          []string              `json:"tags"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	ClosedAt      *time.Time            `json:"closed_at"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  domain.TicketStatus `json:"status"`
	Comment string              `json:"comment"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID *string `json:"assignee_id"`
	UnitID     *string `json:"unit_id"`
}

// TicketHistoryResponse represents one audit entry.
type TicketHistoryResponse struct {
	ID            string                  `json:"id"`
	ChangedByType domain.ActorType        `json:"changed_by_type"`
	ChangedByID   *string                 `json:"changed_by_id"`
	ChangeType    domain.TicketChangeType `json:"change_type"`
	OldValue      map[string]any          `json:"old_value"`
	NewValue      map[string]any          `json:"new_value"`
	CreatedAt     time.Time               `json:"created_at"`
}

// TicketSummaryFromDomain maps a ticket to its list representation.
func TicketSummaryFromDomain(ticket domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:           ticket.ID,
		ExternalKey:  ticket.ExternalKey,
		DepartmentID: ticket.DepartmentID,
		UnitID:       ticket.UnitID,
		Title:        ticket.Title,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		SLADueDate:   ticket.SLADueDate,
		Tags:         ticket.Tags,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

// TicketDetailFromDomain maps a ticket to its detail representation.
func TicketDetailFromDomain(ticket *domain.Ticket) TicketDetailResponse {
	return TicketDetailResponse{
		ID:            ticket.ID,
		ExternalKey:   ticket.ExternalKey,
		DepartmentID:  ticket.DepartmentID,
		UnitID:        ticket.UnitID,
		AssigneeID:    ticket.AssigneeID,
		CatalogItemID: ticket.CatalogItemID,
		Title:         ticket.Title,
		Description:   ticket.Description,
		Status:        ticket.Status,
		Priority:      ticket.Priority,
		SLAMinutes:    ticket.SLAMinutes,
		SLADueDate:    ticket.SLADueDate,
		SLABreachedAt: ticket.SLABreachedAt,
		Tags:          ticket.Tags,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
		ClosedAt:      ticket.ClosedAt,
	}
}

// TicketHistoryFromDomain maps history entries.
func TicketHistoryFromDomain(entries []domain.TicketHistory) []TicketHistoryResponse {
	out := make([]TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, TicketHistoryResponse{
			ID:            entry.ID,
			ChangedByType: entry.ChangedByType,
			ChangedByID:   entry.ChangedByID,
			ChangeType:    entry.ChangeType,
			OldValue:      entry.OldValue,
			NewValue:      entry.NewValue,
			CreatedAt:     entry.CreatedAt,
		})
	}
	return out
}
