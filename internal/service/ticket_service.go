package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket workflows: creation with SLA stamping,
// status and priority transitions, assignment and audit history.
type TicketService struct {
	tickets     repository.TicketRepository
	departments repository.DepartmentRepository
	units       repository.UnitRepository
	staff       repository.StaffRepository
	catalog     repository.CatalogRepository
	history     repository.TicketHistoryRepository
	calculator  *sla.Calculator
	dispatcher  *events.Dispatcher
	timezone    string
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	DepartmentRepo repository.DepartmentRepository
	UnitRepo       repository.UnitRepository
	StaffRepo      repository.StaffRepository
	CatalogRepo    repository.CatalogRepository
	HistoryRepo    repository.TicketHistoryRepository
	Calculator     *sla.Calculator
	Dispatcher     *events.Dispatcher
	Timezone       string
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	DepartmentID  string
	UnitID        *string
	CatalogItemID *string
	Title         string
	Description   string
	Priority      domain.TicketPriority
	SLAMinutes    int
	Tags          []string
}

// TicketUserFilter describes end-user listing filters.
type TicketUserFilter struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketStaffFilter describes staff listing filters.
type TicketStaffFilter struct {
	DepartmentID *string
	UnitID       *string
	AssigneeID   *string
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	SearchTerm   *string
	DueBefore    *time.Time
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		departments: deps.DepartmentRepo,
		units:       deps.UnitRepo,
		staff:       deps.StaffRepo,
		catalog:     deps.CatalogRepo,
		history:     deps.HistoryRepo,
		calculator:  deps.Calculator,
		dispatcher:  deps.Dispatcher,
		timezone:    deps.Timezone,
	}
}

// CreateTicket creates a ticket for a user, resolving the SLA budget from
// the catalog item (when ordered through the catalog) and stamping the due
// date against the department/unit business calendar.
func (s *TicketService) CreateTicket(ctx context.Context, userID string, input TicketCreateInput) (*domain.Ticket, error) {
	dept, err := s.departments.GetByID(ctx, input.DepartmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !dept.IsActive {
		return nil, apperrors.NewValidationError("department inactive", nil)
	}
	if input.UnitID != nil {
		unit, err := s.units.GetByID(ctx, *input.UnitID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !unit.IsActive {
			return nil, apperrors.NewValidationError("unit inactive", nil)
		}
		if unit.DepartmentID != input.DepartmentID {
			return nil, apperrors.NewValidationError("unit not part of department", nil)
		}
	}

	ticket := &domain.Ticket{
		ExternalKey:   generateTicketKey(),
		RequesterID:   userID,
		DepartmentID:  input.DepartmentID,
		UnitID:        input.UnitID,
		CatalogItemID: input.CatalogItemID,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Status:        domain.TicketStatusOpen,
		Priority:      input.Priority,
		SLAMinutes:    input.SLAMinutes,
		Tags:          input.Tags,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if input.CatalogItemID != nil {
		item, err := s.catalog.GetItem(ctx, *input.CatalogItemID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !item.IsActive {
			return nil, apperrors.NewValidationError("catalog item inactive", nil)
		}
		if minutes, ok := item.SLAMinutes[ticket.Priority]; ok {
			ticket.SLAMinutes = minutes
		}
		if item.UnitID != nil && ticket.UnitID == nil {
			ticket.UnitID = item.UnitID
		}
	}

	if ticket.SLAMinutes > 0 {
		due, err := s.computeDueDate(ctx, time.Now(), ticket)
		if err != nil {
			return nil, err
		}
		ticket.SLADueDate = due
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.dispatcher.Publish(ctx, events.EventTicketCreated, ticket.ID, events.UserActor(userID), events.TicketCreatedPayload{
		DepartmentID: ticket.DepartmentID,
		UnitID:       ticket.UnitID,
		Priority:     ticket.Priority,
		Title:        ticket.Title,
		SLADueDate:   ticket.SLADueDate,
	})
	return ticket, nil
}

// ListUserTickets returns paginated tickets for a requester.
func (s *TicketService) ListUserTickets(ctx context.Context, userID string, filter TicketUserFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		RequesterID: &userID,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// GetTicketForUser fetches a ticket ensuring ownership.
func (s *TicketService) GetTicketForUser(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.RequesterID != userID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// ListStaffTickets returns tickets accessible to staff.
func (s *TicketService) ListStaffTickets(ctx context.Context, staff *domain.StaffMember, filter TicketStaffFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		DepartmentID: filter.DepartmentID,
		UnitID:       filter.UnitID,
		AssigneeID:   filter.AssigneeID,
		Statuses:     filter.Statuses,
		Priorities:   filter.Priorities,
		SearchTerm:   filter.SearchTerm,
		DueBefore:    filter.DueBefore,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	s.applyStaffScope(&repoFilter, staff)
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// GetTicketForStaff fetches ticket ensuring staff access.
func (s *TicketService) GetTicketForStaff(ctx context.Context, staff *domain.StaffMember, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// CloseTicketAsUser closes a ticket from allowed states.
func (s *TicketService) CloseTicketAsUser(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.RequesterID != userID {
		return nil, apperrors.NewForbidden("access denied")
	}
	if ticket.Status != domain.TicketStatusResolved && ticket.Status != domain.TicketStatusPendingUser {
		return nil, apperrors.NewValidationError("ticket cannot be closed in current status", map[string]any{
			"status": ticket.Status,
		})
	}
	now := time.Now()
	oldStatus := ticket.Status
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordStatusChange(ctx, domain.ActorTypeUser, &userID, ticket.ID, oldStatus, ticket.Status, "user_closed")
	s.dispatcher.Publish(ctx, events.EventTicketStatusChanged, ticket.ID, events.UserActor(userID), events.TicketStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: ticket.Status,
		Comment:   "user_closed",
	})
	return ticket, nil
}

// UpdateStatus transitions ticket status by staff.
func (s *TicketService) UpdateStatus(ctx context.Context, staff *domain.StaffMember, ticketID string, newStatus domain.TicketStatus, comment string) (*domain.Ticket, error) {
	if staff == nil {
		return nil, apperrors.NewForbidden("staff required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}
	oldStatus := ticket.Status
	if newStatus == domain.TicketStatusClosed || newStatus == domain.TicketStatusCancelled {
		now := time.Now()
		ticket.ClosedAt = &now
	} else if ticket.ClosedAt != nil {
		ticket.ClosedAt = nil
	}
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordStatusChange(ctx, domain.ActorTypeStaff, &staff.ID, ticket.ID, oldStatus, newStatus, comment)
	s.dispatcher.Publish(ctx, events.EventTicketStatusChanged, ticket.ID, events.StaffActor(staff.ID), events.TicketStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Comment:   comment,
	})
	return ticket, nil
}

// UpdatePriority changes ticket priority by staff. When the ticket was
// ordered through the catalog the SLA budget tracks the new priority and
// the due date is recomputed from the original creation time.
func (s *TicketService) UpdatePriority(ctx context.Context, staff *domain.StaffMember, ticketID string, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if staff == nil {
		return nil, apperrors.NewForbidden("staff required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	oldPriority := ticket.Priority
	oldDue := ticket.SLADueDate
	ticket.Priority = newPriority

	if ticket.CatalogItemID != nil && ticket.Open() {
		item, err := s.catalog.GetItem(ctx, *ticket.CatalogItemID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if minutes, ok := item.SLAMinutes[newPriority]; ok && minutes != ticket.SLAMinutes {
			ticket.SLAMinutes = minutes
			due, err := s.computeDueDate(ctx, ticket.CreatedAt, ticket)
			if err != nil {
				return nil, err
			}
			ticket.SLADueDate = due
			ticket.SLABreachedAt = nil
		}
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordPriorityChange(ctx, &staff.ID, ticket.ID, oldPriority, newPriority)
	if !equalTimePtr(oldDue, ticket.SLADueDate) {
		s.recordDueDateChange(ctx, &staff.ID, ticket.ID, oldDue, ticket.SLADueDate)
	}
	s.dispatcher.Publish(ctx, events.EventTicketPriorityChanged, ticket.ID, events.StaffActor(staff.ID), events.TicketPriorityChangedPayload{
		OldPriority: oldPriority,
		NewPriority: newPriority,
		SLADueDate:  ticket.SLADueDate,
	})
	return ticket, nil
}

// AssignTicket sets or clears the assignee and optionally moves the ticket
// to another unit within its department.
func (s *TicketService) AssignTicket(ctx context.Context, actor *domain.StaffMember, ticketID string, assigneeID, unitID *string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewForbidden("staff required")
	}
	if actor.Role == domain.StaffRoleAgent {
		return nil, apperrors.NewForbidden("insufficient role for assignment")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !s.staffCanAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	if assigneeID != nil {
		assignee, err := s.staff.GetByID(ctx, *assigneeID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !assignee.Active {
			return nil, apperrors.NewValidationError("assignee inactive", nil)
		}
	}
	if unitID != nil {
		unit, err := s.units.GetByID(ctx, *unitID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if unit.DepartmentID != ticket.DepartmentID {
			return nil, apperrors.NewValidationError("unit not part of department", nil)
		}
	}

	oldAssignee := ticket.AssigneeID
	oldUnit := ticket.UnitID
	ticket.AssigneeID = assigneeID
	if unitID != nil {
		ticket.UnitID = unitID
	}
	if ticket.Status == domain.TicketStatusOpen && assigneeID != nil {
		ticket.Status = domain.TicketStatusInProgress
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordHistory(ctx, &domain.TicketHistory{
		TicketID:      ticket.ID,
		ChangedByType: domain.ActorTypeStaff,
		ChangedByID:   &actor.ID,
		ChangeType:    domain.ChangeTypeAssignee,
		OldValue:      map[string]any{"assignee_id": oldAssignee, "unit_id": oldUnit},
		NewValue:      map[string]any{"assignee_id": ticket.AssigneeID, "unit_id": ticket.UnitID},
	})
	s.dispatcher.Publish(ctx, events.EventTicketAssigned, ticket.ID, events.StaffActor(actor.ID), events.TicketAssignedPayload{
		AssigneeStaffID: ticket.AssigneeID,
		UnitID:          ticket.UnitID,
	})
	return ticket, nil
}

// ListHistoryForStaff returns history entries for staff.
func (s *TicketService) ListHistoryForStaff(ctx context.Context, staff *domain.StaffMember, ticketID string) ([]domain.TicketHistory, error) {
	if staff == nil {
		return nil, apperrors.NewForbidden("staff required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !s.staffCanAccessTicket(staff, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return s.history.ListByTicket(ctx, ticketID)
}

// ListHistoryForUser returns user-safe history entries.
func (s *TicketService) ListHistoryForUser(ctx context.Context, userID, ticketID string) ([]domain.TicketHistory, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.RequesterID != userID {
		return nil, apperrors.NewForbidden("access denied")
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	allowed := []domain.TicketHistory{}
	for _, entry := range entries {
		switch entry.ChangeType {
		case domain.ChangeTypeStatus, domain.ChangeTypeAssignee, domain.ChangeTypeUnit, domain.ChangeTypeSLADueDate:
			allowed = append(allowed, entry)
		}
	}
	return allowed, nil
}

func (s *TicketService) computeDueDate(ctx context.Context, start time.Time, ticket *domain.Ticket) (*time.Time, error) {
	opts := sla.DefaultOptions()
	opts.Timezone = s.timezone
	deptID := ticket.DepartmentID
	opts.DepartmentID = &deptID
	opts.UnitID = ticket.UnitID

	result, err := s.calculator.CalculateDueDate(ctx, start, ticket.SLAMinutes, opts)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &result.DueDate, nil
}

func (s *TicketService) applyStaffScope(filter *repository.TicketFilter, staff *domain.StaffMember) {
	if staff == nil || staff.Role == domain.StaffRoleAdmin {
		return
	}
	if staff.DepartmentID != nil {
		filter.DepartmentID = staff.DepartmentID
	}
	if staff.UnitID != nil {
		filter.UnitID = staff.UnitID
	}
}

func (s *TicketService) staffCanAccessTicket(staff *domain.StaffMember, ticket *domain.Ticket) bool {
	if staff == nil {
		return false
	}
	if staff.Role == domain.StaffRoleAdmin {
		return true
	}
	if staff.UnitID != nil && ticket.UnitID != nil && *staff.UnitID == *ticket.UnitID {
		return true
	}
	if staff.DepartmentID != nil && *staff.DepartmentID == ticket.DepartmentID {
		return true
	}
	return false
}

func (s *TicketService) recordHistory(ctx context.Context, entry *domain.TicketHistory) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, entry)
}

func (s *TicketService) recordStatusChange(ctx context.Context, actorType domain.ActorType, actorID *string, ticketID string, oldStatus, newStatus domain.TicketStatus, comment string) {
	s.recordHistory(ctx, &domain.TicketHistory{
		TicketID:      ticketID,
		ChangedByType: actorType,
		ChangedByID:   actorID,
		ChangeType:    domain.ChangeTypeStatus,
		OldValue:      map[string]any{"status": oldStatus},
		NewValue:      map[string]any{"status": newStatus, "comment": comment},
	})
}

func (s *TicketService) recordPriorityChange(ctx context.Context, actorID *string, ticketID string, oldPriority, newPriority domain.TicketPriority) {
	s.recordHistory(ctx, &domain.TicketHistory{
		TicketID:      ticketID,
		ChangedByType: domain.ActorTypeStaff,
		ChangedByID:   actorID,
		ChangeType:    domain.ChangeTypePriority,
		OldValue:      map[string]any{"priority": oldPriority},
		NewValue:      map[string]any{"priority": newPriority},
	})
}

func (s *TicketService) recordDueDateChange(ctx context.Context, actorID *string, ticketID string, oldDue, newDue *time.Time) {
	s.recordHistory(ctx, &domain.TicketHistory{
		TicketID:      ticketID,
		ChangedByType: domain.ActorTypeStaff,
		ChangedByID:   actorID,
		ChangeType:    domain.ChangeTypeSLADueDate,
		OldValue:      map[string]any{"sla_due_date": oldDue},
		NewValue:      map[string]any{"sla_due_date": newDue},
	})
}

func generateTicketKey() string {
	return "HLP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:        {domain.TicketStatusInProgress, domain.TicketStatusCancelled},
	domain.TicketStatusInProgress:  {domain.TicketStatusPendingUser, domain.TicketStatusResolved, domain.TicketStatusCancelled},
	domain.TicketStatusPendingUser: {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusCancelled},
	domain.TicketStatusResolved:    {domain.TicketStatusClosed, domain.TicketStatusInProgress},
	domain.TicketStatusClosed:      {},
	domain.TicketStatusCancelled:   {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
