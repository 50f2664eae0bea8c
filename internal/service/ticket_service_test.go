package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type mockTicketRepo struct {
	repository.TicketRepository
	tickets map[string]domain.Ticket
	nextID  int
}

func (m *mockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.tickets == nil {
		m.tickets = make(map[string]domain.Ticket)
	}
	m.nextID++
	ticket.ID = "tk-" + string(rune('0'+m.nextID))
	ticket.CreatedAt = time.Now()
	m.tickets[ticket.ID] = *ticket
	return nil
}

func (m *mockTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	if _, ok := m.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.tickets[ticket.ID] = *ticket
	return nil
}

func (m *mockTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if ticket, ok := m.tickets[id]; ok {
		return &ticket, nil
	}
	return nil, pgx.ErrNoRows
}

type mockDepartmentRepo struct {
	repository.DepartmentRepository
	departments map[string]domain.Department
}

func (m *mockDepartmentRepo) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	if dept, ok := m.departments[id]; ok {
		return &dept, nil
	}
	return nil, pgx.ErrNoRows
}

type mockUnitRepo struct {
	repository.UnitRepository
	units map[string]domain.Unit
}

func (m *mockUnitRepo) GetByID(ctx context.Context, id string) (*domain.Unit, error) {
	if unit, ok := m.units[id]; ok {
		return &unit, nil
	}
	return nil, pgx.ErrNoRows
}

type mockCatalogRepo struct {
	repository.CatalogRepository
	items map[string]domain.CatalogItem
}

func (m *mockCatalogRepo) GetItem(ctx context.Context, id string) (*domain.CatalogItem, error) {
	if item, ok := m.items[id]; ok {
		return &item, nil
	}
	return nil, pgx.ErrNoRows
}

type mockHistoryRepo struct {
	entries []domain.TicketHistory
}

func (m *mockHistoryRepo) Create(ctx context.Context, history *domain.TicketHistory) error {
	m.entries = append(m.entries, *history)
	return nil
}

func (m *mockHistoryRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	out := []domain.TicketHistory{}
	for _, entry := range m.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type weekdayStore struct{}

func (weekdayStore) ActiveBusinessHours(ctx context.Context, departmentID, unitID *string) ([]domain.BusinessHoursWindow, error) {
	windows := make([]domain.BusinessHoursWindow, 0, 5)
	for day := 1; day <= 5; day++ {
		windows = append(windows, domain.BusinessHoursWindow{
			DayOfWeek: day,
			StartTime: "08:00",
			EndTime:   "17:00",
			IsActive:  true,
		})
	}
	return windows, nil
}

func (weekdayStore) ActiveHolidays(ctx context.Context, departmentID, unitID *string, from, to time.Time) ([]domain.HolidayEntry, error) {
	return nil, nil
}

type ticketFixture struct {
	svc     *TicketService
	tickets *mockTicketRepo
	history *mockHistoryRepo
	events  map[events.EventType]int
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	tickets := &mockTicketRepo{}
	history := &mockHistoryRepo{}
	dispatcher := events.NewDispatcher(zap.NewNop())
	counts := map[events.EventType]int{}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketPriorityChanged,
		events.EventTicketAssigned,
	} {
		et := eventType
		dispatcher.Subscribe(et, func(ctx context.Context, event events.Event) {
			counts[et]++
		})
	}

	svc := NewTicketService(TicketDependencies{
		TicketRepo: tickets,
		DepartmentRepo: &mockDepartmentRepo{departments: map[string]domain.Department{
			"dept-1": {ID: "dept-1", Code: "RETAIL", Name: "Retail Ops", IsActive: true},
		}},
		UnitRepo: &mockUnitRepo{units: map[string]domain.Unit{
			"unit-1": {ID: "unit-1", DepartmentID: "dept-1", Name: "Cards", IsActive: true},
		}},
		CatalogRepo: &mockCatalogRepo{items: map[string]domain.CatalogItem{
			"item-1": {
				ID:        "item-1",
				CatalogID: "cat-1",
				Name:      "Card replacement",
				SLAMinutes: map[domain.TicketPriority]int{
					domain.TicketPriorityMedium: 480,
					domain.TicketPriorityHigh:   240,
				},
				IsActive: true,
			},
		}},
		HistoryRepo: history,
		Calculator:  sla.NewCalculator(weekdayStore{}, 30*time.Minute, zap.NewNop()),
		Dispatcher:  dispatcher,
		Timezone:    "Asia/Jakarta",
	})
	return &ticketFixture{svc: svc, tickets: tickets, history: history, events: counts}
}

func TestTicketServiceCreateStampsDueDate(t *testing.T) {
	fix := newTicketFixture(t)

	itemID := "item-1"
	ticket, err := fix.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		DepartmentID:  "dept-1",
		CatalogItemID: &itemID,
		Title:         "Card not working",
		Description:   "Declined at ATM",
		Priority:      domain.TicketPriorityMedium,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ExternalKey)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, 480, ticket.SLAMinutes)
	require.NotNil(t, ticket.SLADueDate)
	assert.True(t, ticket.SLADueDate.After(time.Now()))
	assert.Equal(t, 1, fix.events[events.EventTicketCreated])
}

func TestTicketServiceCreateWithoutSLA(t *testing.T) {
	fix := newTicketFixture(t)

	ticket, err := fix.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		DepartmentID: "dept-1",
		Title:        "General question",
		Description:  "Where is my statement?",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Nil(t, ticket.SLADueDate)
}

func TestTicketServiceCreateRejectsForeignUnit(t *testing.T) {
	fix := newTicketFixture(t)

	unitID := "unit-missing"
	_, err := fix.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		DepartmentID: "dept-1",
		UnitID:       &unitID,
		Title:        "x",
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestTicketServiceStatusTransitions(t *testing.T) {
	fix := newTicketFixture(t)
	admin := &domain.StaffMember{ID: "staff-1", Role: domain.StaffRoleAdmin, Active: true}

	ticket, err := fix.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		DepartmentID: "dept-1",
		Title:        "x",
	})
	require.NoError(t, err)

	_, err = fix.svc.UpdateStatus(context.Background(), admin, ticket.ID, domain.TicketStatusResolved, "skip")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	ticket, err = fix.svc.UpdateStatus(context.Background(), admin, ticket.ID, domain.TicketStatusInProgress, "picked up")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)

	ticket, err = fix.svc.UpdateStatus(context.Background(), admin, ticket.ID, domain.TicketStatusResolved, "done")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
	assert.Equal(t, 2, fix.events[events.EventTicketStatusChanged])
	assert.Len(t, fix.history.entries, 2)
}

func TestTicketServicePriorityChangeRecomputesDueDate(t *testing.T) {
	fix := newTicketFixture(t)
	admin := &domain.StaffMember{ID: "staff-1", Role: domain.StaffRoleAdmin, Active: true}

	itemID := "item-1"
	ticket, err := fix.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		DepartmentID:  "dept-1",
		CatalogItemID: &itemID,
		Title:         "x",
		Priority:      domain.TicketPriorityMedium,
	})
	require.NoError(t, err)
	originalDue := *ticket.SLADueDate

	ticket, err = fix.svc.UpdatePriority(context.Background(), admin, ticket.ID, domain.TicketPriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, 240, ticket.SLAMinutes)
	require.NotNil(t, ticket.SLADueDate)
	assert.True(t, ticket.SLADueDate.Before(originalDue))

	var sawDueDateChange bool
	for _, entry := range fix.history.entries {
		if entry.ChangeType == domain.ChangeTypeSLADueDate {
			sawDueDateChange = true
		}
	}
	assert.True(t, sawDueDateChange)
}

func TestTicketServiceAssignRequiresRole(t *testing.T) {
	fix := newTicketFixture(t)
	agent := &domain.StaffMember{ID: "staff-2", Role: domain.StaffRoleAgent, Active: true}

	ticket, err := fix.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		DepartmentID: "dept-1",
		Title:        "x",
	})
	require.NoError(t, err)

	_, err = fix.svc.AssignTicket(context.Background(), agent, ticket.ID, &agent.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestTicketServiceUserAccessControl(t *testing.T) {
	fix := newTicketFixture(t)

	ticket, err := fix.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		DepartmentID: "dept-1",
		Title:        "x",
	})
	require.NoError(t, err)

	_, err = fix.svc.GetTicketForUser(context.Background(), "user-2", ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	got, err := fix.svc.GetTicketForUser(context.Background(), "user-1", ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
}
