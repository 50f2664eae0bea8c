package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

const (
	monitorBatchSize  = 200
	breachDedupeTTL   = 24 * time.Hour
	breachDedupePrefx = "sla:breach:"
)

// SLAMonitor periodically scans open tickets whose due date has passed,
// stamps the breach, records history and publishes a breach event. A Redis
// SETNX key per ticket keeps multiple instances from double-reporting.
type SLAMonitor struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	dispatcher *events.Dispatcher
	redis      *redis.Client
	metrics    *observability.Metrics
	interval   time.Duration
	logger     *zap.Logger
}

func NewSLAMonitor(
	tickets repository.TicketRepository,
	history repository.TicketHistoryRepository,
	dispatcher *events.Dispatcher,
	redisClient *redis.Client,
	metrics *observability.Metrics,
	interval time.Duration,
	logger *zap.Logger,
) *SLAMonitor {
	return &SLAMonitor{
		tickets:    tickets,
		history:    history,
		dispatcher: dispatcher,
		redis:      redisClient,
		metrics:    metrics,
		interval:   interval,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled, sweeping for breaches on each tick.
func (m *SLAMonitor) Run(ctx context.Context) {
	m.logger.Info("sla monitor started", zap.Duration("interval", m.interval))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("sla monitor stopped")
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *SLAMonitor) sweep(ctx context.Context) {
	now := time.Now().UTC()

	candidates, err := m.tickets.ListOverdueCandidates(ctx, now, monitorBatchSize)
	if err != nil {
		m.logger.Error("sla sweep failed to list candidates", zap.Error(err))
		return
	}

	for i := range candidates {
		ticket := &candidates[i]
		if err := m.reportBreach(ctx, ticket, now); err != nil {
			m.logger.Error("failed to report sla breach",
				zap.String("ticket_id", ticket.ID),
				zap.Error(err),
			)
		}
	}
}

func (m *SLAMonitor) reportBreach(ctx context.Context, ticket *domain.Ticket, now time.Time) error {
	acquired, err := m.redis.SetNX(ctx, breachDedupePrefx+ticket.ID, now.Format(time.RFC3339), breachDedupeTTL).Result()
	if err != nil {
		return fmt.Errorf("acquire breach lock: %w", err)
	}
	if !acquired {
		return nil
	}

	ticket.SLABreachedAt = &now
	ticket.UpdatedAt = now
	if err := m.tickets.Update(ctx, ticket); err != nil {
		return fmt.Errorf("stamp breach: %w", err)
	}

	entry := &domain.TicketHistory{
		TicketID:      ticket.ID,
		ChangedByType: domain.ActorTypeSystem,
		ChangeType:    domain.ChangeTypeSLABreach,
		NewValue:      map[string]any{"breached_at": now},
	}
	if err := m.history.Create(ctx, entry); err != nil {
		m.logger.Warn("failed to record breach history",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
	}

	minutesOverdue := 0
	if ticket.SLADueDate != nil {
		minutesOverdue = int(now.Sub(*ticket.SLADueDate) / time.Minute)
	}

	m.metrics.RecordSLABreach()
	m.dispatcher.Publish(ctx, events.EventTicketSLABreached, ticket.ID, events.SystemActor(), events.TicketSLABreachedPayload{
		DueDate:        derefTime(ticket.SLADueDate),
		MinutesOverdue: minutesOverdue,
		Priority:       ticket.Priority,
	})

	m.logger.Warn("ticket sla breached",
		zap.String("ticket_id", ticket.ID),
		zap.String("external_key", ticket.ExternalKey),
		zap.Int("minutes_overdue", minutesOverdue),
	)
	return nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
