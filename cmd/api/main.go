package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	unitRepo := repository.NewUnitRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	businessHoursRepo := repository.NewBusinessHoursRepository(pool)
	holidayRepo := repository.NewHolidayRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewDispatcher(logger)

	slaStore := repository.NewSLAConfigStore(businessHoursRepo, holidayRepo)
	calculator := sla.NewCalculator(slaStore, cfg.SLA.CacheTTL(), logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:  userRepo,
		StaffRepo: staffRepo,
	})
	orgService := service.NewStaffService(*cfg, service.OrgDependencies{
		DepartmentRepo: departmentRepo,
		UnitRepo:       unitRepo,
		StaffRepo:      staffRepo,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		DepartmentRepo: departmentRepo,
		UnitRepo:       unitRepo,
		StaffRepo:      staffRepo,
		CatalogRepo:    catalogRepo,
		HistoryRepo:    historyRepo,
		Calculator:     calculator,
		Dispatcher:     dispatcher,
		Timezone:       cfg.SLA.Timezone,
	})
	scheduleService := service.NewScheduleService(service.ScheduleDependencies{
		BusinessHoursRepo: businessHoursRepo,
		HolidayRepo:       holidayRepo,
		Calculator:        calculator,
	}, nil, logger)
	catalogService := service.NewCatalogService(catalogRepo, departmentRepo, unitRepo, nil)
	slaService := service.NewSLAService(calculator, metrics, cfg.SLA.Timezone)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, staffRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Staff:          handlers.NewStaffHandler(authService, orgService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		StaffTickets:   handlers.NewStaffTicketsHandler(ticketService),
		Schedule:       handlers.NewScheduleHandler(scheduleService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		SLA:            handlers.NewSLAHandler(slaService),
		AuthMiddleware: authMiddleware,
	})

	monitor := worker.NewSLAMonitor(
		ticketRepo,
		historyRepo,
		dispatcher,
		redis.ClientHandle(),
		metrics,
		cfg.SLA.MonitorInterval(),
		logger,
	)
	go monitor.Run(ctx)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
