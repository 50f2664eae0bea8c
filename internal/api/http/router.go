package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	Schedule       *handlers.ScheduleHandler
	Catalog        *handlers.CatalogHandler
	SLA            *handlers.SLAHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/stats", cfg.Health.Stats)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/staff/login", cfg.Staff.Login)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	protected.Post("/password/change", cfg.Staff.ChangePassword)

	// End-user surface.
	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireUser())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/close", cfg.Tickets.CloseTicket)

	catalogs := app.Group("/catalogs", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	catalogs.Get("", cfg.Catalog.ListCatalogs)
	catalogs.Get("/:id/items", cfg.Catalog.ListItems)

	catalogItems := app.Group("/catalog-items", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	catalogItems.Get("/:id", cfg.Catalog.GetItem)
	catalogItems.Get("/:id/templates", cfg.Catalog.ListTemplates)

	// Staff surface.
	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())
	staff.Get("/tickets", cfg.StaffTickets.ListStaffTickets)
	staff.Get("/tickets/:id", cfg.StaffTickets.GetStaffTicket)
	staff.Patch("/tickets/:id/status", cfg.StaffTickets.UpdateStatus)
	staff.Patch("/tickets/:id/priority", cfg.StaffTickets.UpdatePriority)
	staff.Post("/tickets/:id/assign", cfg.StaffTickets.AssignTicket)

	staff.Post("/sla/due-date", cfg.SLA.DueDate)
	staff.Post("/sla/business-minutes", cfg.SLA.BusinessMinutes)
	staff.Post("/sla/instant", cfg.SLA.Instant)

	// Administrative surface.
	admin := staff.Group("", auth.RequireStaffRole(domain.StaffRoleAdmin))
	admin.Post("/sla/cache/clear", cfg.SLA.ClearCache)

	admin.Get("/departments", cfg.Staff.ListDepartments)
	admin.Post("/departments", cfg.Staff.CreateDepartment)
	admin.Get("/departments/:id", cfg.Staff.GetDepartment)
	admin.Put("/departments/:id", cfg.Staff.UpdateDepartment)
	admin.Get("/departments/:id/units", cfg.Staff.ListUnits)
	admin.Get("/departments/:id/members", cfg.Staff.ListStaff)
	admin.Post("/units", cfg.Staff.CreateUnit)
	admin.Post("/members", cfg.Staff.CreateStaff)
	admin.Put("/members/:id", cfg.Staff.UpdateStaff)

	schedule := staff.Group("/schedule", auth.RequireStaffRole(domain.StaffRoleAdmin, domain.StaffRoleTeamLead))
	schedule.Get("/business-hours", cfg.Schedule.ListBusinessHours)
	schedule.Post("/business-hours", cfg.Schedule.CreateBusinessHours)
	schedule.Put("/business-hours/:id", cfg.Schedule.UpdateBusinessHours)
	schedule.Delete("/business-hours/:id", cfg.Schedule.DeleteBusinessHours)
	schedule.Get("/holidays", cfg.Schedule.ListHolidays)
	schedule.Post("/holidays", cfg.Schedule.CreateHoliday)
	schedule.Put("/holidays/:id", cfg.Schedule.UpdateHoliday)
	schedule.Delete("/holidays/:id", cfg.Schedule.DeleteHoliday)

	admin.Post("/catalogs", cfg.Catalog.CreateCatalog)
	admin.Put("/catalogs/:id", cfg.Catalog.UpdateCatalog)
	admin.Post("/catalog-items", cfg.Catalog.CreateItem)
	admin.Put("/catalog-items/:id", cfg.Catalog.UpdateItem)
	admin.Post("/templates", cfg.Catalog.CreateTemplate)
}
