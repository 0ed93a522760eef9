package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendaplus/salon-scheduler/internal/access"
	"github.com/agendaplus/salon-scheduler/internal/audit"
	"github.com/agendaplus/salon-scheduler/internal/config"
	"github.com/agendaplus/salon-scheduler/internal/handlers"
	infraRepo "github.com/agendaplus/salon-scheduler/internal/infra/repository"
	"github.com/agendaplus/salon-scheduler/internal/middleware"
	"github.com/agendaplus/salon-scheduler/internal/storage"
	ucAppointment "github.com/agendaplus/salon-scheduler/internal/usecase/appointment"
)

// Deps carries the optional infrastructure main wires up.
type Deps struct {
	SlotCache ucAppointment.SlotCache
	Avatars   *storage.AvatarStore
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	slotCache := deps.SlotCache
	if slotCache == nil {
		slotCache = ucAppointment.NopSlotCache{}
	}

	// ======================================================
	// USE CASES (SCHEDULING CORE)
	// ======================================================
	createUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
		slotCache,
	)

	rescheduleUC := ucAppointment.NewRescheduleAppointment(
		appointmentRepo,
		auditDispatcher,
		slotCache,
	)

	statusUC := ucAppointment.NewUpdateStatus(
		appointmentRepo,
		auditDispatcher,
		slotCache,
	)

	deleteUC := ucAppointment.NewDeleteAppointment(
		appointmentRepo,
		auditDispatcher,
		slotCache,
	)

	queries := ucAppointment.NewQueries(appointmentRepo)

	availabilityUC := ucAppointment.NewGetAvailability(
		appointmentRepo,
		slotCache,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	salonHandler := handlers.NewSalonHandler(db)
	professionalHandler := handlers.NewProfessionalHandler(db, deps.Avatars)
	serviceHandler := handlers.NewServiceHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(
		createUC,
		rescheduleUC,
		statusUC,
		deleteUC,
		queries,
	)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/salons", salonHandler.List)
		api.GET("/salons/:salonId", salonHandler.Get)
		api.GET("/salons/:salonId/professionals", professionalHandler.ListBySalon)
		api.GET("/salons/:salonId/professionals/:id", professionalHandler.Get)
		api.GET("/salons/:salonId/services", serviceHandler.ListBySalon)
		api.GET("/salons/:salonId/availability", availabilityHandler.Get)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/salons/register", authHandler.RegisterSalon)
		api.POST("/auth/salons/login", authHandler.LoginSalon)
		api.POST("/auth/clients/register", authHandler.RegisterClient)
		api.POST("/auth/clients/login", authHandler.LoginClient)
		api.POST("/auth/professionals/login", authHandler.LoginProfessional)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// Appointments: all roles, per-action authorization inside the
			// scheduler.
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListMine)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)

			// Client self-service.
			client := secured.Group("/me/client")
			client.Use(middleware.RequireRole(access.RoleClient))
			{
				client.GET("", clientHandler.GetMe)
				client.PATCH("", clientHandler.UpdateMe)
			}

			// Salon tenant management.
			salon := secured.Group("/me/salon")
			salon.Use(middleware.RequireRole(access.RoleSalon))
			{
				salon.GET("", salonHandler.GetMe)
				salon.PATCH("", salonHandler.UpdateMe)

				salon.GET("/clients", clientHandler.List)
				salon.GET("/clients/:id", clientHandler.Get)
				salon.DELETE("/clients/:id", clientHandler.Delete)

				salon.GET("/services", serviceHandler.ListMine)
				salon.POST("/services", serviceHandler.Create)
				salon.PATCH("/services/:id", serviceHandler.Update)
				salon.DELETE("/services/:id", serviceHandler.Delete)

				salon.POST("/professionals", professionalHandler.Create)
				salon.PATCH("/professionals/:id", professionalHandler.Update)
				salon.DELETE("/professionals/:id", professionalHandler.Delete)

				salon.GET("/audit-logs", auditLogsHandler.List)
			}

			// Avatar upload: salon or the professional itself.
			secured.POST(
				"/professionals/:id/avatar",
				middleware.RequireRole(access.RoleSalon, access.RoleProfessional),
				professionalHandler.UploadAvatar,
			)
		}
	}
}
