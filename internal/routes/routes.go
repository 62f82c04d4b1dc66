package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	"github.com/BruksfildServices01/booking-engine/internal/handlers"
	"github.com/BruksfildServices01/booking-engine/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/booking-engine/internal/infra/repository"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/observability/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
)

// Options carries the process-wide singletons the routes are built from.
// Everything but DB and Config may be nil.
type Options struct {
	DB     *gorm.DB
	Config *config.Config
	Logger *zap.Logger

	Cache       *cache.AvailabilityCache
	Idempotency *cache.IdempotencyStore
	Audit       *audit.Dispatcher
	Metrics     *metrics.BookingMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Clock          timezone.Clock
	// EmailCheck overrides the registration e-mail domain check.
	EmailCheck func(string) bool
}

func RegisterRoutes(r *gin.Engine, opts Options) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.CORSMiddleware(opts.Config.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(opts.DB)

	deps := ucAppointment.Deps{
		Repo:        appointmentRepo,
		Cache:       opts.Cache,
		Idempotency: opts.Idempotency,
		Audit:       opts.Audit,
		Metrics:     opts.Metrics,
		Logger:      opts.Logger,
		Clock:       opts.Clock,
	}

	// ======================================================
	// USE CASES
	// ======================================================
	availabilityUC := ucAppointment.NewListAvailableSlots(deps)
	createUC := ucAppointment.NewCreateAppointment(deps)

	appointmentUCs := handlers.AppointmentUseCases{
		Availability: availabilityUC,
		Create:       createUC,
		Reschedule:   ucAppointment.NewRescheduleAppointment(deps),
		SetStatus:    ucAppointment.NewSetAppointmentStatus(deps),
		Complete:     ucAppointment.NewCompleteAppointment(deps),
		Cancel:       ucAppointment.NewCancelAppointment(deps),
		AttachItems:  ucAppointment.NewAttachLineItems(deps),
		QuickSale:    ucAppointment.NewQuickSale(deps),
		ListByDate:   ucAppointment.NewListAppointmentsByDate(appointmentRepo),
		ListByMonth:  ucAppointment.NewListAppointmentsByMonth(appointmentRepo),
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(opts.DB, opts.Config, opts.EmailCheck)
	meHandler := handlers.NewMeHandler(opts.DB)
	tenantHandler := handlers.NewTenantHandler(opts.DB, appointmentRepo, opts.Cache, opts.Audit)
	catalogHandler := handlers.NewCatalogHandler(opts.DB)
	clientHandler := handlers.NewClientHandler(opts.DB)
	operatingHoursHandler := handlers.NewOperatingHoursHandler(
		appointmentRepo,
		ucAppointment.NewReplaceOperatingHours(deps),
	)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentUCs, appointmentRepo)
	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(opts.DB))
	publicHandler := handlers.NewPublicHandler(opts.DB, appointmentRepo, availabilityUC, createUC)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments",
				middleware.OptionalIdentity(opts.Config),
				publicHandler.CreateAppointment,
			)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// STAFF
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(opts.Config))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/tenant", tenantHandler.GetMeTenant)
			secured.PATCH("/me/tenant", tenantHandler.UpdateMeTenant)

			secured.GET("/me/clients", clientHandler.List)
			secured.GET("/me/clients/:id/appointments", clientHandler.History)

			secured.GET("/me/catalog", catalogHandler.List)
			secured.POST("/me/catalog", catalogHandler.Create)
			secured.PATCH("/me/catalog/:id", catalogHandler.Update)

			secured.GET("/me/operating-hours", operatingHoursHandler.Get)
			secured.PUT("/me/operating-hours", operatingHoursHandler.Update)

			secured.GET("/me/availability", appointmentHandler.Availability)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/me/appointments/:id/status", appointmentHandler.SetStatus)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.GET("/me/appointments/:id/items", appointmentHandler.ListItems)
			secured.PUT("/me/appointments/:id/items", appointmentHandler.ReplaceItems)

			secured.POST("/me/quick-sales", appointmentHandler.QuickSale)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
