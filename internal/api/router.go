package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/therapyplatform/practice-system/docs"
	"github.com/therapyplatform/practice-system/internal/api/handler"
	"github.com/therapyplatform/practice-system/internal/api/middleware"
	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
	"github.com/therapyplatform/practice-system/internal/core/service"
)

// Dependencies carries everything the router needs, constructed at startup
// and injected here with no ambient lookups.
type Dependencies struct {
	Mongo *mongo.Database
	Redis *redis.Client

	Store     ports.SessionStore
	Guard     *service.RouteGuard
	Auth      ports.AuthService
	Roster    ports.RosterService
	Schedule  ports.ScheduleService
	Analytics ports.AnalyticsService
	Audit     ports.AuditSink

	LoginRatePerMin int
	LoginRateBurst  int
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("practice"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Store)
	dashboardHandler := handler.NewDashboardHandler(deps.Analytics, deps.Roster, deps.Schedule)
	rosterHandler := handler.NewRosterHandler(deps.Roster)
	scheduleHandler := handler.NewScheduleHandler(deps.Schedule)

	guard := func(required ...domain.Role) echo.MiddlewareFunc {
		return middleware.Guard(deps.Guard, deps.Audit, required...)
	}

	// --- Public routes ---
	loginLimit := middleware.NewLoginRateLimiter(deps.LoginRatePerMin, deps.LoginRateBurst)
	e.GET(service.LoginPath, authHandler.LoginView)
	e.POST("/auth/login", authHandler.Login, loginLimit.Middleware())
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)

	// --- Protected views, role sets per the dashboard route table ---
	e.GET("/", dashboardHandler.Root, guard())
	e.GET("/settings", dashboardHandler.Settings, guard())

	admin := guard(domain.RoleAdmin)
	e.GET("/admin", dashboardHandler.Admin, admin)
	e.GET("/admin/analytics", dashboardHandler.Admin, admin)
	e.GET("/admin/sessions", scheduleHandler.SessionLog, admin)
	e.GET("/admin/practitioners", rosterHandler.ListPractitioners, admin)
	e.POST("/admin/practitioners", rosterHandler.CreatePractitioner, admin)
	e.PUT("/admin/practitioners/:id", rosterHandler.UpdatePractitioner, admin)
	e.DELETE("/admin/practitioners/:id", rosterHandler.DeletePractitioner, admin)
	e.GET("/admin/patients", rosterHandler.ListPatients, admin)
	e.POST("/admin/patients", rosterHandler.CreatePatient, admin)
	e.PUT("/admin/patients/:id", rosterHandler.UpdatePatient, admin)
	e.DELETE("/admin/patients/:id", rosterHandler.DeletePatient, admin)

	e.GET("/practitioner", dashboardHandler.Practitioner, guard(domain.RolePractitioner))
	e.GET("/patient", dashboardHandler.Patient, guard(domain.RolePatient))

	scheduling := guard(domain.RoleAdmin, domain.RolePractitioner)
	e.GET("/appointments", scheduleHandler.List, guard())
	e.POST("/appointments", scheduleHandler.Create, scheduling)
	e.PUT("/appointments/:id/status", scheduleHandler.Transition, scheduling)

	// --- Ops surface (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
