package routes

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/auth"
	"github.com/Ananth-NQI/fleetiva-backend/internal/handlers"
	"github.com/Ananth-NQI/fleetiva-backend/internal/metrics"
	"github.com/Ananth-NQI/fleetiva-backend/internal/middleware"
	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

// Dependencies is everything the HTTP layer is built from
type Dependencies struct {
	Store        storage.Store
	Resolver     *auth.Resolver
	Metrics      *metrics.Metrics
	Capabilities services.Capabilities

	Accounts *services.AccountService
	Fleet    *services.FleetService
	Bookings *services.BookingService
	Bilties  *services.BiltyService
	Admin    *services.AdminService

	Production bool
	CookieTTL  time.Duration
}

// Options tunes the fiber app itself
type Options struct {
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp builds the fiber app with the error handler and the global
// middleware chain, then mounts every route.
func NewApp(deps Dependencies, opts Options, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Fleetiva API",
		ErrorHandler: middleware.ErrorHandler(deps.Store, logger),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})

	app.Use(middleware.RequestLogger(logger))
	if deps.Metrics != nil {
		app.Use(middleware.Metrics(deps.Metrics))
	}
	app.Use(recover.New())
	if len(opts.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(opts.CORSOrigins, ","),
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
			AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
			AllowCredentials: true,
		}))
	}

	SetupRoutes(app, deps)
	return app
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, deps Dependencies) {
	validate := handlers.NewValidator()

	health := handlers.NewHealthHandler(deps.Store, deps.Capabilities)
	app.Get("/", health.Banner)
	app.Get("/health", health.Health)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Get("/logistics/health", health.Logistics)
	authenticated := middleware.Authenticate(deps.Resolver)
	customer := middleware.Authorize(models.RoleCustomer)
	driver := middleware.Authorize(models.RoleDriver)
	admin := middleware.Authorize(models.RoleAdmin, models.RoleSuperAdmin)
	superadmin := middleware.Authorize(models.RoleSuperAdmin)

	// Auth
	authHandler := handlers.NewAuthHandler(deps.Accounts, validate, deps.Production, deps.CookieTTL)
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", authenticated, authHandler.Me)
	authRoutes.Post("/forgot-password", authHandler.ForgotPassword)
	authRoutes.Post("/reset-password", authHandler.ResetPassword)
	authRoutes.Post("/firebase/login", authHandler.FirebaseLogin)
	authRoutes.Post("/firebase/register", authHandler.FirebaseRegister)

	// Loads
	loadHandler := handlers.NewLoadHandler(deps.Fleet, validate)
	loads := api.Group("/load", authenticated)
	loads.Post("/post", customer, loadHandler.PostLoad)
	loads.Get("/available", admin, loadHandler.Available)
	loads.Get("/mine", customer, loadHandler.Mine)

	// Trucks
	truckHandler := handlers.NewTruckHandler(deps.Fleet, validate)
	trucks := api.Group("/truck", authenticated)
	trucks.Post("/post", driver, truckHandler.PostTruck)
	trucks.Get("/available", admin, truckHandler.Available)
	trucks.Get("/mine", driver, truckHandler.Mine)

	api.Get("/match/:loadId", authenticated, admin, truckHandler.Match)

	// Bookings
	bookingHandler := handlers.NewBookingHandler(deps.Bookings, validate, deps.Metrics)
	bookings := api.Group("/booking", authenticated)
	bookings.Post("/create", admin, bookingHandler.Create)
	bookings.Get("/all", admin, bookingHandler.All)
	bookings.Get("/customer/bookings", customer, bookingHandler.CustomerBookings)
	bookings.Get("/driver/bookings", driver, bookingHandler.DriverBookings)
	bookings.Patch("/:id/status", driver, bookingHandler.UpdateStatus)
	bookings.Post("/:id/payment", admin, bookingHandler.UpdatePayment)
	bookings.Get("/:id/bilty", bookingHandler.Bilty)
	bookings.Get("/:id/invoice", bookingHandler.Invoice)

	// Bilty maintenance
	biltyHandler := handlers.NewBiltyHandler(deps.Bilties, validate)
	bilties := api.Group("/bilty", authenticated, admin)
	bilties.Get("/", biltyHandler.List)
	bilties.Get("/:id", biltyHandler.Get)
	bilties.Post("/", biltyHandler.Create)
	bilties.Patch("/:id", biltyHandler.Update)
	bilties.Delete("/:id", biltyHandler.Delete)

	userHandler := handlers.NewUserHandler(deps.Accounts)
	api.Get("/users", authenticated, admin, userHandler.List)

	// Superadmin housekeeping
	adminHandler := handlers.NewAdminHandler(deps.Admin, validate)
	logs := api.Group("/logs", authenticated, superadmin)
	logs.Get("/", adminHandler.SystemLogs)
	logs.Delete("/", adminHandler.ClearSystemLogs)
	logs.Get("/login", adminHandler.LoginLogs)

	tenants := api.Group("/tenants", authenticated, superadmin)
	tenants.Get("/", adminHandler.Tenants)
	tenants.Post("/", adminHandler.CreateTenant)
	tenants.Patch("/:id/status", adminHandler.SetTenantStatus)
}
