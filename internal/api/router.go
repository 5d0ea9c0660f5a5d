package api

import (
	"net"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/api/handler"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/api/middleware"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

// Deps carries everything the route table needs.
type Deps struct {
	Log zerolog.Logger

	Auth          ports.AuthService
	Authenticator ports.Authenticator
	Cars          ports.CarService
	Bookings      ports.BookingService
	Logs          ports.LogService

	Audit   ports.AuditRecorder
	Limiter ports.RateLimiter

	// Health lists the dependencies pinged by /health/ready.
	Health map[string]handler.Pinger

	// Metrics enables /metrics and the HTTP request histograms.
	Metrics bool
	// Swagger enables /swagger/*.
	Swagger bool

	// TrustedProxies are the peers allowed to set X-Forwarded-For.
	TrustedProxies []*net.IPNet
}

// NewRouter builds the router with every route registered.
func NewRouter(d Deps) *Router {
	r := New(d.Log)
	if len(d.TrustedProxies) > 0 {
		r.echo.IPExtractor = proxyIPExtractor(d.TrustedProxies)
	}
	if d.Metrics {
		r.echo.Use(echoprometheus.NewMiddleware("carrental"))
	}
	r.Use(middleware.SecurityHeaders())

	authHandler := handler.NewAuthHandler(d.Auth, d.Audit)
	carHandler := handler.NewCarHandler(d.Cars, d.Audit)
	bookingHandler := handler.NewBookingHandler(d.Bookings, d.Audit)
	logHandler := handler.NewLogHandler(d.Logs)
	healthHandler := handler.NewHealthHandler(d.Health)

	authed := middleware.RequireAuth(d.Authenticator)
	staff := middleware.RequireRole(d.Authenticator, domain.StaffRoles...)
	superadmin := middleware.RequireRole(d.Authenticator, domain.RoleSuperadmin)

	var loginLimit, registerLimit []middleware.Stage
	if d.Limiter != nil {
		loginLimit = append(loginLimit, middleware.RateLimit(d.Limiter, "/auth/login", d.Log))
		registerLimit = append(registerLimit, middleware.RateLimit(d.Limiter, "/auth/register", d.Log))
	}

	// --- Service info and probes ---
	r.Handle(http.MethodGet, "/", healthHandler.Root)
	r.Handle(http.MethodGet, "/status", healthHandler.Status)
	r.Handle(http.MethodGet, "/health", healthHandler.Liveness)
	r.Handle(http.MethodGet, "/health/ready", healthHandler.Readiness)

	// --- Auth ---
	r.Handle(http.MethodPost, "/auth/register", authHandler.Register, registerLimit...)
	r.Handle(http.MethodPost, "/auth/login", authHandler.Login, loginLimit...)
	r.Handle(http.MethodPost, "/auth/logout", authHandler.Logout, authed)

	// --- Account ---
	r.Handle(http.MethodGet, "/profile", authHandler.Profile, authed)
	r.Handle(http.MethodGet, "/admin/area", authHandler.AdminArea, staff)
	r.Handle(http.MethodPost, "/admin/create-admin", authHandler.CreateAdmin, superadmin)

	// --- Cars ---
	r.Handle(http.MethodGet, "/cars", carHandler.List, authed)
	r.Handle(http.MethodPost, "/cars", carHandler.Create, staff)
	r.Handle(http.MethodPut, "/cars/", carHandler.Update, staff)
	r.Handle(http.MethodDelete, "/cars/", carHandler.Delete, staff)

	// --- Bookings ---
	r.Handle(http.MethodPost, "/bookings", bookingHandler.Create, authed)
	r.Handle(http.MethodGet, "/bookings", bookingHandler.ListMine, authed)
	r.Handle(http.MethodGet, "/bookings/all", bookingHandler.ListAll, staff)
	r.Handle(http.MethodPut, "/bookings/", bookingHandler.Update, authed)
	r.Handle(http.MethodDelete, "/bookings/", bookingHandler.Cancel, authed)

	// --- Audit log ---
	r.Handle(http.MethodGet, "/logs", logHandler.List, staff)

	if d.Metrics {
		r.Mount(http.MethodGet, "/metrics", echoprometheus.NewHandler())
	}
	if d.Swagger {
		r.Mount(http.MethodGet, "/swagger/*", echoSwagger.WrapHandler)
	}

	return r
}

// proxyIPExtractor reads X-Forwarded-For, trusting only the given ranges.
func proxyIPExtractor(ranges []*net.IPNet) echo.IPExtractor {
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range ranges {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
