package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-reservation/internal/handler"
	"github.com/iliyamo/court-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems probe this endpoint.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access only issues a new
	// access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication; a refresh token in the
	// body is enough to end a single session.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "STAFF"))
	auth.GET("/me", a.Me)

	// Alias outside the protected group so clients can log out with only
	// a refresh token.
	e.POST("/v1/logout", a.Logout)
}

// Dashboard bundles the handlers and middleware of the protected API.
type Dashboard struct {
	Courts    *handler.CourtHandler
	Customers *handler.CustomerHandler
	Bookings  *handler.BookingHandler
	Sweep     *handler.SweepHandler
	Stats     *handler.StatsHandler

	// Optional middleware; nil entries are skipped.
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// RegisterDashboard registers the court, customer, booking, sweep and
// stats endpoints under /v1.  All routes require a valid JWT with the
// ADMIN or STAFF role.
func RegisterDashboard(e *echo.Echo, d Dashboard, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "STAFF"),
	)
	if d.RateLimit != nil {
		g.Use(d.RateLimit)
	}

	// ---- Courts ----
	g.POST("/courts", d.Courts.CreateCourt)
	g.GET("/courts", d.Courts.ListCourts, optional(d.Cache))
	g.GET("/courts/:id", d.Courts.GetCourt)
	g.PUT("/courts/:id", d.Courts.UpdateCourt)
	g.PATCH("/courts/:id", d.Courts.UpdateCourt)
	g.PATCH("/courts/:id/status", d.Courts.UpdateCourtStatus)
	g.DELETE("/courts/:id", d.Courts.DeleteCourt)

	// ---- Customers ----
	g.POST("/customers", d.Customers.CreateCustomer)
	g.GET("/customers", d.Customers.ListCustomers, optional(d.Cache))
	g.GET("/customers/:id", d.Customers.GetCustomer)
	g.PUT("/customers/:id", d.Customers.UpdateCustomer)
	g.PATCH("/customers/:id", d.Customers.UpdateCustomer)
	g.DELETE("/customers/:id", d.Customers.DeleteCustomer)

	// ---- Bookings ----
	// The expire-pending routes must be registered before /bookings/:id so
	// Echo does not swallow them as an id parameter.
	g.POST("/bookings/expire-pending", d.Sweep.ExpirePending)
	g.GET("/bookings/expire-pending", d.Sweep.DescribeExpirePending)
	g.POST("/bookings", d.Bookings.CreateBooking)
	g.GET("/bookings", d.Bookings.ListBookings)
	g.GET("/bookings/:id", d.Bookings.GetBooking)
	g.PUT("/bookings/:id", d.Bookings.UpdateBooking)
	g.PATCH("/bookings/:id/status", d.Bookings.UpdateBookingStatus)
	g.DELETE("/bookings/:id", d.Bookings.DeleteBooking)
	g.GET("/bookings/:id/time-remaining", d.Sweep.TimeRemaining)

	// ---- Stats ----
	g.GET("/stats/dashboard", d.Stats.Dashboard, optional(d.Cache))
	g.GET("/stats/weekly", d.Stats.Weekly, optional(d.Cache))
	g.GET("/stats/hourly", d.Stats.Hourly, optional(d.Cache))
}

// optional turns a nil middleware into a pass-through so routes can take
// it unconditionally.
func optional(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m != nil {
		return m
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
}
