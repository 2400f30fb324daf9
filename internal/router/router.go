// Package router wires HTTP routes to their handlers and applies the
// authentication and role middleware each group needs.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/poojapath/puja-booking/internal/config"
	"github.com/poojapath/puja-booking/internal/handler"
	"github.com/poojapath/puja-booking/internal/middleware"
	"github.com/poojapath/puja-booking/internal/model"
)

// Handlers collects every handler the route table needs.
type Handlers struct {
	Auth         *handler.AuthHandler
	CustomerAuth *handler.CustomerAuthHandler
	Customers    *handler.CustomerHandler
	Types        *handler.PujaTypeHandler
	Bookings     *handler.BookingHandler
}

// Register wires the whole route table.  Public reads of the catalog go
// through the Redis response cache when one is configured; everything
// else runs uncached.
func Register(e *echo.Echo, h Handlers, cfg config.Config, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	auth := middleware.JWTAuth(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleUser)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	adminManager := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	anyPrincipal := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleUser, model.RoleCustomer)
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	// Staff auth.
	sa := e.Group("/api/auth")
	sa.POST("/login", h.Auth.Login)
	sa.POST("/register", h.Auth.Register)
	registerDevRoutes(sa, h.Auth)

	// Customer auth.  Profile needs a Customer token.
	ca := e.Group("/api/customerauth")
	ca.POST("/login", h.CustomerAuth.Login)
	ca.POST("/register", h.CustomerAuth.Register)
	ca.GET("/profile", h.CustomerAuth.Profile, auth, middleware.RequireRole(model.RoleCustomer))

	// Customer management is staff-only, any staff role.
	cu := e.Group("/api/customer", auth, staff)
	cu.GET("", h.Customers.List)
	cu.GET("/:id", h.Customers.Get)
	cu.GET("/search/email/:email", h.Customers.SearchByEmail)
	cu.GET("/search/contact/:contact", h.Customers.SearchByContact)
	cu.GET("/state/:state", h.Customers.ListByState)
	cu.POST("", h.Customers.Create)
	cu.PUT("/:id", h.Customers.Update)
	cu.DELETE("/:id", h.Customers.Delete)

	// Catalog: public reads, admin writes.
	pt := e.Group("/api/pujatype")
	pt.GET("", h.Types.List)
	pt.GET("/active", h.Types.ListActive, cache)
	pt.GET("/:id", h.Types.Get)
	pt.POST("", h.Types.Create, auth, adminOnly)
	pt.PUT("/:id", h.Types.Update, auth, adminOnly)
	pt.PATCH("/:id/deactivate", h.Types.Deactivate, auth, adminOnly)
	pt.DELETE("/:id", h.Types.Delete, auth, adminOnly)

	// Bookings.  Row-level ownership checks live in the handlers.
	bk := e.Group("/api/pujabooking", auth)
	bk.POST("", h.Bookings.Create, anyPrincipal)
	bk.GET("/:id", h.Bookings.Get, anyPrincipal)
	bk.GET("/customer/:guid", h.Bookings.ListByCustomer, anyPrincipal)
	bk.PATCH("/:id/cancel", h.Bookings.Cancel, anyPrincipal)
	bk.GET("", h.Bookings.List, adminManager)
	bk.GET("/puja-type/:id", h.Bookings.ListByPujaType, adminManager)
	bk.GET("/status/:status", h.Bookings.ListByStatus, adminManager)
	bk.GET("/date-range", h.Bookings.ListByDateRange, adminManager)
	bk.GET("/pending-payments", h.Bookings.ListPendingPayments, adminManager)
	bk.GET("/stats/revenue", h.Bookings.Revenue, adminManager)
	bk.GET("/stats/count", h.Bookings.Count, adminManager)
	bk.PUT("/:id", h.Bookings.Update, adminManager)
	bk.PATCH("/:id/status", h.Bookings.SetStatus, adminManager)
	bk.PATCH("/:id/payment-status", h.Bookings.SetPaymentStatus, adminManager)
	bk.DELETE("/:id", h.Bookings.Delete, adminOnly)
}
