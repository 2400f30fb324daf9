//go:build dev

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/poojapath/puja-booking/internal/handler"
)

// registerDevRoutes exposes the password hashing diagnostic.  Built
// only with -tags dev; the endpoint echoes secrets back and must never
// reach production.
func registerDevRoutes(g *echo.Group, a *handler.AuthHandler) {
	g.GET("/hash-password", a.HashPasswordDiag)
}
