//go:build !dev

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/poojapath/puja-booking/internal/handler"
)

// registerDevRoutes is a no-op in production builds.
func registerDevRoutes(*echo.Group, *handler.AuthHandler) {}
