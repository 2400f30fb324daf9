package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/poojapath/puja-booking/internal/logger"
)

// fail writes a client error with a single message field.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}

// internalError logs the cause and returns a 500 with the cause text in
// the details field.
func internalError(c echo.Context, op string, err error) error {
	logger.Log.Error("request failed", "op", op, "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"message": "An unexpected error occurred",
		"details": err.Error(),
	})
}
