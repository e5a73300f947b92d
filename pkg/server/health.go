package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (m *MediaServer) healthCheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
