package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

type LogHandler struct {
	service ports.LogService
}

func NewLogHandler(service ports.LogService) *LogHandler {
	return &LogHandler{service: service}
}

// List handles GET /logs, newest first.
//
// @Summary      Audit log
// @Tags         logs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.LogEntry
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /logs [get]
func (h *LogHandler) List(c echo.Context) error {
	entries, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
