package bedaudit

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wardops/wardops/internal/platform/apperror"
	"github.com/wardops/wardops/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/beds/:id/audit", h.ListBedAudit)
}

func (h *Handler) ListBedAudit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	entries, total, err := h.svc.ListByBed(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, total, pg.Limit, pg.Offset))
}
