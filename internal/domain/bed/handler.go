package bed

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
	api.POST("/beds", h.CreateBed)
	api.GET("/beds", h.ListBeds)
	api.GET("/beds/:id", h.GetBed)
	api.PATCH("/beds/:id/status", h.ChangeBedStatus)
	api.DELETE("/beds/:id", h.DeleteBed)
}

func (h *Handler) CreateBed(c echo.Context) error {
	var b Bed
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &b); err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	view, err := h.svc.ToView(c.Request().Context(), b)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) ListBeds(c echo.Context) error {
	pg := pagination.FromContext(c)

	if wardID := c.QueryParam("ward_id"); wardID != "" {
		wid, err := uuid.Parse(wardID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid ward_id")
		}
		beds, total, err := h.svc.ListByWard(c.Request().Context(), wid, pg.Limit, pg.Offset)
		if err != nil {
			return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(beds, total, pg.Limit, pg.Offset))
	}

	beds, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(beds, total, pg.Limit, pg.Offset))
}

func (h *Handler) ChangeBedStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status Status  `json:"status"`
		Notes  *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.ChangeStatus(c.Request().Context(), id, body.Status, body.Notes)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.NoContent(http.StatusNoContent)
}
