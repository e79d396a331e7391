package hospitalization

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
	api.POST("/hospitalizations", h.Admit)
	api.GET("/hospitalizations", h.ListHospitalizations)
	api.GET("/hospitalizations/:id", h.GetHospitalization)
	api.PUT("/hospitalizations/:id", h.UpdateHospitalization)
	api.POST("/hospitalizations/:id/discharge", h.Discharge)
	api.DELETE("/hospitalizations/:id", h.DeleteHospitalization)
}

func (h *Handler) Admit(c echo.Context) error {
	var cmd AdmitCommand
	if err := c.Bind(&cmd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	view, err := h.svc.Admit(c.Request().Context(), cmd)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *Handler) GetHospitalization(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	view, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) ListHospitalizations(c echo.Context) error {
	pg := pagination.FromContext(c)

	if patientID := c.QueryParam("patient_id"); patientID != "" {
		pid, err := uuid.Parse(patientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		views, total, err := h.svc.ListByPatient(c.Request().Context(), pid, pg.Limit, pg.Offset)
		if err != nil {
			return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pg.Limit, pg.Offset))
	}

	views, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateHospitalization(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var cmd UpdateCommand
	if err := c.Bind(&cmd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	view, err := h.svc.Update(c.Request().Context(), id, cmd)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Discharge(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var cmd DischargeCommand
	if err := c.Bind(&cmd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	view, err := h.svc.Discharge(c.Request().Context(), id, cmd)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) DeleteHospitalization(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.NoContent(http.StatusNoContent)
}
