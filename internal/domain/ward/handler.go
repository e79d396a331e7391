package ward

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
	api.POST("/departments", h.CreateDepartment)
	api.GET("/departments", h.ListDepartments)
	api.DELETE("/departments/:id", h.DeleteDepartment)

	api.POST("/wards", h.CreateWard)
	api.GET("/wards", h.ListWards)
	api.GET("/wards/:id", h.GetWard)
	api.DELETE("/wards/:id", h.DeleteWard)
}

func (h *Handler) CreateDepartment(c echo.Context) error {
	var d Department
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDepartment(c.Request().Context(), &d); err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) ListDepartments(c echo.Context) error {
	pg := pagination.FromContext(c)
	departments, total, err := h.svc.ListDepartments(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(departments, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteDepartment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDepartment(c.Request().Context(), id); err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateWard(c echo.Context) error {
	var w Ward
	if err := c.Bind(&w); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateWard(c.Request().Context(), &w); err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) GetWard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	w, err := h.svc.GetWard(c.Request().Context(), id)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) ListWards(c echo.Context) error {
	pg := pagination.FromContext(c)

	if departmentID := c.QueryParam("department_id"); departmentID != "" {
		did, err := uuid.Parse(departmentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid department_id")
		}
		wards, total, err := h.svc.ListWardsByDepartment(c.Request().Context(), did, pg.Limit, pg.Offset)
		if err != nil {
			return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(wards, total, pg.Limit, pg.Offset))
	}

	wards, total, err := h.svc.ListWards(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(wards, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteWard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteWard(c.Request().Context(), id); err != nil {
		return c.JSON(apperror.HTTPStatus(err), apperror.Body(err))
	}
	return c.NoContent(http.StatusNoContent)
}
