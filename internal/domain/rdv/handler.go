package rdv

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/isi/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole(auth.RoleMedecin, auth.RoleSecretary))
	readGroup.GET("/rdvs", h.GetAll)
	readGroup.GET("/rdvs/:id", h.GetByID)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleSecretary))
	writeGroup.POST("/rdvs", h.Create)
	writeGroup.PUT("/rdvs", h.Update)
	writeGroup.PUT("/rdvs/:id", h.Update)
	writeGroup.DELETE("/rdvs/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var req RdvRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	resp, err := h.svc.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	resp, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetAll(c echo.Context) error {
	resp, err := h.svc.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Update serves both PUT /rdvs and PUT /rdvs/:id; a path id wins over the
// body's.
func (h *Handler) Update(c echo.Context) error {
	var req RdvRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if c.Param("id") != "" {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		req.ID = id
	}
	resp, err := h.svc.Update(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
