package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-catalog/catalog/internal/admin"
	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
)

// reserved list query keys; everything else is a filter selection.
var adminListKeys = map[string]struct{}{"page": {}, "size": {}, "q": {}}

func (h *Handler) AdminIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, h.screens.Index())
}

func (h *Handler) AdminList(c echo.Context) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	params := admin.ListParams{
		Filters: make(map[string]string),
		Search:  c.QueryParam("q"),
		Page:    page,
	}
	for key, vals := range c.QueryParams() {
		if _, reserved := adminListKeys[key]; reserved || len(vals) == 0 {
			continue
		}
		params.Filters[key] = vals[0]
	}
	screen, err := h.screens.List(c.Request().Context(), admin.Entity(c.Param("entity")), params)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, screen)
}

func (h *Handler) AdminAddForm(c echo.Context) error {
	screen, err := h.screens.Form(c.Request().Context(), admin.Entity(c.Param("entity")), "")
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, screen)
}

func (h *Handler) AdminForm(c echo.Context) error {
	screen, err := h.screens.Form(c.Request().Context(), admin.Entity(c.Param("entity")), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, screen)
}

func (h *Handler) AdminAdd(c echo.Context) error {
	return h.adminSave(c, "", http.StatusCreated)
}

func (h *Handler) AdminSave(c echo.Context) error {
	return h.adminSave(c, c.Param("id"), http.StatusOK)
}

func (h *Handler) adminSave(c echo.Context, id string, okStatus int) error {
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	screen, err := h.screens.Save(c.Request().Context(), admin.Entity(c.Param("entity")), id, form)
	if err != nil {
		// rejected forms come back with the submitted values and their errors
		if _, ok := errs.AsValidation(err); ok && screen.Entity != "" {
			return c.JSON(http.StatusBadRequest, screen)
		}
		return h.fail(c, err)
	}
	return c.JSON(okStatus, screen)
}

func (h *Handler) AdminDelete(c echo.Context) error {
	if err := h.screens.Delete(c.Request().Context(), admin.Entity(c.Param("entity")), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
