package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/service"
	"github.com/Skotchmaster/task_manager/internal/transport"
	"github.com/Skotchmaster/task_manager/internal/util"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category_create")

	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.CreateCategory(ctx, userID, req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHTTP) GetCategory(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	cat, err := h.Svc.GetCategory(c.Request().Context(), userID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category_patch")

	userID, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req transport.PatchCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_patch_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.PatchCategory(ctx, userID, id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) DeleteCategory(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteCategory(c.Request().Context(), userID, id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *CategoryHTTP) ListCategories(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	f := transport.CategoryListQuery{
		Q:        c.QueryParam("q"),
		Page:     util.ParseIntDefault(c.QueryParam("page"), 1),
		PageSize: util.ParseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize),
	}

	page, err := h.Svc.ListCategories(c.Request().Context(), userID, f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}
