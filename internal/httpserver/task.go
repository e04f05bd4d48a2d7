package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/service"
	"github.com/Skotchmaster/task_manager/internal/transport"
	"github.com/Skotchmaster/task_manager/internal/util"
)

type TaskHTTP struct {
	Svc *service.TaskService
}

func (h *TaskHTTP) CreateTask(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task_create")

	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req transport.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("task_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	task, err := h.Svc.CreateTask(ctx, userID, req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *TaskHTTP) GetTask(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.Svc.GetTask(c.Request().Context(), userID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) PatchTask(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task_patch")

	userID, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req transport.PatchTaskRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("task_patch_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	task, err := h.Svc.PatchTask(ctx, userID, id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHTTP) DeleteTask(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteTask(c.Request().Context(), userID, id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *TaskHTTP) ListTasks(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	f, err := taskListQuery(c)
	if err != nil {
		return err
	}

	page, err := h.Svc.ListTasks(c.Request().Context(), userID, f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *TaskHTTP) SearchTasks(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize)

	total, hits, err := h.Svc.SearchTasks(c.Request().Context(), userID, q, page, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search unavailable")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": hits, "total": total})
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// an unparsable id cannot belong to the caller
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}

func taskListQuery(c echo.Context) (transport.TaskListQuery, error) {
	f := transport.TaskListQuery{
		Q:        c.QueryParam("q"),
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Sort:     c.QueryParam("sort"),
		Page:     util.ParseIntDefault(c.QueryParam("page"), 1),
		PageSize: util.ParseIntDefault(c.QueryParam("page_size"), util.DefaultPageSize),
	}

	if v := c.QueryParam("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		f.CategoryID = &id
	}

	dates := []struct {
		param string
		dst   **time.Time
	}{
		{"due_from", &f.DueFrom},
		{"due_to", &f.DueTo},
		{"created_from", &f.CreatedFrom},
		{"created_to", &f.CreatedTo},
	}
	for _, d := range dates {
		v := c.QueryParam(d.param)
		if v == "" {
			continue
		}
		t, err := transport.ParseDate(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid "+d.param)
		}
		*d.dst = &t
	}

	return f, nil
}
