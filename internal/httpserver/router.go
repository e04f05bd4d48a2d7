package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/task_manager/internal/tokens"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	TaskHandler     *TaskHTTP
	CategoryHandler *CategoryHTTP
	Codec           *tokens.Codec
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/auth/register", d.AuthHandler.Register)
	e.POST("/auth/login", d.AuthHandler.Login)
	e.POST("/auth/refresh", d.AuthHandler.Refresh)
	e.POST("/auth/logout", d.AuthHandler.Logout)

	authMw := NewAuthMiddleware(d.Codec)

	private := e.Group("")
	private.Use(authMw.RequireAuth)

	private.POST("/tasks", d.TaskHandler.CreateTask)
	private.GET("/tasks", d.TaskHandler.ListTasks)
	private.GET("/tasks/search", d.TaskHandler.SearchTasks)
	private.GET("/tasks/:id", d.TaskHandler.GetTask)
	private.PATCH("/tasks/:id", d.TaskHandler.PatchTask)
	private.DELETE("/tasks/:id", d.TaskHandler.DeleteTask)

	private.POST("/categories", d.CategoryHandler.CreateCategory)
	private.GET("/categories", d.CategoryHandler.ListCategories)
	private.GET("/categories/:id", d.CategoryHandler.GetCategory)
	private.PATCH("/categories/:id", d.CategoryHandler.PatchCategory)
	private.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)
}
