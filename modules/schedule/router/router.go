package router

import (
	"admissions-scheduler/core/middleware"
	"admissions-scheduler/modules/schedule/controller"

	"github.com/labstack/echo/v4"
)

type ScheduleRouter struct {
	ScheduleController *controller.ScheduleController
}

func NewScheduleRouter(scheduleController *controller.ScheduleController) *ScheduleRouter {
	return &ScheduleRouter{ScheduleController: scheduleController}
}

func (r *ScheduleRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	blocks := v1.Group("/schedule-blocks", mw.AuthMiddleware())
	blocks.GET("", r.ScheduleController.ListBlocks)

	// Block mutations are administrative input.
	admin := v1.Group("/schedule-blocks", mw.AuthMiddleware(), mw.RequireRole("admin", "coordinator"))
	admin.POST("", r.ScheduleController.CreateBlock)
	admin.PUT("/:id", r.ScheduleController.UpdateBlock)
	admin.DELETE("/:id", r.ScheduleController.DeactivateBlock)
}
