package router

import (
	"admissions-scheduler/core/middleware"
	"admissions-scheduler/modules/interview/controller"

	"github.com/labstack/echo/v4"
)

type InterviewRouter struct {
	InterviewController *controller.InterviewController
}

func NewInterviewRouter(interviewController *controller.InterviewController) *InterviewRouter {
	return &InterviewRouter{InterviewController: interviewController}
}

func (r *InterviewRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	v1.GET("/slots", r.InterviewController.GetSlots, mw.AuthMiddleware())

	interviews := v1.Group("/interviews", mw.AuthMiddleware())
	interviews.GET("", r.InterviewController.List)
	interviews.GET("/:id", r.InterviewController.GetByID)

	// Lifecycle mutations are restricted to scheduling staff.
	staff := v1.Group("/interviews", mw.AuthMiddleware(), mw.RequireRole("admin", "coordinator", "interviewer"))
	staff.POST("", r.InterviewController.Book)
	staff.PATCH("/:id/cancel", r.InterviewController.Cancel)
	staff.PATCH("/:id/reschedule", r.InterviewController.Reschedule)
	staff.PATCH("/:id/confirm", r.InterviewController.Confirm)
	staff.PATCH("/:id/complete", r.InterviewController.Complete)
}
