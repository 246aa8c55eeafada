package router

import (
	"admissions-scheduler/core/middleware"
	"admissions-scheduler/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	CalendarController *controller.CalendarController
}

func NewCalendarRouter(calendarController *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{CalendarController: calendarController}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1", mw.AuthMiddleware())

	v1.GET("/calendar", r.CalendarController.GetCalendar)
	v1.GET("/interviewers", r.CalendarController.ListInterviewers)
}
