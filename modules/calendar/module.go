package calendar

import (
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/cache"
	"admissions-scheduler/core/database"
	"admissions-scheduler/core/middleware"
	"admissions-scheduler/modules/calendar/controller"
	"admissions-scheduler/modules/calendar/repository"
	"admissions-scheduler/modules/calendar/router"
	"admissions-scheduler/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// Init wires the read-only calendar module and registers its routes.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, guard *breaker.Guard, calendarTTL time.Duration, tz *time.Location, mw *middleware.Middleware) *service.CalendarService {
	repo := repository.NewCalendarRepository(db)
	svc := service.NewCalendarService(repo, c, guard, calendarTTL)
	ctrl := controller.NewCalendarController(svc, tz)
	rtr := router.NewCalendarRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
