package schedule

import (
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/cache"
	"admissions-scheduler/core/database"
	"admissions-scheduler/core/middleware"
	"admissions-scheduler/modules/schedule/controller"
	"admissions-scheduler/modules/schedule/repository"
	"admissions-scheduler/modules/schedule/router"
	"admissions-scheduler/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// Init wires the schedule registry module and registers its routes.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, guard *breaker.Guard, tz *time.Location, mw *middleware.Middleware) *service.ScheduleService {
	repo := repository.NewScheduleRepository(db)
	svc := service.NewScheduleService(repo, c, guard, tz)
	ctrl := controller.NewScheduleController(svc)
	rtr := router.NewScheduleRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
