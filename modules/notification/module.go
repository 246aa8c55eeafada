package notification

import (
	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/database"
	"admissions-scheduler/core/middleware"
	"admissions-scheduler/modules/notification/controller"
	"admissions-scheduler/modules/notification/repository"
	"admissions-scheduler/modules/notification/router"
	"admissions-scheduler/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init wires the notification module: the inbox endpoints, the queue
// handler and the dispatcher handed to the interview module. client may be
// nil when Redis is not configured; events are then handled inline.
func Init(e *echo.Echo, db database.IDatabase, guard *breaker.Guard, client service.TaskEnqueuer, directory service.ContactDirectory, mw *middleware.Middleware) (*service.Dispatcher, *service.Handler) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, guard)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)
	rtr.Setup(e, mw)

	handler := service.NewHandler(repo, directory)
	dispatcher := service.NewDispatcher(client, handler, guard)
	return dispatcher, handler
}
