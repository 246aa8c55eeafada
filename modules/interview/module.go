package interview

import (
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/cache"
	"admissions-scheduler/core/database"
	"admissions-scheduler/core/middleware"
	"admissions-scheduler/modules/interview/controller"
	"admissions-scheduler/modules/interview/repository"
	"admissions-scheduler/modules/interview/router"
	"admissions-scheduler/modules/interview/service"

	"github.com/labstack/echo/v4"
)

// Init wires the interview module and registers its routes. The block
// provider, evaluation cascade and dispatcher come from sibling modules.
func Init(
	e *echo.Echo,
	db database.IDatabase,
	c cache.Cache,
	guard *breaker.Guard,
	blocks service.BlockProvider,
	evaluations service.EvaluationCascade,
	dispatcher service.NotificationDispatcher,
	tz *time.Location,
	slotTTL time.Duration,
	mw *middleware.Middleware,
) *service.InterviewService {
	repo := repository.NewInterviewRepository(db)
	svc := service.NewInterviewService(repo, blocks, evaluations, dispatcher, c, guard, tz, slotTTL)
	ctrl := controller.NewInterviewController(svc, tz)
	rtr := router.NewInterviewRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
