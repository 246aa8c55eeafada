package evaluation

import (
	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/database"
	"admissions-scheduler/core/middleware"
	"admissions-scheduler/modules/evaluation/controller"
	"admissions-scheduler/modules/evaluation/repository"
	"admissions-scheduler/modules/evaluation/router"
	"admissions-scheduler/modules/evaluation/service"

	"github.com/labstack/echo/v4"
)

// Init wires the evaluation module. The interview completer is injected
// afterwards via SetInterviewCompleter to break the module cycle.
func Init(e *echo.Echo, db database.IDatabase, guard *breaker.Guard, mw *middleware.Middleware) *service.EvaluationService {
	repo := repository.NewEvaluationRepository(db)
	svc := service.NewEvaluationService(repo, guard)
	ctrl := controller.NewEvaluationController(svc)
	rtr := router.NewEvaluationRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
