package router

import (
	"admissions-scheduler/core/middleware"
	"admissions-scheduler/modules/evaluation/controller"

	"github.com/labstack/echo/v4"
)

type EvaluationRouter struct {
	EvaluationController *controller.EvaluationController
}

func NewEvaluationRouter(evaluationController *controller.EvaluationController) *EvaluationRouter {
	return &EvaluationRouter{EvaluationController: evaluationController}
}

func (r *EvaluationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	evaluations := v1.Group("/evaluations", mw.AuthMiddleware())
	evaluations.GET("", r.EvaluationController.ListByApplication)

	scoring := v1.Group("/evaluations", mw.AuthMiddleware(), mw.RequireRole("admin", "coordinator", "interviewer"))
	scoring.PATCH("/:id/complete", r.EvaluationController.Complete)
}
