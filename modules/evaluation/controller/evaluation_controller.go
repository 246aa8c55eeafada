package controller

import (
	"admissions-scheduler/core/controller"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/modules/evaluation/dto"
	"admissions-scheduler/modules/evaluation/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EvaluationController handles evaluation listing and scoring requests.
// Stubs themselves are created by the booking cascade, never over HTTP.
type EvaluationController struct {
	controller.BaseController
	EvaluationService service.EvaluationServiceInterface
}

func NewEvaluationController(svc service.EvaluationServiceInterface) *EvaluationController {
	return &EvaluationController{
		BaseController:    controller.NewBaseController(),
		EvaluationService: svc,
	}
}

// ListByApplication handles GET /evaluations?application_id=
func (c *EvaluationController) ListByApplication(ctx echo.Context) error {
	applicationID, err := uuid.Parse(ctx.QueryParam("application_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "application_id is required")
	}

	evaluations, appErr := c.EvaluationService.ListByApplication(ctx.Request().Context(), applicationID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.EvaluationListResponse{Evaluations: evaluations}, "Success")
}

// Complete handles PATCH /evaluations/:id/complete
func (c *EvaluationController) Complete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid evaluation ID")
	}

	var req dto.CompleteEvaluationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	evaluation, appErr := c.EvaluationService.Complete(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.EvaluationResponse{Evaluation: evaluation}, "Evaluation completed")
}
