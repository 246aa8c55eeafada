package controller

import (
	"admissions-scheduler/core/controller"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/modules/schedule/dto"
	"admissions-scheduler/modules/schedule/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ScheduleController handles availability block HTTP requests.
type ScheduleController struct {
	controller.BaseController
	ScheduleService service.ScheduleServiceInterface
}

func NewScheduleController(svc service.ScheduleServiceInterface) *ScheduleController {
	return &ScheduleController{
		BaseController:  controller.NewBaseController(),
		ScheduleService: svc,
	}
}

// CreateBlock handles POST /schedule-blocks
func (c *ScheduleController) CreateBlock(ctx echo.Context) error {
	var req dto.CreateBlockRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	block, appErr := c.ScheduleService.CreateBlock(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, dto.BlockResponse{Block: block}, "Schedule block created")
}

// ListBlocks handles GET /schedule-blocks?interviewer_id=
func (c *ScheduleController) ListBlocks(ctx echo.Context) error {
	interviewerID, err := uuid.Parse(ctx.QueryParam("interviewer_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "interviewer_id is required")
	}

	blocks, appErr := c.ScheduleService.ListBlocks(ctx.Request().Context(), interviewerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.BlockListResponse{Blocks: blocks}, "Success")
}

// UpdateBlock handles PUT /schedule-blocks/:id
func (c *ScheduleController) UpdateBlock(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}

	var req dto.UpdateBlockRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	block, appErr := c.ScheduleService.UpdateBlock(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.BlockResponse{Block: block}, "Schedule block updated")
}

// DeactivateBlock handles DELETE /schedule-blocks/:id
func (c *ScheduleController) DeactivateBlock(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}

	if appErr := c.ScheduleService.DeactivateBlock(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Schedule block deactivated")
}
