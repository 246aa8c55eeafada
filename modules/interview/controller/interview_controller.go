package controller

import (
	"strconv"
	"time"

	"admissions-scheduler/core/constants"
	"admissions-scheduler/core/controller"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/core/utils"
	"admissions-scheduler/modules/interview/dto"
	"admissions-scheduler/modules/interview/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InterviewController handles slot queries and interview lifecycle requests.
type InterviewController struct {
	controller.BaseController
	InterviewService service.InterviewServiceInterface
	tz               *time.Location
}

func NewInterviewController(svc service.InterviewServiceInterface, tz *time.Location) *InterviewController {
	return &InterviewController{
		BaseController:   controller.NewBaseController(),
		InterviewService: svc,
		tz:               tz,
	}
}

// GetSlots handles GET /slots?interviewer_id=&date=&duration_minutes=
func (c *InterviewController) GetSlots(ctx echo.Context) error {
	interviewerID, err := uuid.Parse(ctx.QueryParam("interviewer_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "interviewer_id must be a valid uuid")
	}
	date, err := time.ParseInLocation(constants.DateLayout, ctx.QueryParam("date"), c.tz)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "date must be YYYY-MM-DD")
	}
	duration, err := strconv.Atoi(ctx.QueryParam("duration_minutes"))
	if err != nil || duration <= 0 {
		return c.BadRequest(errors.ErrInvalidInput, "duration_minutes must be a positive integer")
	}

	slots, appErr := c.InterviewService.ComputeSlots(ctx.Request().Context(), interviewerID, date, duration)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, slots, "Success")
}

// Book handles POST /interviews
func (c *InterviewController) Book(ctx echo.Context) error {
	var req dto.BookInterviewRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	interview, appErr := c.InterviewService.Book(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, dto.InterviewResponse{Interview: interview}, "Interview booked")
}

// Cancel handles PATCH /interviews/:id/cancel
func (c *InterviewController) Cancel(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview ID")
	}

	var req dto.CancelInterviewRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "missing token data", nil))
	}

	interview, appErr := c.InterviewService.Cancel(ctx.Request().Context(), id, req.Reason, claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.InterviewResponse{Interview: interview}, "Interview cancelled")
}

// Reschedule handles PATCH /interviews/:id/reschedule
func (c *InterviewController) Reschedule(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview ID")
	}

	var req dto.RescheduleInterviewRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	interview, appErr := c.InterviewService.Reschedule(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.InterviewResponse{Interview: interview}, "Interview rescheduled")
}

// Confirm handles PATCH /interviews/:id/confirm
func (c *InterviewController) Confirm(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview ID")
	}

	interview, appErr := c.InterviewService.Confirm(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.InterviewResponse{Interview: interview}, "Interview confirmed")
}

// Complete handles PATCH /interviews/:id/complete
func (c *InterviewController) Complete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview ID")
	}

	interview, appErr := c.InterviewService.Complete(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.InterviewResponse{Interview: interview}, "Interview completed")
}

// GetByID handles GET /interviews/:id
func (c *InterviewController) GetByID(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview ID")
	}

	interview, appErr := c.InterviewService.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.InterviewResponse{Interview: interview}, "Success")
}

// List handles GET /interviews
func (c *InterviewController) List(ctx echo.Context) error {
	var query dto.ListInterviewsQuery
	if err := ctx.Bind(&query); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}

	interviews, appErr := c.InterviewService.List(ctx.Request().Context(), &query)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.InterviewListResponse{Interviews: interviews}, "Success")
}
