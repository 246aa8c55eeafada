package controller

import (
	"time"

	"admissions-scheduler/core/constants"
	"admissions-scheduler/core/controller"
	"admissions-scheduler/core/errors"
	"admissions-scheduler/modules/calendar/dto"
	"admissions-scheduler/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// CalendarController handles the read-only calendar and directory endpoints.
type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
	tz              *time.Location
}

func NewCalendarController(svc service.CalendarServiceInterface, tz *time.Location) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
		tz:              tz,
	}
}

// GetCalendar handles GET /calendar?start_date=&end_date=
func (c *CalendarController) GetCalendar(ctx echo.Context) error {
	startDate, err := time.ParseInLocation(constants.DateLayout, ctx.QueryParam("start_date"), c.tz)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "start_date must be YYYY-MM-DD")
	}
	endDate, err := time.ParseInLocation(constants.DateLayout, ctx.QueryParam("end_date"), c.tz)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "end_date must be YYYY-MM-DD")
	}

	entries, appErr := c.CalendarService.GetCalendar(ctx.Request().Context(), startDate, endDate)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.CalendarResponse{Entries: entries}, "Success")
}

// ListInterviewers handles GET /interviewers
func (c *CalendarController) ListInterviewers(ctx echo.Context) error {
	interviewers, appErr := c.CalendarService.ListInterviewers(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.InterviewerListResponse{Interviewers: interviewers}, "Success")
}
