package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cyclekit/cyclekit/internal/services"
)

type periodInput struct {
	StartDate string  `json:"start_date" validate:"required"`
	EndDate   *string `json:"end_date"`
}

type closePeriodInput struct {
	EndDate string `json:"end_date" validate:"required"`
}

type periodView struct {
	ID        string  `json:"id"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsOpen    bool    `json:"is_open"`
}

func newPeriodView(period services.Period) periodView {
	view := periodView{
		ID:        period.ID,
		StartDate: services.FormatDate(period.Start),
		IsOpen:    period.IsOpen(),
	}
	if period.End != nil {
		end := services.FormatDate(*period.End)
		view.EndDate = &end
	}
	return view
}

func (handler *Handler) ListPeriods(c *fiber.Ctx) error {
	periods, err := handler.periodService.List(currentUser(c).ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	views := make([]periodView, 0, len(periods))
	for _, period := range periods {
		views = append(views, newPeriodView(period))
	}
	return c.JSON(views)
}

func (handler *Handler) CreatePeriod(c *fiber.Ctx) error {
	start, end, err := handler.parsePeriodInput(c)
	if err != nil {
		return respondInputError(c, err)
	}

	period, err := handler.periodService.Start(currentUser(c).ID, start, end)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newPeriodView(period))
}

func (handler *Handler) UpdatePeriod(c *fiber.Ctx) error {
	start, end, err := handler.parsePeriodInput(c)
	if err != nil {
		return respondInputError(c, err)
	}

	period, err := handler.periodService.Update(currentUser(c).ID, c.Params("id"), start, end)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(newPeriodView(period))
}

func (handler *Handler) ClosePeriod(c *fiber.Ctx) error {
	var input closePeriodInput
	if err := handler.bindJSON(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	end, err := services.ParseDate(input.EndDate)
	if err != nil {
		return respondServiceError(c, err)
	}

	period, err := handler.periodService.Close(currentUser(c).ID, c.Params("id"), end)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(newPeriodView(period))
}

func (handler *Handler) DeletePeriod(c *fiber.Ctx) error {
	if err := handler.periodService.Delete(currentUser(c).ID, c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) parsePeriodInput(c *fiber.Ctx) (start time.Time, end *time.Time, err error) {
	var input periodInput
	if err := handler.bindJSON(c, &input); err != nil {
		return time.Time{}, nil, err
	}
	start, err = services.ParseDate(input.StartDate)
	if err != nil {
		return time.Time{}, nil, err
	}
	end, err = parseOptionalDate(input.EndDate)
	if err != nil {
		return time.Time{}, nil, err
	}
	return start, end, nil
}
