package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/helporder"
)

type helpOrderApi struct {
	svc      helporder.ServiceInterface
	validate *validator.Validate
}

func registerHelpOrderAPI(g *echo.Group, svc helporder.ServiceInterface, validate *validator.Validate) {
	api := helpOrderApi{svc: svc, validate: validate}

	// student-scoped
	g.GET("/students/:id/help-order", api.queryByStudent)
	g.POST("/students/:id/help-order", api.create)

	// admin view of open questions
	g.GET("/help-orders", api.queryUnanswered)
	g.POST("/help-orders/:id/answer", api.answer)
}

func (api *helpOrderApi) create(ctx echo.Context) error {
	studentID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data helporder.NewHelpOrder
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHelpOrder")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ho, err := api.svc.Create(ctx.Request().Context(), studentID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ho)
}

func (api *helpOrderApi) queryByStudent(ctx echo.Context) error {
	studentID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var filter helporder.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.StudentID = studentID
	filter.Clean()

	entries, total, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, core.Paginate(entries, total, filter.Limit, filter.Page))
}

func (api *helpOrderApi) queryUnanswered(ctx echo.Context) error {
	var filter helporder.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Unanswered = true
	filter.Clean()

	entries, total, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, core.Paginate(entries, total, filter.Limit, filter.Page))
}

func (api *helpOrderApi) answer(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data helporder.NewAnswer
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnswer")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	ho, err := api.svc.Answer(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ho)
}
