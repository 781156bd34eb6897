package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/plan"
)

type planApi struct {
	svc      plan.ServiceInterface
	validate *validator.Validate
}

func registerPlanAPI(g *echo.Group, svc plan.ServiceInterface, validate *validator.Validate) {
	api := planApi{svc: svc, validate: validate}

	pg := g.Group("/plans")
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
}

func (api *planApi) query(ctx echo.Context) error {
	var filter plan.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	plans, total, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "filtering plans")
	}
	return ctx.JSON(http.StatusOK, core.Paginate(plans, total, filter.Limit, filter.Page))
}

func (api *planApi) create(ctx echo.Context) error {
	var data plan.NewPlan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPlan")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	pl, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating plan")
	}
	return ctx.JSON(http.StatusCreated, pl)
}

func (api *planApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	pl, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pl)
}

func (api *planApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	origPlan, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	var data plan.UpdatePlan
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePlan")
	}
	if err = data.Validate(origPlan, api.validate, api.svc); err != nil {
		return err
	}

	pl, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pl)
}

func (api *planApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	if err = api.svc.SoftDelete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
