package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/registration"
)

// PriceQuote is the response of the legacy POST /enrollments endpoint.
type PriceQuote struct {
	Price float64 `json:"price"`
}

type registrationApi struct {
	svc      registration.ServiceInterface
	validate *validator.Validate
}

func registerRegistrationAPI(g *echo.Group, svc registration.ServiceInterface, validate *validator.Validate) {
	api := registrationApi{svc: svc, validate: validate}

	rg := g.Group("/registrations")
	rg.GET("", api.query)
	rg.POST("", api.create)
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id", api.update)
	rg.DELETE("/:id", api.destroy)

	// legacy enrollment surface
	g.GET("/enrollments", api.query)
	g.POST("/enrollments", api.quote)
}

func (api *registrationApi) query(ctx echo.Context) error {
	var filter registration.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	entries, total, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "filtering registrations")
	}
	return ctx.JSON(http.StatusOK, core.Paginate(entries, total, filter.Limit, filter.Page))
}

func (api *registrationApi) create(ctx echo.Context) error {
	var data registration.NewRegistration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRegistration")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reg, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, reg)
}

func (api *registrationApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	reg, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *registrationApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data registration.NewRegistration
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRegistration")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	reg, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *registrationApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// quote computes what a registration would cost without persisting anything.
func (api *registrationApi) quote(ctx echo.Context) error {
	var data registration.NewRegistration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRegistration")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	price, err := api.svc.QuotePrice(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, PriceQuote{Price: price})
}
