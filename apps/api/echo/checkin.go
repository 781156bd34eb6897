package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/checkin"
)

type checkinApi struct {
	svc checkin.ServiceInterface
}

// registerCheckinAPI registers the check-in endpoints on the bare app: they
// are driven by the gym's turnstile and carry no auth.
func registerCheckinAPI(app *echo.Echo, svc checkin.ServiceInterface) {
	api := checkinApi{svc: svc}

	app.POST("/students/:id/checkin", api.create)
	app.GET("/students/:id/checkin", api.query)
}

func (api *checkinApi) create(ctx echo.Context) error {
	studentID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), studentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *checkinApi) query(ctx echo.Context) error {
	studentID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var filter checkin.QueryFilter
	if err = ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.StudentID = studentID
	filter.Clean()

	checkins, total, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, core.Paginate(checkins, total, filter.Limit, filter.Page))
}
