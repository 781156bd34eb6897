package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gympoint/backend/core/notification"
)

type notificationApi struct {
	svc notification.ServiceInterface
}

func registerNotificationAPI(g *echo.Group, svc notification.ServiceInterface) {
	api := notificationApi{svc: svc}

	ng := g.Group("/notifications", adminMiddleware())
	ng.GET("", api.query)
	ng.PUT("/:id", api.markRead)
}

func (api *notificationApi) query(ctx echo.Context) error {
	notifs, err := api.svc.QueryLatest(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, notifs)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	n, err := api.svc.MarkRead(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, n)
}
