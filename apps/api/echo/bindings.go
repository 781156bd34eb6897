package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// intParam parses a positive integer path parameter.
func intParam(ctx echo.Context, name string) (int, error) {
	val, err := strconv.Atoi(ctx.Param(name))
	if err != nil || val < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+".")
	}
	return val, nil
}
