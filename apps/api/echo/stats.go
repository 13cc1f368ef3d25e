package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core/stats"
)

type statsApi struct {
	svc *stats.Service
}

func registerStatsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *stats.Service) {
	api := statsApi{svc: svc}

	g.GET("/stats", api.overview, jwt, policyMiddleware(ActionRead, ResourceStats))
}

func (api *statsApi) overview(ctx echo.Context) error {
	res, err := api.svc.Overview(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching stats overview")
	}
	return ctx.JSON(http.StatusOK, res)
}
