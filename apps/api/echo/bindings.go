package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sekolahku/backend/core"
)

var (
	limitParam  = "limit"
	offsetParam = "offset"
)

// bindPagination reads ?limit= and ?offset=; non-numeric values fall back
// to the defaults via Pagination.Clean.
func bindPagination(ctx echo.Context) core.Pagination {
	pg := core.Pagination{}
	if v, err := strconv.Atoi(ctx.QueryParam(limitParam)); err == nil {
		pg.Limit = v
	}
	if v, err := strconv.Atoi(ctx.QueryParam(offsetParam)); err == nil {
		pg.Offset = v
	}
	pg.Clean()
	return pg
}

// bindIntParam parses a numeric path param; a garbled value reads as 0.
func bindIntParam(ctx echo.Context, name string) int {
	v, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0
	}
	return v
}
