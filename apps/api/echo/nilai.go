package echoapi

import (
	"net/http"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/murid"
	"github.com/sekolahku/backend/core/nilai"
)

type nilaiApi struct {
	svc        *nilai.Service
	muridSvc   *murid.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerNilaiAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *nilai.Service,
	muridSvc *murid.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := nilaiApi{
		svc:        svc,
		muridSvc:   muridSvc,
		validate:   validate,
		translator: translator,
	}

	ng := g.Group("/nilai", jwt)

	ng.GET("", api.query, policyMiddleware(ActionRead, ResourceNilai))
	ng.GET("/rekap", api.rekap, policyMiddleware(ActionRead, ResourceNilai))
	ng.POST("", api.create, policyMiddleware(ActionWrite, ResourceNilai))
	ng.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *nilaiApi) query(ctx echo.Context) error {
	filter := new(nilai.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewCodedValidationError("INVALID_ID", "muridId must be a positive integer")
	}
	filter.Clean()

	if err := api.restrictToOwnRows(ctx, &filter.MuridID); err != nil {
		return err
	}

	res, err := api.svc.Filter(ctx.Request().Context(), filter, bindPagination(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *nilaiApi) rekap(ctx echo.Context) error {
	muridID, _ := strconv.Atoi(ctx.QueryParam("muridId"))

	if err := api.restrictToOwnRows(ctx, &muridID); err != nil {
		return err
	}

	res, err := api.svc.Rekap(ctx.Request().Context(), muridID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *nilaiApi) create(ctx echo.Context) error {
	var data nilai.NewNilai
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNilai")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	n, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, n)
}

func (api *nilaiApi) destroy(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}
	n, err := api.svc.Delete(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, DeleteResponse{Message: "Nilai deleted", Deleted: n})
}

// restrictToOwnRows forces a murid caller's queries onto their own murid
// row, whatever muridId they asked for.
func (api *nilaiApi) restrictToOwnRows(ctx echo.Context, muridID *int) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsMurid() {
		return nil
	}
	m, err := api.muridSvc.GetByPenggunaID(ctx.Request().Context(), claims.PenggunaID())
	if err != nil {
		return err
	}
	*muridID = m.ID
	return nil
}
