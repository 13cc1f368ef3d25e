package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/kelas"
)

type kelasApi struct {
	svc        *kelas.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerKelasAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *kelas.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := kelasApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	kg := g.Group("/kelas", jwt)

	kg.GET("", api.query, policyMiddleware(ActionRead, ResourceKelas))
	kg.GET("/:id", api.retrieve, policyMiddleware(ActionRead, ResourceKelas))
	kg.POST("", api.create, adminMiddleware())
	kg.PATCH("/:id", api.update, adminMiddleware())
	kg.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *kelasApi) query(ctx echo.Context) error {
	filter := new(kelas.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewCodedValidationError("INVALID_ID", "waliKelasId must be a positive integer")
	}
	filter.Clean()

	res, err := api.svc.Filter(ctx.Request().Context(), filter, bindPagination(ctx))
	if err != nil {
		return errors.Wrap(err, "querying kelas")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *kelasApi) retrieve(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}
	k, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, k)
}

func (api *kelasApi) create(ctx echo.Context) error {
	var data kelas.NewKelas
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewKelas")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	k, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, k)
}

func (api *kelasApi) update(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}

	var data kelas.UpdateKelas
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateKelas")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	k, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, k)
}

func (api *kelasApi) destroy(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}
	k, err := api.svc.Delete(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, DeleteResponse{Message: "Kelas deleted", Deleted: k})
}
