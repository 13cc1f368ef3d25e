package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/guru"
)

type guruApi struct {
	svc        *guru.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerGuruAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *guru.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := guruApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	gg := g.Group("/guru", jwt)

	gg.GET("/me", api.me) // role check inside: needs the caller's own row
	gg.GET("", api.query, policyMiddleware(ActionRead, ResourceGuru))
	gg.GET("/:id", api.retrieve, policyMiddleware(ActionRead, ResourceGuru))
	gg.POST("", api.create, adminMiddleware())
	gg.PATCH("/:id", api.update, adminMiddleware())
	gg.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *guruApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsGuru() {
		return errHttpForbidden
	}
	g, err := api.svc.GetByPenggunaID(ctx.Request().Context(), claims.PenggunaID())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *guruApi) query(ctx echo.Context) error {
	// ?nip= resolves a single guru
	if nip := ctx.QueryParam("nip"); nip != "" {
		g, err := api.svc.GetByNIP(ctx.Request().Context(), nip)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, g)
	}

	filter := new(guru.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewCodedValidationError("INVALID_ID", "invalid query parameters")
	}
	filter.Clean()

	res, err := api.svc.Filter(ctx.Request().Context(), filter, bindPagination(ctx))
	if err != nil {
		return errors.Wrap(err, "querying guru")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *guruApi) retrieve(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}
	g, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *guruApi) create(ctx echo.Context) error {
	var data guru.NewGuru
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGuru")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	g, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, g)
}

func (api *guruApi) update(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}

	var data guru.UpdateGuru
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGuru")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	g, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, g)
}

func (api *guruApi) destroy(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}
	g, err := api.svc.Delete(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, DeleteResponse{Message: "Guru deleted", Deleted: g})
}
