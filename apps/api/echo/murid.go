package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/murid"
)

type muridApi struct {
	svc        *murid.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerMuridAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *murid.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := muridApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	mg := g.Group("/murid", jwt)

	mg.GET("/me", api.me) // role check inside: needs the caller's own row
	mg.GET("", api.query, policyMiddleware(ActionRead, ResourceMurid))
	mg.GET("/:id", api.retrieve, policyMiddleware(ActionRead, ResourceMurid))
	mg.POST("", api.create, adminMiddleware())
	mg.PATCH("/:id", api.update, adminMiddleware())
	mg.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

// me serves the student dashboard: the murid row enriched with kelas and
// wali kelas details.
func (api *muridApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsMurid() {
		return errHttpForbidden
	}
	prof, err := api.svc.GetProfil(ctx.Request().Context(), claims.PenggunaID())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *muridApi) query(ctx echo.Context) error {
	// ?nisn= resolves a single murid
	if nisn := ctx.QueryParam("nisn"); nisn != "" {
		m, err := api.svc.GetByNISN(ctx.Request().Context(), nisn)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, m)
	}

	filter := new(murid.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewCodedValidationError("INVALID_ID", "kelasId must be a positive integer")
	}
	filter.Clean()

	res, err := api.svc.Filter(ctx.Request().Context(), filter, bindPagination(ctx))
	if err != nil {
		return errors.Wrap(err, "querying murid")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *muridApi) retrieve(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}
	m, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *muridApi) create(ctx echo.Context) error {
	var data murid.NewMurid
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMurid")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	m, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *muridApi) update(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}

	var data murid.UpdateMurid
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMurid")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	m, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *muridApi) destroy(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}
	m, err := api.svc.Delete(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, DeleteResponse{Message: "Murid deleted", Deleted: m})
}
