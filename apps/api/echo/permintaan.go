package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/guru"
	"github.com/sekolahku/backend/core/murid"
	"github.com/sekolahku/backend/core/permintaan"
)

type permintaanApi struct {
	svc        *permintaan.Service
	guruSvc    *guru.Service
	muridSvc   *murid.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerPermintaanAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *permintaan.Service,
	guruSvc *guru.Service,
	muridSvc *murid.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := permintaanApi{
		svc:        svc,
		guruSvc:    guruSvc,
		muridSvc:   muridSvc,
		validate:   validate,
		translator: translator,
	}

	pg := g.Group("/permintaan-kelas", jwt)

	pg.POST("", api.submit, policyMiddleware(ActionSubmit, ResourcePermintaan))
	pg.GET("", api.queryPending, policyMiddleware(ActionResolve, ResourcePermintaan))
	pg.PATCH("/:id", api.resolve, policyMiddleware(ActionResolve, ResourcePermintaan))
}

// Handlers

func (api *permintaanApi) submit(ctx echo.Context) error {
	var data permintaan.NewPermintaan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPermintaan")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	// a murid may only file for their own row
	if claims.IsMurid() {
		m, err := api.muridSvc.GetByPenggunaID(ctx.Request().Context(), claims.PenggunaID())
		if err != nil {
			return err
		}
		data.MuridID = m.ID
	}

	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	p, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

// queryPending serves the review queue: an admin sees everything, a guru
// only requests targeting classes they are wali kelas of.
func (api *permintaanApi) queryPending(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var scope *int
	if claims.IsGuru() {
		g, err := api.guruSvc.GetByPenggunaID(ctx.Request().Context(), claims.PenggunaID())
		if err != nil {
			return err
		}
		scope = &g.ID
	}

	res, err := api.svc.Pending(ctx.Request().Context(), scope, bindPagination(ctx))
	if err != nil {
		return errors.Wrap(err, "querying pending permintaan")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *permintaanApi) resolve(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}

	var data permintaan.ResolvePermintaan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResolvePermintaan")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	// a guru may only resolve requests for their own classes
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if claims.IsGuru() {
		g, err := api.guruSvc.GetByPenggunaID(ctx.Request().Context(), claims.PenggunaID())
		if err != nil {
			return err
		}
		if err = api.checkScope(ctx, id, g.ID); err != nil {
			return err
		}
	}

	p, err := api.svc.Resolve(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

// checkScope rejects a guru resolving a request for a kelas they are not
// wali kelas of.
func (api *permintaanApi) checkScope(ctx echo.Context, requestID, guruID int) error {
	p, err := api.svc.GetByID(ctx.Request().Context(), requestID)
	if err != nil {
		return err
	}
	k, err := api.svc.KelasOf(ctx.Request().Context(), p)
	if err != nil {
		return err
	}
	if k.WaliKelasID == nil || *k.WaliKelasID != guruID {
		return errHttpForbidden
	}
	return nil
}
