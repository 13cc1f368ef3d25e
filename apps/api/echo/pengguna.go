package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/pengguna"
)

type penggunaApi struct {
	svc        *pengguna.Service
	validate   *validator.Validate
	translator ut.Translator
}

// registerAuthAPI wires the credential endpoints under /auth.
func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *pengguna.Service, validate *validator.Validate) {
	api := penggunaApi{svc: svc, validate: validate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

func registerPenggunaAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *pengguna.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := penggunaApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	pg := g.Group("/pengguna", jwt)

	pg.PATCH("/password", api.changePassword) // any authenticated account
	pg.GET("", api.query, adminMiddleware())
	pg.POST("", api.create, adminMiddleware())
	pg.GET("/:id", api.retrieve, adminMiddleware())
	pg.PATCH("/:id", api.update, adminMiddleware())
	pg.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *penggunaApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := authenticate(ctx.Request().Context(), data.Username, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *penggunaApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *penggunaApi) create(ctx echo.Context) error {
	var data pengguna.NewPengguna
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPengguna")
	}
	if err := data.Validate(api.validate, api.translator, api.svc); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *penggunaApi) query(ctx echo.Context) error {
	// ?username= resolves a single account
	if uname := ctx.QueryParam("username"); uname != "" {
		p, err := api.svc.GetByUsername(ctx.Request().Context(), uname)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, p)
	}

	filter := new(pengguna.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewCodedValidationError("INVALID_ID", "invalid query parameters")
	}
	filter.Clean()

	res, err := api.svc.Filter(ctx.Request().Context(), filter, bindPagination(ctx))
	if err != nil {
		return errors.Wrap(err, "querying pengguna")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *penggunaApi) retrieve(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}
	p, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *penggunaApi) update(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	var data pengguna.UpdatePengguna
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePengguna")
	}
	if err = data.Validate(orig, api.validate, api.translator, api.svc); err != nil {
		return err
	}

	p, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *penggunaApi) changePassword(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data pengguna.ChangePassword
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}
	data.ID = claims.PenggunaID()
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	if err = api.svc.ChangePassword(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Message: "Password berhasil diubah"})
}

func (api *penggunaApi) destroy(ctx echo.Context) error {
	id := bindIntParam(ctx, "id")
	if id <= 0 {
		return core.NewCodedValidationError("INVALID_ID", "id must be a positive integer")
	}

	// ctx pengguna cannot delete themselves
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if id == claims.PenggunaID() {
		return errHttpForbidden
	}

	p, err := api.svc.Delete(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, DeleteResponse{Message: "Pengguna deleted", Deleted: p})
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SuccessResponse struct {
		Message string `json:"message"`
	}

	DeleteResponse struct {
		Message string      `json:"message"`
		Deleted interface{} `json:"deleted"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	if lr.Username == "" || lr.Password == "" {
		return core.NewCodedValidationError("MISSING_REQUIRED_FIELDS", "Required fields are missing: username, password")
	}
	return validate.Struct(lr)
}
