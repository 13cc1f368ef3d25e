package echoapi

import (
	"context"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/pengguna"
)

var (
	// appJWTConfig is the JWT auth middleware config; set by ConfigureAuth.
	appJWTConfig middleware.JWTConfig

	appName                   string
	jwtExpirationDelta        time.Duration
	jwtRefreshExpirationDelta time.Duration

	contextPenggunaKey = "pengguna"
)

// ConfigureAuth primes the JWT config from the app config and returns the
// auth middleware. Must be called before any token is generated.
func ConfigureAuth(conf *core.Config) echo.MiddlewareFunc {
	appName = conf.AppName
	jwtExpirationDelta = conf.Server.JWTExpirationDelta
	jwtRefreshExpirationDelta = conf.Server.JWTRefreshExpirationDelta
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "penggunaToken",
		Claims:        new(Claims),
	}
	return middleware.JWTWithConfig(appJWTConfig)
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Username     string `json:"username,omitempty"`
	Role         string `json:"role,omitempty"`
}

func (c Claims) PenggunaID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}

func (c Claims) IsAdmin() bool { return c.Role == pengguna.RoleAdmin }
func (c Claims) IsGuru() bool  { return c.Role == pengguna.RoleGuru }
func (c Claims) IsMurid() bool { return c.Role == pengguna.RoleMurid }

func GetPenggunaClaims(p pengguna.Pengguna, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   strconv.Itoa(p.ID),
			Audience:  "Sekolahku",
			ExpiresAt: now.Add(jwtExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Username:     p.Username,
		Role:         p.Role,
	}
	return claims
}

// authenticate resolves credentials to claims. Unknown username and wrong
// password fail identically so the response leaks nothing.
func authenticate(ctx context.Context, uname, pwd string, svc *pengguna.Service) (*Claims, error) {
	p, err := svc.GetByUsername(ctx, uname)
	if err != nil {
		if _, ok := errors.Cause(err).(*core.NotFoundError); ok {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding pengguna by username")
	}
	if err = p.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	return GetPenggunaClaims(p), nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextPengguna(ctx echo.Context, svc *pengguna.Service, clms ...Claims) (pengguna.Pengguna, error) {
	if p, ok := ctx.Get(contextPenggunaKey).(pengguna.Pengguna); ok {
		return p, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return pengguna.Pengguna{}, errors.Wrap(err, "getting context claims")
		}
	}

	p, err := svc.GetByID(ctx.Request().Context(), claims.PenggunaID())
	if err != nil {
		return pengguna.Pengguna{}, errors.Wrap(err, "finding pengguna by ID")
	}
	ctx.Set(contextPenggunaKey, p)
	return p, nil
}

func refreshToken(ctx echo.Context, svc *pengguna.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	p, err := getContextPengguna(ctx, svc, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context pengguna")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(jwtRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := GetPenggunaClaims(p, claims.OrigIssuedAt)
	token, err := GenerateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}
