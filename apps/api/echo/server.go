package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/guru"
	"github.com/sekolahku/backend/core/kelas"
	"github.com/sekolahku/backend/core/murid"
	"github.com/sekolahku/backend/core/nilai"
	"github.com/sekolahku/backend/core/pengguna"
	"github.com/sekolahku/backend/core/permintaan"
	"github.com/sekolahku/backend/core/stats"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		PenggunaSvc   *pengguna.Service
		GuruSvc       *guru.Service
		KelasSvc      *kelas.Service
		MuridSvc      *murid.Service
		PermintaanSvc *permintaan.Service
		NilaiSvc      *nilai.Service
		StatsSvc      *stats.Service
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := ConfigureAuth(conf)

	registerAuthAPI(v1, jwt, s.deps.PenggunaSvc, s.deps.Validate)
	registerPenggunaAPI(v1, jwt, s.deps.PenggunaSvc, s.deps.Validate, s.deps.Translator)
	registerGuruAPI(v1, jwt, s.deps.GuruSvc, s.deps.Validate, s.deps.Translator)
	registerKelasAPI(v1, jwt, s.deps.KelasSvc, s.deps.Validate, s.deps.Translator)
	registerMuridAPI(v1, jwt, s.deps.MuridSvc, s.deps.Validate, s.deps.Translator)
	registerPermintaanAPI(v1, jwt, s.deps.PermintaanSvc, s.deps.GuruSvc, s.deps.MuridSvc, s.deps.Validate, s.deps.Translator)
	registerNilaiAPI(v1, jwt, s.deps.NilaiSvc, s.deps.MuridSvc, s.deps.Validate, s.deps.Translator)
	registerStatsAPI(v1, jwt, s.deps.StatsSvc)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.APIHost); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errs
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// signalShutdown requests a graceful stop; used when an integrity-loss
// error bubbles up to the error handler.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Sekolahku API!")
}
