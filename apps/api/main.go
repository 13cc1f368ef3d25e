package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	echoapi "github.com/sekolahku/backend/apps/api/echo"
	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/guru"
	"github.com/sekolahku/backend/core/kelas"
	"github.com/sekolahku/backend/core/murid"
	"github.com/sekolahku/backend/core/nilai"
	"github.com/sekolahku/backend/core/pengguna"
	"github.com/sekolahku/backend/core/permintaan"
	"github.com/sekolahku/backend/core/stats"
	emailsvc "github.com/sekolahku/backend/services/email"
	logsvc "github.com/sekolahku/backend/services/logger"
	"github.com/sekolahku/backend/storage/database"
	sqlxrepos "github.com/sekolahku/backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	penggunaRepo := sqlxrepos.NewPenggunaRepository(db)
	guruRepo := sqlxrepos.NewGuruRepository(db)
	kelasRepo := sqlxrepos.NewKelasRepository(db)
	muridRepo := sqlxrepos.NewMuridRepository(db)
	permintaanRepo := sqlxrepos.NewPermintaanRepository(db)
	nilaiRepo := sqlxrepos.NewNilaiRepository(db)
	statsRepo := sqlxrepos.NewStatsRepository(db)

	penggunaSvc := pengguna.NewService(db, penggunaRepo, guruRepo, muridRepo)
	guruSvc := guru.NewService(db, guruRepo)
	kelasSvc := kelas.NewService(db, kelasRepo)
	muridSvc := murid.NewService(db, muridRepo)
	permintaanSvc := permintaan.NewService(db, permintaanRepo, muridRepo, kelasRepo, penggunaRepo, mailSvc, logger)
	nilaiSvc := nilai.NewService(db, nilaiRepo)
	statsSvc := stats.NewService(db, statsRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
			PenggunaSvc:   penggunaSvc,
			GuruSvc:       guruSvc,
			KelasSvc:      kelasSvc,
			MuridSvc:      muridSvc,
			PermintaanSvc: permintaanSvc,
			NilaiSvc:      nilaiSvc,
			StatsSvc:      statsSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*database.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB.DB, conf); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
