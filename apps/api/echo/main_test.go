package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

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
	dummydb "github.com/sekolahku/backend/storage/database/dummy"
)

var (
	testConf *core.Config

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	testConf = &core.Config{
		Debug:            true,
		TestMode:         true,
		Env:              "TEST",
		AppName:          "Sekolahku",
		SecretKey:        "secret",
		DefaultFromEmail: mail.Address{Name: "Sekolahku", Address: "noreply@localhost"},
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
	os.Exit(m.Run())
}

type testEnv struct {
	app Server

	penggunaRepo   pengguna.Repository
	guruRepo       guru.Repository
	kelasRepo      kelas.Repository
	muridRepo      murid.Repository
	permintaanRepo permintaan.Repository
	nilaiRepo      nilai.Repository

	penggunaSvc *pengguna.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), testConf)
	logger.Enable(false)
	mailSvc := emailsvc.NewConsoleServiceMock(testConf)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	env := &testEnv{
		penggunaRepo:   dummydb.NewPenggunaRepository(db),
		guruRepo:       dummydb.NewGuruRepository(db),
		kelasRepo:      dummydb.NewKelasRepository(db),
		muridRepo:      dummydb.NewMuridRepository(db),
		permintaanRepo: dummydb.NewPermintaanRepository(db),
		nilaiRepo:      dummydb.NewNilaiRepository(db),
	}
	env.penggunaSvc = pengguna.NewService(db, env.penggunaRepo, env.guruRepo, env.muridRepo)

	env.app = NewServer(
		ServerDeps{
			Conf:          testConf,
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
			PenggunaSvc:   env.penggunaSvc,
			GuruSvc:       guru.NewService(db, env.guruRepo),
			KelasSvc:      kelas.NewService(db, env.kelasRepo),
			MuridSvc:      murid.NewService(db, env.muridRepo),
			PermintaanSvc: permintaan.NewService(db, env.permintaanRepo, env.muridRepo, env.kelasRepo, env.penggunaRepo, mailSvc, logger),
			NilaiSvc:      nilai.NewService(db, env.nilaiRepo),
			StatsSvc:      stats.NewService(db, dummydb.NewStatsRepository(db)),
		},
	)
	return env
}

// Fixtures

func createPengguna(t *testing.T, env *testEnv, uname, role, pwd string) pengguna.Pengguna {
	t.Helper()

	p := pengguna.Pengguna{
		Username:  uname,
		Role:      role,
		Nama:      uname,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		if err := p.SetPassword(pwd); err != nil {
			t.Fatalf("createPengguna(): %v", err)
		}
	}
	p, err := env.penggunaRepo.CreatePengguna(context.Background(), p)
	if err != nil {
		t.Fatalf("createPengguna(): %v", err)
	}
	return p
}

func createGuru(t *testing.T, env *testEnv, nip, nama string, penggunaID *int) guru.Guru {
	t.Helper()

	g, err := env.guruRepo.CreateGuru(context.Background(), guru.Guru{
		PenggunaID:    penggunaID,
		NIP:           nip,
		Nama:          nama,
		MataPelajaran: "Matematika",
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("createGuru(): %v", err)
	}
	return g
}

func createKelas(t *testing.T, env *testEnv, nama string, waliKelasID *int) kelas.Kelas {
	t.Helper()

	k, err := env.kelasRepo.CreateKelas(context.Background(), kelas.Kelas{
		NamaKelas:   nama,
		TahunAjaran: "2024/2025",
		WaliKelasID: waliKelasID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("createKelas(): %v", err)
	}
	return k
}

func createMurid(t *testing.T, env *testEnv, nisn, nama string, penggunaID, kelasID *int, createdAt ...time.Time) murid.Murid {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	m, err := env.muridRepo.CreateMurid(context.Background(), murid.Murid{
		PenggunaID:   penggunaID,
		NISN:         nisn,
		Nama:         nama,
		JenisKelamin: murid.GenderMale,
		KelasID:      kelasID,
		CreatedAt:    tstamp,
	})
	if err != nil {
		t.Fatalf("createMurid(): %v", err)
	}
	return m
}

func createNilai(t *testing.T, env *testEnv, muridID int, subject string, skor int, tipe string) nilai.Nilai {
	t.Helper()

	n, err := env.nilaiRepo.CreateNilai(context.Background(), nilai.Nilai{
		MuridID:       muridID,
		MataPelajaran: subject,
		Skor:          skor,
		Tipe:          tipe,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("createNilai(): %v", err)
	}
	return n
}

// HTTP plumbing

type httpErr struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, p pengguna.Pengguna) string {
	claims := GetPenggunaClaims(p)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
