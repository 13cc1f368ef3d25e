package permintaan_test

import (
	"context"
	"io"
	"log"
	"net/mail"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/kelas"
	"github.com/sekolahku/backend/core/murid"
	"github.com/sekolahku/backend/core/pengguna"
	"github.com/sekolahku/backend/core/permintaan"
	emailsvc "github.com/sekolahku/backend/services/email"
	logsvc "github.com/sekolahku/backend/services/logger"
	dummydb "github.com/sekolahku/backend/storage/database/dummy"
)

var ctx = context.Background()

type testEnv struct {
	svc *permintaan.Service

	penggunaRepo pengguna.Repository
	muridRepo    murid.Repository
	kelasRepo    kelas.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := &core.Config{
		Debug:            true,
		TestMode:         true,
		AppName:          "Sekolahku",
		DefaultFromEmail: mail.Address{Name: "Sekolahku", Address: "noreply@localhost"},
	}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	env := &testEnv{
		penggunaRepo: dummydb.NewPenggunaRepository(db),
		muridRepo:    dummydb.NewMuridRepository(db),
		kelasRepo:    dummydb.NewKelasRepository(db),
	}
	env.svc = permintaan.NewService(
		db, dummydb.NewPermintaanRepository(db),
		env.muridRepo, env.kelasRepo, env.penggunaRepo, mailSvc, logger,
	)
	return env
}

func createMurid(t *testing.T, env *testEnv, nisn, nama string, penggunaID *int) murid.Murid {
	t.Helper()

	m, err := env.muridRepo.CreateMurid(ctx, murid.Murid{
		PenggunaID:   penggunaID,
		NISN:         nisn,
		Nama:         nama,
		JenisKelamin: murid.GenderMale,
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return m
}

func createKelas(t *testing.T, env *testEnv, nama string, waliKelasID *int) kelas.Kelas {
	t.Helper()

	k, err := env.kelasRepo.CreateKelas(ctx, kelas.Kelas{
		NamaKelas:   nama,
		TahunAjaran: "2024/2025",
		WaliKelasID: waliKelasID,
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	return k
}

func TestService_Submit(t *testing.T) {
	env := setup(t)
	m := createMurid(t, env, "0051234567", "Budi Santoso", nil)
	k := createKelas(t, env, "7A", nil)

	t.Run("unknown murid", func(t *testing.T) {
		_, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: 999, KelasID: k.ID})
		assert.EqualError(t, err, "Murid not found")
	})

	t.Run("unknown kelas", func(t *testing.T) {
		_, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: m.ID, KelasID: 999})
		assert.EqualError(t, err, "Kelas not found")
	})

	t.Run("submit ok", func(t *testing.T) {
		p, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: m.ID, KelasID: k.ID})
		require.NoError(t, err)
		assert.NotZero(t, p.ID)
		assert.Equal(t, permintaan.StatusPending, p.Status)
		assert.False(t, p.IsResolved())
	})

	t.Run("duplicate pending", func(t *testing.T) {
		_, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: m.ID, KelasID: k.ID})
		assert.EqualError(t, err, "A pending request for this murid and kelas already exists")
	})
}

func TestService_Pending(t *testing.T) {
	env := setup(t)

	// two classes with different wali kelas; guru IDs stand in since the
	// queue filter only compares wali_kelas_id
	wali := 1
	other := 2
	kA := createKelas(t, env, "7A", &wali)
	kB := createKelas(t, env, "7B", &other)
	budi := createMurid(t, env, "0051234567", "Budi Santoso", nil)
	siti := createMurid(t, env, "0051234568", "Siti Aminah", nil)

	pBudi, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: budi.ID, KelasID: kA.ID})
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: siti.ID, KelasID: kB.ID})
	require.NoError(t, err)

	t.Run("nil scope sees everything", func(t *testing.T) {
		queue, err := env.svc.Pending(ctx, nil, core.Pagination{})
		require.NoError(t, err)
		assert.Len(t, queue, 2)
	})

	t.Run("wali kelas sees only their classes", func(t *testing.T) {
		queue, err := env.svc.Pending(ctx, &wali, core.Pagination{})
		require.NoError(t, err)
		require.Len(t, queue, 1)
		assert.Equal(t, pBudi.ID, queue[0].ID)
		assert.Equal(t, budi.Nama, queue[0].NamaMurid)
		assert.Equal(t, kA.NamaKelas, queue[0].NamaKelas)
	})

	t.Run("guru with no classes sees nothing", func(t *testing.T) {
		none := 99
		queue, err := env.svc.Pending(ctx, &none, core.Pagination{})
		require.NoError(t, err)
		assert.Empty(t, queue)
	})
}

func TestService_Resolve(t *testing.T) {
	t.Run("approve assigns murid and bumps counter", func(t *testing.T) {
		env := setup(t)
		m := createMurid(t, env, "0051234567", "Budi Santoso", nil)
		k := createKelas(t, env, "7A", nil)
		p, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: m.ID, KelasID: k.ID})
		require.NoError(t, err)

		res, err := env.svc.Resolve(ctx, p.ID, permintaan.ResolvePermintaan{Status: permintaan.StatusApproved})
		require.NoError(t, err)
		assert.Equal(t, permintaan.StatusApproved, res.Status)

		m, err = env.muridRepo.GetMurid(ctx, murid.GetFilter{ID: m.ID})
		require.NoError(t, err)
		require.NotNil(t, m.KelasID)
		assert.Equal(t, k.ID, *m.KelasID)

		k, err = env.kelasRepo.GetKelas(ctx, kelas.GetFilter{ID: k.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, k.JumlahSiswa)
	})

	t.Run("reject leaves murid and kelas untouched", func(t *testing.T) {
		env := setup(t)
		m := createMurid(t, env, "0051234567", "Budi Santoso", nil)
		k := createKelas(t, env, "7A", nil)
		p, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: m.ID, KelasID: k.ID})
		require.NoError(t, err)

		res, err := env.svc.Resolve(ctx, p.ID, permintaan.ResolvePermintaan{Status: permintaan.StatusRejected})
		require.NoError(t, err)
		assert.Equal(t, permintaan.StatusRejected, res.Status)

		m, err = env.muridRepo.GetMurid(ctx, murid.GetFilter{ID: m.ID})
		require.NoError(t, err)
		assert.Nil(t, m.KelasID)

		k, err = env.kelasRepo.GetKelas(ctx, kelas.GetFilter{ID: k.ID})
		require.NoError(t, err)
		assert.Zero(t, k.JumlahSiswa)
	})

	t.Run("already resolved", func(t *testing.T) {
		env := setup(t)
		m := createMurid(t, env, "0051234567", "Budi Santoso", nil)
		k := createKelas(t, env, "7A", nil)
		p, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: m.ID, KelasID: k.ID})
		require.NoError(t, err)

		_, err = env.svc.Resolve(ctx, p.ID, permintaan.ResolvePermintaan{Status: permintaan.StatusRejected})
		require.NoError(t, err)
		_, err = env.svc.Resolve(ctx, p.ID, permintaan.ResolvePermintaan{Status: permintaan.StatusApproved})
		assert.EqualError(t, err, "Request has already been resolved")
	})

	t.Run("not found", func(t *testing.T) {
		env := setup(t)
		_, err := env.svc.Resolve(ctx, 999, permintaan.ResolvePermintaan{Status: permintaan.StatusApproved})
		assert.EqualError(t, err, "Permintaan not found")
	})

	t.Run("resubmit allowed after rejection", func(t *testing.T) {
		env := setup(t)
		m := createMurid(t, env, "0051234567", "Budi Santoso", nil)
		k := createKelas(t, env, "7A", nil)
		p, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: m.ID, KelasID: k.ID})
		require.NoError(t, err)

		_, err = env.svc.Resolve(ctx, p.ID, permintaan.ResolvePermintaan{Status: permintaan.StatusRejected})
		require.NoError(t, err)

		p2, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: m.ID, KelasID: k.ID})
		require.NoError(t, err)
		assert.NotEqual(t, p.ID, p2.ID)
	})

	t.Run("decision email goes to linked account", func(t *testing.T) {
		env := setup(t)

		email := "budi@sekolahku.sch.id"
		acct, err := env.penggunaRepo.CreatePengguna(ctx, pengguna.Pengguna{
			Username:  "budi",
			Role:      pengguna.RoleMurid,
			Nama:      "Budi Santoso",
			Email:     &email,
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)

		m := createMurid(t, env, "0051234567", "Budi Santoso", &acct.ID)
		k := createKelas(t, env, "7A", nil)
		p, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: m.ID, KelasID: k.ID})
		require.NoError(t, err)

		before := len(emailsvc.SentMessages)
		_, err = env.svc.Resolve(ctx, p.ID, permintaan.ResolvePermintaan{Status: permintaan.StatusApproved})
		require.NoError(t, err)

		require.Len(t, emailsvc.SentMessages, before+1)
		msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
		assert.Equal(t, "Permintaan kelas disetujui", msg.Subject)
		require.Len(t, msg.To, 1)
		assert.Equal(t, email, msg.To[0].Address)
		assert.Contains(t, msg.Body, k.NamaKelas)
	})

	t.Run("no email without linked account", func(t *testing.T) {
		env := setup(t)
		m := createMurid(t, env, "0051234567", "Budi Santoso", nil)
		k := createKelas(t, env, "7A", nil)
		p, err := env.svc.Submit(ctx, permintaan.NewPermintaan{MuridID: m.ID, KelasID: k.ID})
		require.NoError(t, err)

		before := len(emailsvc.SentMessages)
		_, err = env.svc.Resolve(ctx, p.ID, permintaan.ResolvePermintaan{Status: permintaan.StatusRejected})
		require.NoError(t, err)
		assert.Len(t, emailsvc.SentMessages, before)
	})
}
