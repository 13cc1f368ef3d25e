package echoapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/sekolahku/backend/core/nilai"
	"github.com/sekolahku/backend/core/pengguna"
)

func Test_nilaiApi_create(t *testing.T) {
	env := setup(t)

	guruAcct := createPengguna(t, env, "ibuguru", pengguna.RoleGuru, "")
	muridAcct := createPengguna(t, env, "budi", pengguna.RoleMurid, "")
	guruToken := getToken(t, guruAcct)
	m := createMurid(t, env, "0051234567", "Budi Santoso", &muridAcct.ID, nil)
	path := "/v1/nilai"

	tests := []httpTest{
		{
			name:     "murid cannot grade",
			token:    getToken(t, muridAcct),
			body:     marchallObj(t, nilai.NewNilai{MuridID: m.ID, MataPelajaran: "Matematika", Skor: intPtr(80), Tipe: nilai.TipeTugas}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name:     "missing fields",
			token:    guruToken,
			body:     []byte("{}"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Required fields are missing: muridId, mataPelajaran, skor, tipe", Code: "MISSING_REQUIRED_FIELDS"}),
		},
		{
			name:     "unknown murid",
			token:    guruToken,
			body:     marchallObj(t, nilai.NewNilai{MuridID: 999, MataPelajaran: "Matematika", Skor: intPtr(80), Tipe: nilai.TipeTugas}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "muridId does not reference an existing murid", Code: "INVALID_ID"}),
		},
		{
			name:     "create ok",
			token:    guruToken,
			body:     marchallObj(t, nilai.NewNilai{MuridID: m.ID, MataPelajaran: "Matematika", Skor: intPtr(80), Tipe: nilai.TipeTugas}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, path, tt.token, tt.body)
			env.app.ServeHTTP(rec, req)

			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("skor out of range", func(t *testing.T) {
		body := marchallObj(t, nilai.NewNilai{MuridID: m.ID, MataPelajaran: "Matematika", Skor: intPtr(150), Tipe: nilai.TipeTugas})
		req, rec := newAuthRequest(http.MethodPost, path, guruToken, body)
		env.app.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})
}

func Test_nilaiApi_query(t *testing.T) {
	env := setup(t)

	guruAcct := createPengguna(t, env, "ibuguru", pengguna.RoleGuru, "")
	muridAcct := createPengguna(t, env, "budi", pengguna.RoleMurid, "")
	guruToken := getToken(t, guruAcct)
	muridToken := getToken(t, muridAcct)

	budi := createMurid(t, env, "0051234567", "Budi Santoso", &muridAcct.ID, nil)
	siti := createMurid(t, env, "0051234568", "Siti Aminah", nil, nil)

	budiTugas := createNilai(t, env, budi.ID, "Matematika", 80, nilai.TipeTugas)
	budiUTS := createNilai(t, env, budi.ID, "Matematika", 90, nilai.TipeUTS)
	sitiTugas := createNilai(t, env, siti.ID, "Matematika", 70, nilai.TipeTugas)

	tests := []httpTest{
		{
			name:     "muridId required",
			path:     "/v1/nilai",
			token:    guruToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "muridId must be a positive integer", Code: "INVALID_ID"}),
		},
		{
			name:     "garbled muridId",
			path:     "/v1/nilai?muridId=lol",
			token:    guruToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "muridId must be a positive integer", Code: "INVALID_ID"}),
		},
		{
			name:     "guru reads any murid",
			path:     fmt.Sprintf("/v1/nilai?muridId=%d", siti.ID),
			token:    guruToken,
			wantCode: http.StatusOK,
			wantData: marchallList(t, sitiTugas),
		},
		{
			name:     "tipe filter",
			path:     fmt.Sprintf("/v1/nilai?muridId=%d&tipe=UTS", budi.ID),
			token:    guruToken,
			wantCode: http.StatusOK,
			wantData: marchallList(t, budiUTS),
		},
		{
			name:     "murid only sees own grades",
			path:     fmt.Sprintf("/v1/nilai?muridId=%d", siti.ID), // asks for someone else's
			token:    muridToken,
			wantCode: http.StatusOK,
			wantData: marchallList(t, budiUTS, budiTugas),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_nilaiApi_rekap(t *testing.T) {
	env := setup(t)

	guruAcct := createPengguna(t, env, "ibuguru", pengguna.RoleGuru, "")
	muridAcct := createPengguna(t, env, "budi", pengguna.RoleMurid, "")
	m := createMurid(t, env, "0051234567", "Budi Santoso", &muridAcct.ID, nil)

	createNilai(t, env, m.ID, "Matematika", 80, nilai.TipeTugas)
	createNilai(t, env, m.ID, "Matematika", 91, nilai.TipeUTS)
	createNilai(t, env, m.ID, "IPA", 75, nilai.TipeUAS)

	want := marchallList(t,
		nilai.RekapEntry{MataPelajaran: "IPA", RataRata: 75, JumlahNilai: 1},
		nilai.RekapEntry{MataPelajaran: "Matematika", RataRata: 85.5, JumlahNilai: 2},
	)

	t.Run("guru passes muridId", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/nilai/rekap?muridId=%d", m.ID), getToken(t, guruAcct))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: want}, rec)
	})

	t.Run("murid needs no muridId", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/nilai/rekap", getToken(t, muridAcct))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: want}, rec)
	})
}

func Test_nilaiApi_destroy(t *testing.T) {
	env := setup(t)

	admin := createPengguna(t, env, "admin", pengguna.RoleAdmin, "")
	guruAcct := createPengguna(t, env, "ibuguru", pengguna.RoleGuru, "")
	m := createMurid(t, env, "0051234567", "Budi Santoso", nil, nil)
	n := createNilai(t, env, m.ID, "Matematika", 80, nilai.TipeTugas)

	t.Run("guru forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/v1/nilai/%d", n.ID), getToken(t, guruAcct))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied)}, rec)
	})

	t.Run("delete ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/v1/nilai/%d", n.ID), getToken(t, admin))
		env.app.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, DeleteResponse{Message: "Nilai deleted", Deleted: n}),
		}
		checkCodeAndData(t, tt, rec)
	})
}
