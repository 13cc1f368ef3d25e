package echoapi

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sekolahku/backend/core/murid"
	"github.com/sekolahku/backend/core/pengguna"
)

func Test_muridApi_query(t *testing.T) {
	env := setup(t)

	admin := createPengguna(t, env, "admin", pengguna.RoleAdmin, "")
	muridAcct := createPengguna(t, env, "rina", pengguna.RoleMurid, "")
	adminToken := getToken(t, admin)

	now := time.Now()
	k := createKelas(t, env, "7A", nil)
	budi := createMurid(t, env, "0051234567", "Budi Santoso", nil, &k.ID, now.Add(1*time.Hour))
	siti := createMurid(t, env, "0051234568", "Siti Aminah", nil, nil, now.Add(2*time.Hour))
	agus := createMurid(t, env, "0061234569", "Agus Salim", nil, &k.ID, now.Add(3*time.Hour))
	empty := marchallList(t)

	tests := []httpTest{
		{name: "no token", path: "/v1/murid", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "murid forbidden", path: "/v1/murid", token: getToken(t, muridAcct), wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied)},
		{name: "get all", path: "/v1/murid", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, agus, siti, budi)},
		{name: "search (unknown)", path: "/v1/murid?search=lol", token: adminToken, wantCode: http.StatusOK, wantData: empty},
		{name: "search by nama", path: "/v1/murid?search=santoso", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, budi)},
		{name: "search by nisn", path: "/v1/murid?search=006", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, agus)},
		{name: "kelas filter", path: fmt.Sprintf("/v1/murid?kelasId=%d", k.ID), token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, agus, budi)},
		{name: "garbled kelas filter", path: "/v1/murid?kelasId=lol", token: adminToken, wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "kelasId must be a positive integer", Code: "INVALID_ID"})},
		{name: "pagination", path: "/v1/murid?limit=1&offset=1", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, siti)},
		{name: "nisn lookup", path: "/v1/murid?nisn=0051234568", token: adminToken, wantCode: http.StatusOK, wantData: marchallObj(t, siti)},
		{name: "nisn lookup (unknown)", path: "/v1/murid?nisn=lol", token: adminToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Murid not found", Code: "NOT_FOUND"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_muridApi_retrieve(t *testing.T) {
	env := setup(t)

	admin := createPengguna(t, env, "admin", pengguna.RoleAdmin, "")
	muridAcct := createPengguna(t, env, "budi", pengguna.RoleMurid, "")
	m := createMurid(t, env, "0051234567", "Budi Santoso", &muridAcct.ID, nil)

	tests := []httpTest{
		{name: "retrieve ok", path: fmt.Sprintf("/v1/murid/%d", m.ID), token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallObj(t, m)},
		{name: "murid forbidden", path: fmt.Sprintf("/v1/murid/%d", m.ID), token: getToken(t, muridAcct), wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied)},
		{name: "not found", path: "/v1/murid/999", token: getToken(t, admin), wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Murid not found", Code: "NOT_FOUND"})},
		{name: "garbled id", path: "/v1/murid/lol", token: getToken(t, admin), wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "id must be a positive integer", Code: "INVALID_ID"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_muridApi_create(t *testing.T) {
	env := setup(t)

	admin := createPengguna(t, env, "admin", pengguna.RoleAdmin, "")
	muridAcct := createPengguna(t, env, "budi", pengguna.RoleMurid, "")
	adminToken := getToken(t, admin)
	existing := createMurid(t, env, "0051234567", "Budi Santoso", nil, nil)
	path := "/v1/murid"

	tests := []httpTest{
		{
			name:     "murid forbidden",
			token:    getToken(t, muridAcct),
			body:     marchallObj(t, murid.NewMurid{NISN: "0051234568", Nama: "Siti", JenisKelamin: "P"}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errPermissionDenied),
		},
		{
			name:     "missing fields",
			token:    adminToken,
			body:     []byte("{}"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Required fields are missing: nisn, nama, jenisKelamin", Code: "MISSING_REQUIRED_FIELDS"}),
		},
		{
			name:     "invalid gender",
			token:    adminToken,
			body:     marchallObj(t, murid.NewMurid{NISN: "0051234568", Nama: "Siti", JenisKelamin: "X"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: `jenisKelamin must be either "L" or "P"`, Code: "INVALID_GENDER"}),
		},
		{
			name:     "duplicate nisn",
			token:    adminToken,
			body:     marchallObj(t, murid.NewMurid{NISN: existing.NISN, Nama: "Siti", JenisKelamin: "P"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "NISN already exists", Code: "NISN_ALREADY_EXISTS"}),
		},
		{
			name:     "unknown kelas",
			token:    adminToken,
			body:     marchallObj(t, murid.NewMurid{NISN: "0051234568", Nama: "Siti", JenisKelamin: "P", KelasID: intPtr(999)}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "kelasId does not reference an existing kelas", Code: "INVALID_KELAS_ID"}),
		},
		{
			name:     "create ok",
			token:    adminToken,
			body:     marchallObj(t, murid.NewMurid{NISN: "0051234568", Nama: "Siti Aminah", JenisKelamin: "P"}),
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
}

func Test_muridApi_me(t *testing.T) {
	env := setup(t)

	adminAcct := createPengguna(t, env, "admin", pengguna.RoleAdmin, "")
	guruAcct := createPengguna(t, env, "ibuguru", pengguna.RoleGuru, "")
	muridAcct := createPengguna(t, env, "budi", pengguna.RoleMurid, "")

	g := createGuru(t, env, "19800101", "Ibu Guru", &guruAcct.ID)
	k := createKelas(t, env, "7A", &g.ID)
	m := createMurid(t, env, "0051234567", "Budi Santoso", &muridAcct.ID, &k.ID)

	path := "/v1/murid/me"

	t.Run("admin forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, path, getToken(t, adminAcct))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied)}, rec)
	})

	t.Run("profil enriched with kelas and wali kelas", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, path, getToken(t, muridAcct))
		env.app.ServeHTTP(rec, req)

		want := murid.Profil{
			ID:        m.ID,
			Nama:      m.Nama,
			NISN:      m.NISN,
			KelasID:   &k.ID,
			NamaKelas: &k.NamaKelas,
			WaliKelas: &g.Nama,
		}
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, want)}, rec)
	})
}

func intPtr(i int) *int { return &i }
