package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/sekolahku/backend/core/pengguna"
	"github.com/sekolahku/backend/core/stats"
)

func Test_statsApi_overview(t *testing.T) {
	env := setup(t)

	admin := createPengguna(t, env, "admin", pengguna.RoleAdmin, "")
	guruAcct := createPengguna(t, env, "ibuguru", pengguna.RoleGuru, "")
	muridAcct := createPengguna(t, env, "budi", pengguna.RoleMurid, "")

	createGuru(t, env, "19800101", "Ibu Guru", &guruAcct.ID)
	k := createKelas(t, env, "7A", nil)

	// the kelas is the oldest entry; five newer murid rows push it past
	// the feed cap
	now := time.Now()
	budi := createMurid(t, env, "0051234567", "Budi Santoso", &muridAcct.ID, &k.ID, now.Add(1*time.Hour))
	siti := createMurid(t, env, "0051234568", "Siti Aminah", nil, nil, now.Add(2*time.Hour))
	agus := createMurid(t, env, "0051234569", "Agus Salim", nil, nil, now.Add(3*time.Hour))
	dewi := createMurid(t, env, "0051234570", "Dewi Lestari", nil, nil, now.Add(4*time.Hour))
	rina := createMurid(t, env, "0051234571", "Rina Wati", nil, &k.ID, now.Add(5*time.Hour))

	want := marchallObj(t, stats.Overview{
		Counts: stats.Counts{
			TotalPengguna: 3,
			TotalGuru:     1,
			TotalKelas:    1,
			TotalMurid:    5,
		},
		RecentActivity: []stats.Activity{
			{Tipe: stats.TipeMurid, Nama: rina.Nama, CreatedAt: rina.CreatedAt},
			{Tipe: stats.TipeMurid, Nama: dewi.Nama, CreatedAt: dewi.CreatedAt},
			{Tipe: stats.TipeMurid, Nama: agus.Nama, CreatedAt: agus.CreatedAt},
			{Tipe: stats.TipeMurid, Nama: siti.Nama, CreatedAt: siti.CreatedAt},
			{Tipe: stats.TipeMurid, Nama: budi.Nama, CreatedAt: budi.CreatedAt},
		},
	})

	tests := []httpTest{
		{name: "no token", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "murid forbidden", token: getToken(t, muridAcct), wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied)},
		{name: "admin overview", token: getToken(t, admin), wantCode: http.StatusOK, wantData: want},
		{name: "guru overview", token: getToken(t, guruAcct), wantCode: http.StatusOK, wantData: want},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/stats", tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
