package stats

import "time"

// Activity types
const (
	TipeMurid = "murid"
	TipeKelas = "kelas"
)

// Counts holds the dashboard totals.
type Counts struct {
	TotalPengguna int `json:"totalPengguna" db:"total_pengguna"`
	TotalGuru     int `json:"totalGuru" db:"total_guru"`
	TotalKelas    int `json:"totalKelas" db:"total_kelas"`
	TotalMurid    int `json:"totalMurid" db:"total_murid"`
}

// Activity is one recent-activity feed item: a murid or kelas creation.
type Activity struct {
	Tipe      string    `json:"tipe" db:"tipe"`
	Nama      string    `json:"nama" db:"nama"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Overview is the full stats payload.
type Overview struct {
	Counts
	RecentActivity []Activity `json:"recentActivity"`
}
