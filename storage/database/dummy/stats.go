package dummydb

import (
	"context"
	"sort"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/stats"
)

type statsRepository struct {
	db *DB
}

var _ stats.Repository = (*statsRepository)(nil) // interface compliance check

func NewStatsRepository(db *DB) *statsRepository {
	return &statsRepository{db: db}
}

func (repo *statsRepository) Counts(ctx context.Context, exec ...core.DBExecutor) (stats.Counts, error) {
	repo.db.pengguna.RLock()
	defer repo.db.pengguna.RUnlock()
	repo.db.guru.RLock()
	defer repo.db.guru.RUnlock()
	repo.db.kelas.RLock()
	defer repo.db.kelas.RUnlock()
	repo.db.murid.RLock()
	defer repo.db.murid.RUnlock()

	return stats.Counts{
		TotalPengguna: len(repo.db.pengguna.table),
		TotalGuru:     len(repo.db.guru.table),
		TotalKelas:    len(repo.db.kelas.table),
		TotalMurid:    len(repo.db.murid.table),
	}, nil
}

func (repo *statsRepository) RecentActivity(ctx context.Context, limit int, exec ...core.DBExecutor) ([]stats.Activity, error) {
	repo.db.kelas.RLock()
	defer repo.db.kelas.RUnlock()
	repo.db.murid.RLock()
	defer repo.db.murid.RUnlock()

	res := make([]stats.Activity, 0)
	for _, m := range repo.db.murid.table {
		res = append(res, stats.Activity{Tipe: stats.TipeMurid, Nama: m.Nama, CreatedAt: m.CreatedAt})
	}
	for _, k := range repo.db.kelas.table {
		res = append(res, stats.Activity{Tipe: stats.TipeKelas, Nama: k.NamaKelas, CreatedAt: k.CreatedAt})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })

	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}
