package dummydb

import (
	"context"
	"math"
	"sort"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/nilai"
)

type nilaiRepository struct {
	db *DB
}

var _ nilai.Repository = (*nilaiRepository)(nil) // interface compliance check

func NewNilaiRepository(db *DB) *nilaiRepository {
	return &nilaiRepository{db: db}
}

func (repo *nilaiRepository) CreateNilai(ctx context.Context, n nilai.Nilai, exec ...core.DBExecutor) (nilai.Nilai, error) {
	repo.db.nilai.Lock()
	defer repo.db.nilai.Unlock()

	repo.db.murid.RLock()
	_, ok := repo.db.murid.table[n.MuridID]
	repo.db.murid.RUnlock()
	if !ok {
		return nilai.Nilai{}, nilai.ErrMuridNotFound
	}

	repo.db.nilai.pkCount++
	n.ID = repo.db.nilai.pkCount
	repo.db.nilai.table[n.ID] = &n
	return n, nil
}

func (repo *nilaiRepository) FilterNilai(ctx context.Context, filter *nilai.QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]nilai.Nilai, error) {
	repo.db.nilai.RLock()
	defer repo.db.nilai.RUnlock()

	res := make([]nilai.Nilai, 0)
	for _, n := range repo.db.nilai.table {
		if n.MuridID != filter.MuridID {
			continue
		}
		if filter.Tipe != "" && n.Tipe != filter.Tipe {
			continue
		}
		res = append(res, *n)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })

	start, end := bounds(len(res), pg)
	return res[start:end], nil
}

func (repo *nilaiRepository) Rekap(ctx context.Context, muridID int, exec ...core.DBExecutor) ([]nilai.RekapEntry, error) {
	repo.db.nilai.RLock()
	defer repo.db.nilai.RUnlock()

	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, n := range repo.db.nilai.table {
		if n.MuridID != muridID {
			continue
		}
		sums[n.MataPelajaran] += n.Skor
		counts[n.MataPelajaran]++
	}

	res := make([]nilai.RekapEntry, 0, len(sums))
	for subject, sum := range sums {
		avg := float64(sum) / float64(counts[subject])
		res = append(res, nilai.RekapEntry{
			MataPelajaran: subject,
			RataRata:      math.Round(avg*100) / 100,
			JumlahNilai:   counts[subject],
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].MataPelajaran < res[j].MataPelajaran })
	return res, nil
}

func (repo *nilaiRepository) DeleteNilai(ctx context.Context, id int, exec ...core.DBExecutor) (nilai.Nilai, error) {
	repo.db.nilai.Lock()
	defer repo.db.nilai.Unlock()

	n, ok := repo.db.nilai.table[id]
	if !ok {
		return nilai.Nilai{}, nilai.ErrNotFound
	}
	delete(repo.db.nilai.table, id)
	return *n, nil
}
