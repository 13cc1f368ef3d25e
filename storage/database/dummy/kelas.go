package dummydb

import (
	"context"
	"sort"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/kelas"
)

type kelasRepository struct {
	db *kelasTable
}

var _ kelas.Repository = (*kelasRepository)(nil) // interface compliance check

func NewKelasRepository(db *DB) *kelasRepository {
	return &kelasRepository{db: db.kelas}
}

func (repo *kelasRepository) query() []kelas.Kelas {
	res := make([]kelas.Kelas, 0, len(repo.db.table))
	for _, k := range repo.db.table {
		res = append(res, *k)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

func (repo *kelasRepository) CreateKelas(ctx context.Context, k kelas.Kelas, exec ...core.DBExecutor) (kelas.Kelas, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	k.ID = repo.db.pkCount
	repo.db.table[k.ID] = &k
	return k, nil
}

func (repo *kelasRepository) GetKelas(ctx context.Context, filter kelas.GetFilter, exec ...core.DBExecutor) (kelas.Kelas, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if k, ok := repo.db.table[filter.ID]; ok {
		return *k, nil
	}
	return kelas.Kelas{}, kelas.ErrNotFound
}

func (repo *kelasRepository) FilterKelas(ctx context.Context, filter *kelas.QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]kelas.Kelas, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]kelas.Kelas, 0)
	for _, k := range repo.query() {
		if filter != nil {
			if filter.Search != "" && !containsFold(k.NamaKelas, filter.Search) {
				continue
			}
			if filter.TahunAjaran != "" && k.TahunAjaran != filter.TahunAjaran {
				continue
			}
			if filter.WaliKelasID != nil && (k.WaliKelasID == nil || *k.WaliKelasID != *filter.WaliKelasID) {
				continue
			}
		}
		res = append(res, k)
	}
	start, end := bounds(len(res), pg)
	return res[start:end], nil
}

func (repo *kelasRepository) UpdateKelas(ctx context.Context, k kelas.Kelas, exec ...core.DBExecutor) (kelas.Kelas, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[k.ID]
	if !ok {
		return kelas.Kelas{}, kelas.ErrNotFound
	}
	k.CreatedAt = orig.CreatedAt
	repo.db.table[k.ID] = &k
	return k, nil
}

func (repo *kelasRepository) IncrementJumlahSiswa(ctx context.Context, id, delta int, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	k, ok := repo.db.table[id]
	if !ok {
		return kelas.ErrNotFound
	}
	k.JumlahSiswa += delta
	return nil
}

func (repo *kelasRepository) DeleteKelas(ctx context.Context, id int, exec ...core.DBExecutor) (kelas.Kelas, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	k, ok := repo.db.table[id]
	if !ok {
		return kelas.Kelas{}, kelas.ErrNotFound
	}
	delete(repo.db.table, id)
	return *k, nil
}
