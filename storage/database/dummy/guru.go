package dummydb

import (
	"context"
	"sort"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/guru"
)

type guruRepository struct {
	db *guruTable
}

var _ guru.Repository = (*guruRepository)(nil) // interface compliance check

func NewGuruRepository(db *DB) *guruRepository {
	return &guruRepository{db: db.guru}
}

func (repo *guruRepository) query() []guru.Guru {
	res := make([]guru.Guru, 0, len(repo.db.table))
	for _, g := range repo.db.table {
		res = append(res, *g)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

func (repo *guruRepository) checkConflicts(g guru.Guru) error {
	for _, existing := range repo.db.table {
		if existing.ID == g.ID {
			continue
		}
		if existing.NIP == g.NIP {
			return guru.ErrNIPExists
		}
		if g.PenggunaID != nil && existing.PenggunaID != nil && *existing.PenggunaID == *g.PenggunaID {
			return guru.ErrPenggunaIDExists
		}
	}
	return nil
}

func (repo *guruRepository) CreateGuru(ctx context.Context, g guru.Guru, exec ...core.DBExecutor) (guru.Guru, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.checkConflicts(g); err != nil {
		return guru.Guru{}, err
	}
	repo.db.pkCount++
	g.ID = repo.db.pkCount
	repo.db.table[g.ID] = &g
	return g, nil
}

func (repo *guruRepository) GetGuru(ctx context.Context, filter guru.GetFilter, exec ...core.DBExecutor) (guru.Guru, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != 0:
		if g, ok := repo.db.table[filter.ID]; ok {
			return *g, nil
		}
	case filter.PenggunaID != 0:
		for _, g := range repo.db.table {
			if g.PenggunaID != nil && *g.PenggunaID == filter.PenggunaID {
				return *g, nil
			}
		}
	default:
		for _, g := range repo.db.table {
			if g.NIP == filter.NIP {
				return *g, nil
			}
		}
	}
	return guru.Guru{}, guru.ErrNotFound
}

func (repo *guruRepository) FilterGuru(ctx context.Context, filter *guru.QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]guru.Guru, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]guru.Guru, 0)
	for _, g := range repo.query() {
		if filter != nil && filter.Search != "" &&
			!containsFold(g.Nama, filter.Search) && !containsFold(g.NIP, filter.Search) &&
			!containsFold(g.MataPelajaran, filter.Search) {
			continue
		}
		res = append(res, g)
	}
	start, end := bounds(len(res), pg)
	return res[start:end], nil
}

func (repo *guruRepository) UpdateGuru(ctx context.Context, g guru.Guru, exec ...core.DBExecutor) (guru.Guru, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[g.ID]
	if !ok {
		return guru.Guru{}, guru.ErrNotFound
	}
	if err := repo.checkConflicts(g); err != nil {
		return guru.Guru{}, err
	}
	g.CreatedAt = orig.CreatedAt
	repo.db.table[g.ID] = &g
	return g, nil
}

func (repo *guruRepository) UpdateNamaByPenggunaID(ctx context.Context, penggunaID int, nama string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, g := range repo.db.table {
		if g.PenggunaID != nil && *g.PenggunaID == penggunaID {
			g.Nama = nama
		}
	}
	return nil
}

func (repo *guruRepository) DeleteGuru(ctx context.Context, id int, exec ...core.DBExecutor) (guru.Guru, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	g, ok := repo.db.table[id]
	if !ok {
		return guru.Guru{}, guru.ErrNotFound
	}
	delete(repo.db.table, id)
	return *g, nil
}
