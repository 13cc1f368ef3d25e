package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/pengguna"
)

type penggunaRepository struct {
	db *penggunaTable
}

var _ pengguna.Repository = (*penggunaRepository)(nil) // interface compliance check

func NewPenggunaRepository(db *DB) *penggunaRepository {
	return &penggunaRepository{db: db.pengguna}
}

func (repo *penggunaRepository) query() []pengguna.Pengguna {
	res := make([]pengguna.Pengguna, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		res = append(res, *p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

func (repo *penggunaRepository) CheckUsernameUniqueness(ctx context.Context, username string, excluded []pengguna.Pengguna, exec ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, p := range repo.db.table {
		if p.Username == username && !isExcluded(p.ID, excluded) {
			return pengguna.ErrUsernameExists
		}
	}
	return nil
}

func (repo *penggunaRepository) CreatePengguna(ctx context.Context, p pengguna.Pengguna, exec ...core.DBExecutor) (pengguna.Pengguna, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.Username == p.Username {
			return pengguna.Pengguna{}, pengguna.ErrUsernameExists
		}
	}
	repo.db.pkCount++
	p.ID = repo.db.pkCount
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *penggunaRepository) GetPengguna(ctx context.Context, filter pengguna.GetFilter, exec ...core.DBExecutor) (pengguna.Pengguna, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID != 0 {
		if p, ok := repo.db.table[filter.ID]; ok {
			return *p, nil
		}
		return pengguna.Pengguna{}, pengguna.ErrNotFound
	}
	for _, p := range repo.db.table {
		if p.Username == filter.Username {
			return *p, nil
		}
	}
	return pengguna.Pengguna{}, pengguna.ErrNotFound
}

func (repo *penggunaRepository) FilterPengguna(ctx context.Context, filter *pengguna.QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]pengguna.Pengguna, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	res := make([]pengguna.Pengguna, 0)
	for _, p := range repo.query() {
		if filter != nil {
			if filter.Search != "" &&
				!containsFold(p.Username, filter.Search) && !containsFold(p.Nama, filter.Search) {
				continue
			}
			if filter.Role != "" && p.Role != filter.Role {
				continue
			}
		}
		res = append(res, p)
	}
	start, end := bounds(len(res), pg)
	return res[start:end], nil
}

func (repo *penggunaRepository) UpdatePengguna(ctx context.Context, p pengguna.Pengguna, exec ...core.DBExecutor) (pengguna.Pengguna, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[p.ID]
	if !ok {
		return pengguna.Pengguna{}, pengguna.ErrNotFound
	}
	for _, existing := range repo.db.table {
		if existing.ID != p.ID && existing.Username == p.Username {
			return pengguna.Pengguna{}, pengguna.ErrUsernameExists
		}
	}
	p.PasswordHash = orig.PasswordHash
	p.CreatedAt = orig.CreatedAt
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *penggunaRepository) UpdatePassword(ctx context.Context, id int, hash []byte, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	p, ok := repo.db.table[id]
	if !ok {
		return pengguna.ErrNotFound
	}
	p.PasswordHash = hash
	return nil
}

func (repo *penggunaRepository) DeletePengguna(ctx context.Context, id int, exec ...core.DBExecutor) (pengguna.Pengguna, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p, ok := repo.db.table[id]
	if !ok {
		return pengguna.Pengguna{}, pengguna.ErrNotFound
	}
	delete(repo.db.table, id)
	return *p, nil
}

func isExcluded(id int, excluded []pengguna.Pengguna) bool {
	for _, p := range excluded {
		if p.ID == id {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
