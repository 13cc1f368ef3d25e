package dummydb

import (
	"context"
	"sort"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/permintaan"
)

// permintaanRepository holds the whole DB: the pending queue joins the
// murid and kelas tables.
type permintaanRepository struct {
	db *DB
}

var _ permintaan.Repository = (*permintaanRepository)(nil) // interface compliance check

func NewPermintaanRepository(db *DB) *permintaanRepository {
	return &permintaanRepository{db: db}
}

func (repo *permintaanRepository) CreatePermintaan(ctx context.Context, p permintaan.Permintaan, exec ...core.DBExecutor) (permintaan.Permintaan, error) {
	repo.db.permintaan.Lock()
	defer repo.db.permintaan.Unlock()

	repo.db.murid.RLock()
	_, muridOK := repo.db.murid.table[p.MuridID]
	repo.db.murid.RUnlock()
	if !muridOK {
		return permintaan.Permintaan{}, permintaan.ErrMuridNotFound
	}
	repo.db.kelas.RLock()
	_, kelasOK := repo.db.kelas.table[p.KelasID]
	repo.db.kelas.RUnlock()
	if !kelasOK {
		return permintaan.Permintaan{}, permintaan.ErrKelasNotFound
	}

	for _, existing := range repo.db.permintaan.table {
		if existing.MuridID == p.MuridID && existing.KelasID == p.KelasID &&
			existing.Status == permintaan.StatusPending {
			return permintaan.Permintaan{}, permintaan.ErrDuplicateRequest
		}
	}

	repo.db.permintaan.pkCount++
	p.ID = repo.db.permintaan.pkCount
	repo.db.permintaan.table[p.ID] = &p
	return p, nil
}

func (repo *permintaanRepository) GetPermintaan(ctx context.Context, filter permintaan.GetFilter, exec ...core.DBExecutor) (permintaan.Permintaan, error) {
	repo.db.permintaan.RLock()
	defer repo.db.permintaan.RUnlock()

	if p, ok := repo.db.permintaan.table[filter.ID]; ok {
		return *p, nil
	}
	return permintaan.Permintaan{}, permintaan.ErrNotFound
}

func (repo *permintaanRepository) FilterPending(ctx context.Context, waliKelasGuruID *int, pg core.Pagination, exec ...core.DBExecutor) ([]permintaan.PendingRequest, error) {
	repo.db.permintaan.RLock()
	defer repo.db.permintaan.RUnlock()
	repo.db.murid.RLock()
	defer repo.db.murid.RUnlock()
	repo.db.kelas.RLock()
	defer repo.db.kelas.RUnlock()

	res := make([]permintaan.PendingRequest, 0)
	for _, p := range repo.db.permintaan.table {
		if p.Status != permintaan.StatusPending {
			continue
		}
		m, muridOK := repo.db.murid.table[p.MuridID]
		k, kelasOK := repo.db.kelas.table[p.KelasID]
		if !muridOK || !kelasOK {
			continue
		}
		if waliKelasGuruID != nil && (k.WaliKelasID == nil || *k.WaliKelasID != *waliKelasGuruID) {
			continue
		}
		res = append(res, permintaan.PendingRequest{
			ID:        p.ID,
			MuridID:   p.MuridID,
			NamaMurid: m.Nama,
			NISN:      m.NISN,
			KelasID:   p.KelasID,
			NamaKelas: k.NamaKelas,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })

	start, end := bounds(len(res), pg)
	return res[start:end], nil
}

func (repo *permintaanRepository) UpdateStatus(ctx context.Context, id int, status string, exec ...core.DBExecutor) error {
	repo.db.permintaan.Lock()
	defer repo.db.permintaan.Unlock()

	p, ok := repo.db.permintaan.table[id]
	if !ok {
		return permintaan.ErrNotFound
	}
	p.Status = status
	return nil
}
