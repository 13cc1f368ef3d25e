package dummydb

import (
	"context"
	"sort"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/murid"
)

// muridRepository holds the whole DB: GetProfil joins across the kelas,
// guru and pengguna tables.
type muridRepository struct {
	db *DB
}

var _ murid.Repository = (*muridRepository)(nil) // interface compliance check

func NewMuridRepository(db *DB) *muridRepository {
	return &muridRepository{db: db}
}

func (repo *muridRepository) query() []murid.Murid {
	res := make([]murid.Murid, 0, len(repo.db.murid.table))
	for _, m := range repo.db.murid.table {
		res = append(res, *m)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

func (repo *muridRepository) checkConflicts(m murid.Murid) error {
	for _, existing := range repo.db.murid.table {
		if existing.ID == m.ID {
			continue
		}
		if existing.NISN == m.NISN {
			return murid.ErrNISNExists
		}
		if m.PenggunaID != nil && existing.PenggunaID != nil && *existing.PenggunaID == *m.PenggunaID {
			return murid.ErrPenggunaIDExists
		}
	}
	if m.KelasID != nil {
		if _, ok := repo.db.kelas.table[*m.KelasID]; !ok {
			return murid.ErrKelasNotFound
		}
	}
	return nil
}

func (repo *muridRepository) CreateMurid(ctx context.Context, m murid.Murid, exec ...core.DBExecutor) (murid.Murid, error) {
	repo.db.murid.Lock()
	defer repo.db.murid.Unlock()

	if err := repo.checkConflicts(m); err != nil {
		return murid.Murid{}, err
	}
	repo.db.murid.pkCount++
	m.ID = repo.db.murid.pkCount
	repo.db.murid.table[m.ID] = &m
	return m, nil
}

func (repo *muridRepository) GetMurid(ctx context.Context, filter murid.GetFilter, exec ...core.DBExecutor) (murid.Murid, error) {
	repo.db.murid.RLock()
	defer repo.db.murid.RUnlock()

	switch {
	case filter.ID != 0:
		if m, ok := repo.db.murid.table[filter.ID]; ok {
			return *m, nil
		}
	case filter.PenggunaID != 0:
		for _, m := range repo.db.murid.table {
			if m.PenggunaID != nil && *m.PenggunaID == filter.PenggunaID {
				return *m, nil
			}
		}
	default:
		for _, m := range repo.db.murid.table {
			if m.NISN == filter.NISN {
				return *m, nil
			}
		}
	}
	return murid.Murid{}, murid.ErrNotFound
}

func (repo *muridRepository) FilterMurid(ctx context.Context, filter *murid.QueryFilter, pg core.Pagination, exec ...core.DBExecutor) ([]murid.Murid, error) {
	repo.db.murid.RLock()
	defer repo.db.murid.RUnlock()

	res := make([]murid.Murid, 0)
	for _, m := range repo.query() {
		if filter != nil {
			if filter.Search != "" &&
				!containsFold(m.Nama, filter.Search) && !containsFold(m.NISN, filter.Search) &&
				!(m.NamaOrangTua != nil && containsFold(*m.NamaOrangTua, filter.Search)) {
				continue
			}
			if filter.KelasID != nil && (m.KelasID == nil || *m.KelasID != *filter.KelasID) {
				continue
			}
			if filter.JenisKelamin != "" && m.JenisKelamin != filter.JenisKelamin {
				continue
			}
		}
		res = append(res, m)
	}
	start, end := bounds(len(res), pg)
	return res[start:end], nil
}

func (repo *muridRepository) UpdateMurid(ctx context.Context, m murid.Murid, exec ...core.DBExecutor) (murid.Murid, error) {
	repo.db.murid.Lock()
	defer repo.db.murid.Unlock()

	orig, ok := repo.db.murid.table[m.ID]
	if !ok {
		return murid.Murid{}, murid.ErrNotFound
	}
	if err := repo.checkConflicts(m); err != nil {
		return murid.Murid{}, err
	}
	m.CreatedAt = orig.CreatedAt
	repo.db.murid.table[m.ID] = &m
	return m, nil
}

func (repo *muridRepository) UpdateNamaByPenggunaID(ctx context.Context, penggunaID int, nama string, exec ...core.DBExecutor) error {
	repo.db.murid.Lock()
	defer repo.db.murid.Unlock()

	for _, m := range repo.db.murid.table {
		if m.PenggunaID != nil && *m.PenggunaID == penggunaID {
			m.Nama = nama
		}
	}
	return nil
}

func (repo *muridRepository) AssignKelas(ctx context.Context, muridID, kelasID int, exec ...core.DBExecutor) error {
	repo.db.murid.Lock()
	defer repo.db.murid.Unlock()

	m, ok := repo.db.murid.table[muridID]
	if !ok {
		return murid.ErrNotFound
	}
	m.KelasID = &kelasID
	return nil
}

func (repo *muridRepository) DeleteMurid(ctx context.Context, id int, exec ...core.DBExecutor) (murid.Murid, error) {
	repo.db.murid.Lock()
	defer repo.db.murid.Unlock()

	m, ok := repo.db.murid.table[id]
	if !ok {
		return murid.Murid{}, murid.ErrNotFound
	}
	delete(repo.db.murid.table, id)
	return *m, nil
}

func (repo *muridRepository) GetProfil(ctx context.Context, penggunaID int, exec ...core.DBExecutor) (murid.Profil, error) {
	m, err := repo.GetMurid(ctx, murid.GetFilter{PenggunaID: penggunaID})
	if err != nil {
		return murid.Profil{}, err
	}

	prof := murid.Profil{
		ID:      m.ID,
		Nama:    m.Nama,
		NISN:    m.NISN,
		KelasID: m.KelasID,
	}
	if m.KelasID == nil {
		return prof, nil
	}

	repo.db.kelas.RLock()
	k, ok := repo.db.kelas.table[*m.KelasID]
	repo.db.kelas.RUnlock()
	if !ok {
		return prof, nil
	}
	prof.NamaKelas = &k.NamaKelas
	if k.WaliKelasID == nil {
		return prof, nil
	}

	repo.db.guru.RLock()
	g, ok := repo.db.guru.table[*k.WaliKelasID]
	repo.db.guru.RUnlock()
	if !ok {
		return prof, nil
	}
	prof.WaliKelas = &g.Nama
	if g.PenggunaID == nil {
		return prof, nil
	}

	repo.db.pengguna.RLock()
	acct, ok := repo.db.pengguna.table[*g.PenggunaID]
	repo.db.pengguna.RUnlock()
	if ok {
		prof.WaliKelasFoto = acct.Foto
	}
	return prof, nil
}
