// Package dummydb provides in-memory repositories for tests.
package dummydb

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/guru"
	"github.com/sekolahku/backend/core/kelas"
	"github.com/sekolahku/backend/core/murid"
	"github.com/sekolahku/backend/core/nilai"
	"github.com/sekolahku/backend/core/pengguna"
	"github.com/sekolahku/backend/core/permintaan"
)

type (
	DB struct {
		pengguna   *penggunaTable
		guru       *guruTable
		kelas      *kelasTable
		murid      *muridTable
		permintaan *permintaanTable
		nilai      *nilaiTable
	}

	penggunaTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*pengguna.Pengguna
	}
	guruTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*guru.Guru
	}
	kelasTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*kelas.Kelas
	}
	muridTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*murid.Murid
	}
	permintaanTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*permintaan.Permintaan
	}
	nilaiTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*nilai.Nilai
	}
)

var _ core.DB = (*DB)(nil)

func Open() (*DB, error) {
	db := &DB{
		pengguna:   &penggunaTable{table: make(map[int]*pengguna.Pengguna)},
		guru:       &guruTable{table: make(map[int]*guru.Guru)},
		kelas:      &kelasTable{table: make(map[int]*kelas.Kelas)},
		murid:      &muridTable{table: make(map[int]*murid.Murid)},
		permintaan: &permintaanTable{table: make(map[int]*permintaan.Permintaan)},
		nilai:      &nilaiTable{table: make(map[int]*nilai.Nilai)},
	}
	return db, nil
}

// The raw executor methods are never reached: dummy repositories work on
// the maps directly and ignore the executor override.

func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return nil
}
func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return nil
}
func (db *DB) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return nil
}

// Begin hands out a no-op transactor; map mutations apply immediately.
func (db *DB) Begin(ctx context.Context) (core.DBTransactor, error) {
	return &noopTx{DB: db}, nil
}

type noopTx struct {
	*DB
}

func (tx *noopTx) Commit() error   { return nil }
func (tx *noopTx) Rollback() error { return nil }

// bounds clips a pagination window to a slice of the given length.
func bounds(length int, pg core.Pagination) (int, int) {
	start := pg.Offset
	if start > length {
		start = length
	}
	end := start + pg.Limit
	if end > length {
		end = length
	}
	return start, end
}
