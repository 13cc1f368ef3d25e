package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/stats"
)

type statsRepository struct {
	exec core.DBExecutor
}

var _ stats.Repository = (*statsRepository)(nil) // interface compliance check

func NewStatsRepository(exec core.DBExecutor) *statsRepository {
	return &statsRepository{exec: exec}
}

func (repo statsRepository) Counts(ctx context.Context, exec ...core.DBExecutor) (stats.Counts, error) {
	query := `
		SELECT (SELECT COUNT(*) FROM pengguna) AS total_pengguna,
		       (SELECT COUNT(*) FROM guru)     AS total_guru,
		       (SELECT COUNT(*) FROM kelas)    AS total_kelas,
		       (SELECT COUNT(*) FROM murid)    AS total_murid`

	var counts stats.Counts
	if err := getExec(repo.exec, exec).GetContext(ctx, &counts, query); err != nil {
		return stats.Counts{}, errors.Wrap(err, "counting rows")
	}
	return counts, nil
}

func (repo statsRepository) RecentActivity(ctx context.Context, limit int, exec ...core.DBExecutor) ([]stats.Activity, error) {
	query := `
		SELECT 'murid' AS tipe, nama, created_at FROM murid
		UNION ALL
		SELECT 'kelas' AS tipe, nama_kelas AS nama, created_at FROM kelas
		ORDER BY created_at DESC
		LIMIT $1`

	res := make([]stats.Activity, 0)
	if err := getExec(repo.exec, exec).SelectContext(ctx, &res, query, limit); err != nil {
		return nil, errors.Wrap(err, "querying recent activity")
	}
	return res, nil
}
