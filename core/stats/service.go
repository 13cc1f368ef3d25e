package stats

import (
	"context"

	pkgerrors "github.com/pkg/errors"

	"github.com/sekolahku/backend/core"
)

// recentActivityLimit caps the dashboard feed.
const recentActivityLimit = 5

type (
	Repository interface {
		Counts(ctx context.Context, exec ...core.DBExecutor) (Counts, error)
		// RecentActivity merges the latest murid and kelas creations,
		// newest first, capped at limit.
		RecentActivity(ctx context.Context, limit int, exec ...core.DBExecutor) ([]Activity, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (svc *Service) Overview(ctx context.Context) (Overview, error) {
	counts, err := svc.repo.Counts(ctx)
	if err != nil {
		return Overview{}, pkgerrors.Wrap(err, "counting rows")
	}
	feed, err := svc.repo.RecentActivity(ctx, recentActivityLimit)
	if err != nil {
		return Overview{}, pkgerrors.Wrap(err, "fetching recent activity")
	}
	if feed == nil {
		feed = []Activity{}
	}
	return Overview{Counts: counts, RecentActivity: feed}, nil
}
