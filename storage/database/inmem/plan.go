package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/plan"
)

type planRepository struct {
	db *DB
}

var _ plan.Repository = (*planRepository)(nil) // interface compliance check

func NewPlanRepository(db *DB) *planRepository {
	return &planRepository{db: db}
}

func (repo planRepository) CheckTitleUniqueness(_ context.Context, title string, excludedPlans []plan.Plan, _ ...core.DBExecutor) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	excluded := make(map[int]bool, len(excludedPlans))
	for _, pl := range excludedPlans {
		excluded[pl.ID] = true
	}
	for _, pl := range repo.db.plans {
		if pl.IsDeleted() || excluded[pl.ID] {
			continue
		}
		if pl.Title == title {
			return plan.ErrTitleExists
		}
	}
	return nil
}

func (repo planRepository) CreatePlan(_ context.Context, pl plan.Plan, _ ...core.DBExecutor) (plan.Plan, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.planSeq++
	pl.ID = repo.db.planSeq
	repo.db.plans[pl.ID] = pl
	return pl, nil
}

func (repo planRepository) FilterPlans(_ context.Context, filter plan.QueryFilter, _ ...core.DBExecutor) ([]plan.Plan, int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matches := make([]plan.Plan, 0, len(repo.db.plans))
	for _, pl := range repo.db.plans {
		if pl.IsDeleted() {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(pl.Title), search) {
			continue
		}
		matches = append(matches, pl)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	total := len(matches)
	lo, hi := pageBounds(total, filter.Page, filter.Limit)
	return matches[lo:hi], total, nil
}

func (repo planRepository) GetPlanByID(_ context.Context, id int, _ ...core.DBExecutor) (plan.Plan, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	// soft-deleted plans still resolve; historical registrations reference them
	pl, ok := repo.db.plans[id]
	if !ok {
		return plan.Plan{}, plan.ErrNotFound
	}
	return pl, nil
}

func (repo planRepository) UpdatePlan(_ context.Context, pl plan.Plan, _ ...core.DBExecutor) (plan.Plan, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.plans[pl.ID]; !ok {
		return plan.Plan{}, plan.ErrNotFound
	}
	repo.db.plans[pl.ID] = pl
	return pl, nil
}

func (repo planRepository) SoftDeletePlan(_ context.Context, pl plan.Plan, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.plans[pl.ID]; !ok {
		return plan.ErrNotFound
	}
	repo.db.plans[pl.ID] = pl
	return nil
}
