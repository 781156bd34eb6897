package inmem

import (
	"context"
	"sort"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/helporder"
)

type helpOrderRepository struct {
	db *DB
}

var _ helporder.Repository = (*helpOrderRepository)(nil) // interface compliance check

func NewHelpOrderRepository(db *DB) *helpOrderRepository {
	return &helpOrderRepository{db: db}
}

func (repo helpOrderRepository) CreateHelpOrder(_ context.Context, ho helporder.HelpOrder, _ ...core.DBExecutor) (helporder.HelpOrder, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.helpOrderSeq++
	ho.ID = repo.db.helpOrderSeq
	repo.db.helpOrders[ho.ID] = ho
	return ho, nil
}

func (repo helpOrderRepository) GetHelpOrderByID(_ context.Context, id int, _ ...core.DBExecutor) (helporder.HelpOrder, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	ho, ok := repo.db.helpOrders[id]
	if !ok {
		return helporder.HelpOrder{}, helporder.ErrNotFound
	}
	return ho, nil
}

func (repo helpOrderRepository) FilterHelpOrders(_ context.Context, filter helporder.QueryFilter, _ ...core.DBExecutor) ([]helporder.Entry, int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	matches := make([]helporder.Entry, 0, len(repo.db.helpOrders))
	for _, ho := range repo.db.helpOrders {
		if filter.StudentID != 0 && ho.StudentID != filter.StudentID {
			continue
		}
		if filter.Unanswered && ho.IsAnswered() {
			continue
		}
		std := repo.db.students[ho.StudentID]
		matches = append(matches, helporder.Entry{
			ID:        ho.ID,
			Question:  ho.Question,
			Answer:    ho.Answer,
			AnswerAt:  ho.AnswerAt,
			CreatedAt: ho.CreatedAt,
			Student:   helporder.StudentRef{ID: std.ID, Name: std.Name},
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	total := len(matches)
	lo, hi := pageBounds(total, filter.Page, filter.Limit)
	return matches[lo:hi], total, nil
}

func (repo helpOrderRepository) UpdateHelpOrder(_ context.Context, ho helporder.HelpOrder, _ ...core.DBExecutor) (helporder.HelpOrder, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.helpOrders[ho.ID]; !ok {
		return helporder.HelpOrder{}, helporder.ErrNotFound
	}
	repo.db.helpOrders[ho.ID] = ho
	return ho, nil
}
