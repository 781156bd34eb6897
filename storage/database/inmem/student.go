package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

// AddFile stores an avatar file reference, for seeding tests.
func (repo studentRepository) AddFile(f student.File) student.File {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.fileSeq++
	f.ID = repo.db.fileSeq
	repo.db.files[f.ID] = f
	return f
}

func (repo studentRepository) withAvatar(std student.Student) student.Student {
	if std.AvatarID.Valid {
		if f, ok := repo.db.files[int(std.AvatarID.Int)]; ok {
			std.Avatar = &f
		}
	}
	return std
}

func (repo studentRepository) CheckEmailUniqueness(_ context.Context, email string, excludedStudents []student.Student, _ ...core.DBExecutor) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	excluded := make(map[int]bool, len(excludedStudents))
	for _, std := range excludedStudents {
		excluded[std.ID] = true
	}
	for _, std := range repo.db.students {
		if excluded[std.ID] {
			continue
		}
		if std.Email == email {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo studentRepository) CreateStudent(_ context.Context, std student.Student, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.studentSeq++
	std.ID = repo.db.studentSeq
	repo.db.students[std.ID] = std
	return repo.withAvatar(std), nil
}

func (repo studentRepository) FilterStudents(_ context.Context, filter student.QueryFilter, _ ...core.DBExecutor) ([]student.Student, int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matches := make([]student.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		if search != "" &&
			!strings.Contains(strings.ToLower(std.Name), search) &&
			!strings.Contains(strings.ToLower(std.Email), search) {
			continue
		}
		matches = append(matches, repo.withAvatar(std))
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	total := len(matches)
	lo, hi := pageBounds(total, filter.Page, filter.Limit)
	return matches[lo:hi], total, nil
}

func (repo studentRepository) GetStudentByID(_ context.Context, id int, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	std, ok := repo.db.students[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return repo.withAvatar(std), nil
}

func (repo studentRepository) UpdateStudent(_ context.Context, std student.Student, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[std.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.students[std.ID] = std
	return repo.withAvatar(std), nil
}

func (repo studentRepository) DeleteStudentByID(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return student.ErrNotFound
	}
	for _, reg := range repo.db.registrations {
		if reg.StudentID == id {
			return student.ErrHasHistory
		}
	}
	for _, c := range repo.db.checkins {
		if c.StudentID == id {
			return student.ErrHasHistory
		}
	}
	delete(repo.db.students, id)
	return nil
}
