package student_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/checkin"
	"github.com/gympoint/backend/core/student"
	"github.com/gympoint/backend/storage/database/inmem"
)

var frozenNow = time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)

func clock() core.Clock {
	return core.ClockFunc(func() time.Time { return frozenNow })
}

func setup() (*student.Service, *inmem.DB) {
	db := inmem.NewDB()
	return student.NewService(inmem.NewStudentRepository(db), clock()), db
}

func newStudent(name, email string) student.NewStudent {
	return student.NewStudent{Name: name, Email: email, Age: 25, Weight: 72.5, Height: 178}
}

func TestService_Create(t *testing.T) {
	svc, _ := setup()

	std, err := svc.Create(context.Background(), newStudent("Jane Doe", "jane@example.com"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.Equal(t, 1, std.ID)
	assert.Equal(t, "Jane Doe", std.Name)
	assert.Equal(t, "jane@example.com", std.Email)
	assert.Equal(t, frozenNow, std.CreatedAt)
}

func TestNewStudent_Validate_emailConflict(t *testing.T) {
	svc, _ := setup()
	validate := validator.New()

	if _, err := svc.Create(context.Background(), newStudent("Jane Doe", "jane@example.com")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	ns := newStudent("Jane Dupe", "Jane@Example.com") // case-folded before the check
	err := ns.Validate(validate, svc)
	assert.Equal(t, student.ErrEmailExists, err)
}

func TestUpdateStudent_Validate_keepsOwnEmail(t *testing.T) {
	svc, _ := setup()
	validate := validator.New()
	ctx := context.Background()

	std, err := svc.Create(ctx, newStudent("Jane Doe", "jane@example.com"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err = svc.Create(ctx, newStudent("John Doe", "john@example.com")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	us := student.UpdateStudent{Name: "Jane Doe", Email: "jane@example.com", Age: 26, Weight: 70, Height: 178}
	assert.NoError(t, us.Validate(std, validate, svc))

	us.Email = "john@example.com"
	assert.Equal(t, student.ErrEmailExists, us.Validate(std, validate, svc))
}

func TestService_Delete(t *testing.T) {
	svc, db := setup()
	ctx := context.Background()

	std, err := svc.Create(ctx, newStudent("Jane Doe", "jane@example.com"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// a student with check-in history cannot be deleted
	checkinRepo := inmem.NewCheckinRepository(db)
	if _, err = checkinRepo.CreateCheckin(ctx, checkin.Checkin{StudentID: std.ID, CreatedAt: frozenNow}); err != nil {
		t.Fatalf("CreateCheckin() failed: %v", err)
	}
	assert.Equal(t, student.ErrHasHistory, svc.Delete(ctx, std.ID))

	// a clean student goes away
	clean, err := svc.Create(ctx, newStudent("John Doe", "john@example.com"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.NoError(t, svc.Delete(ctx, clean.ID))
	_, err = svc.GetByID(ctx, clean.ID)
	assert.Equal(t, student.ErrNotFound, err)

	// deleting twice is a NotFound
	assert.Equal(t, student.ErrNotFound, svc.Delete(ctx, clean.ID))
}

func TestService_Filter_search(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	for _, ns := range []student.NewStudent{
		newStudent("Jane Doe", "jane@example.com"),
		newStudent("John Doe", "john@doe.dev"),
		newStudent("Alice", "alice@example.com"),
	} {
		if _, err := svc.Create(ctx, ns); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	// matches name or email
	students, total, err := svc.Filter(ctx, student.QueryFilter{Search: "doe", Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("Filter() failed: %v", err)
	}
	assert.Equal(t, 2, total)
	assert.Len(t, students, 2)
}
