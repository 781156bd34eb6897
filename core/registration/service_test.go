package registration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/plan"
	"github.com/gympoint/backend/core/registration"
	"github.com/gympoint/backend/core/student"
	"github.com/gympoint/backend/storage/database/inmem"
)

var frozenNow = time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)

// mailRecorder stands in for the email service; dispatch is synchronous so
// tests can assert on what was sent.
type mailRecorder struct {
	sent []core.EmailMessage
}

func (r *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		r.sent = append(r.sent, *msg)
	}
}

type fixture struct {
	svc     *registration.Service
	mail    *mailRecorder
	student student.Student
	plan    plan.Plan
}

func setup(t *testing.T) fixture {
	db := inmem.NewDB()
	clock := core.ClockFunc(func() time.Time { return frozenNow })

	planRepo := inmem.NewPlanRepository(db)
	studentRepo := inmem.NewStudentRepository(db)
	regRepo := inmem.NewRegistrationRepository(db)
	mail := &mailRecorder{}

	ctx := context.Background()
	pl, err := planRepo.CreatePlan(ctx, plan.Plan{Title: "Gold", Duration: 3, Price: 109, CreatedAt: frozenNow, UpdatedAt: frozenNow})
	if err != nil {
		t.Fatalf("CreatePlan() failed: %v", err)
	}
	std, err := studentRepo.CreateStudent(ctx, student.Student{
		Name: "Jane Doe", Email: "jane@example.com", Age: 25, Weight: 72.5, Height: 178,
		CreatedAt: frozenNow, UpdatedAt: frozenNow,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	return fixture{
		svc:     registration.NewService(regRepo, planRepo, studentRepo, mail, clock),
		mail:    mail,
		student: std,
		plan:    pl,
	}
}

func TestService_Create_derivesEndDateAndPrice(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	start := frozenNow.AddDate(0, 0, 1)
	reg, err := fix.svc.Create(ctx, registration.NewRegistration{
		StudentID: fix.student.ID,
		PlanID:    fix.plan.ID,
		StartDate: start,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.Equal(t, start.AddDate(0, 3, 0), reg.EndDate)
	assert.Equal(t, 327.0, reg.Price)
	assert.Equal(t, frozenNow, reg.CreatedAt)

	// the confirmation mail went out
	if assert.Len(t, fix.mail.sent, 1) {
		msg := fix.mail.sent[0]
		assert.Equal(t, "Enrollment confirmed", msg.Subject)
		assert.Equal(t, "registration", msg.TemplateName)
		if assert.Len(t, msg.To, 1) {
			assert.Equal(t, "jane@example.com", msg.To[0].Address)
		}
	}
}

func TestService_Create_pastDateRejected(t *testing.T) {
	fix := setup(t)

	_, err := fix.svc.Create(context.Background(), registration.NewRegistration{
		StudentID: fix.student.ID,
		PlanID:    fix.plan.ID,
		StartDate: frozenNow.Add(-time.Second),
	})
	assert.Equal(t, registration.ErrPastDate, err)
	assert.Empty(t, fix.mail.sent)
}

func TestService_Create_resolvesPlanThenStudent(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	start := frozenNow.AddDate(0, 0, 1)

	// unknown plan wins even when the student is unknown too
	_, err := fix.svc.Create(ctx, registration.NewRegistration{StudentID: 404, PlanID: 404, StartDate: start})
	assert.Equal(t, plan.ErrNotFound, err)

	_, err = fix.svc.Create(ctx, registration.NewRegistration{StudentID: 404, PlanID: fix.plan.ID, StartDate: start})
	assert.Equal(t, student.ErrNotFound, err)
}

func TestService_Update_rederivesWithoutMail(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	start := frozenNow.AddDate(0, 0, 1)

	reg, err := fix.svc.Create(ctx, registration.NewRegistration{
		StudentID: fix.student.ID, PlanID: fix.plan.ID, StartDate: start,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.Len(t, fix.mail.sent, 1)

	newStart := frozenNow.AddDate(0, 1, 0)
	updated, err := fix.svc.Update(ctx, reg.ID, registration.NewRegistration{
		StudentID: fix.student.ID, PlanID: fix.plan.ID, StartDate: newStart,
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	assert.Equal(t, newStart.AddDate(0, 3, 0), updated.EndDate)
	assert.Equal(t, 327.0, updated.Price)

	// no second mail on update
	assert.Len(t, fix.mail.sent, 1)
}

func TestService_Update_notFound(t *testing.T) {
	fix := setup(t)

	_, err := fix.svc.Update(context.Background(), 404, registration.NewRegistration{
		StudentID: fix.student.ID, PlanID: fix.plan.ID, StartDate: frozenNow.AddDate(0, 0, 1),
	})
	assert.Equal(t, registration.ErrNotFound, err)
}

func TestService_Delete(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	reg, err := fix.svc.Create(ctx, registration.NewRegistration{
		StudentID: fix.student.ID, PlanID: fix.plan.ID, StartDate: frozenNow.AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	assert.NoError(t, fix.svc.Delete(ctx, reg.ID))
	_, err = fix.svc.GetByID(ctx, reg.ID)
	assert.Equal(t, registration.ErrNotFound, err)
}

func TestService_QuotePrice(t *testing.T) {
	fix := setup(t)

	price, err := fix.svc.QuotePrice(context.Background(), registration.NewRegistration{
		StudentID: fix.student.ID, PlanID: fix.plan.ID, StartDate: frozenNow,
	})
	if err != nil {
		t.Fatalf("QuotePrice() failed: %v", err)
	}
	assert.Equal(t, 327.0, price)
	assert.Empty(t, fix.mail.sent)
}

func TestService_singleMonthMailWording(t *testing.T) {
	db := inmem.NewDB()
	clock := core.ClockFunc(func() time.Time { return frozenNow })
	planRepo := inmem.NewPlanRepository(db)
	studentRepo := inmem.NewStudentRepository(db)
	regRepo := inmem.NewRegistrationRepository(db)
	mail := &mailRecorder{}
	svc := registration.NewService(regRepo, planRepo, studentRepo, mail, clock)

	ctx := context.Background()
	pl, err := planRepo.CreatePlan(ctx, plan.Plan{Title: "Start", Duration: 1, Price: 129, CreatedAt: frozenNow, UpdatedAt: frozenNow})
	if err != nil {
		t.Fatalf("CreatePlan() failed: %v", err)
	}
	std, err := studentRepo.CreateStudent(ctx, student.Student{
		Name: "John Doe", Email: "john@example.com", Age: 30, Weight: 80, Height: 182,
		CreatedAt: frozenNow, UpdatedAt: frozenNow,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	reg, err := svc.Create(ctx, registration.NewRegistration{
		StudentID: std.ID, PlanID: pl.ID, StartDate: frozenNow.AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.Equal(t, 129.0, reg.Price)
	assert.Equal(t, reg.StartDate.AddDate(0, 1, 0), reg.EndDate)

	assert.Len(t, mail.sent, 1)
}
