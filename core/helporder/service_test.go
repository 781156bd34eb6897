package helporder_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/helporder"
	"github.com/gympoint/backend/core/notification"
	"github.com/gympoint/backend/core/student"
	"github.com/gympoint/backend/storage/database/inmem"
)

var frozenNow = time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)

type mailRecorder struct {
	sent []core.EmailMessage
}

func (r *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		r.sent = append(r.sent, *msg)
	}
}

type testLogger struct{ t *testing.T }

func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Log(msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Log(msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Log(msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Error(msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatal(msg, args) }

type fixture struct {
	svc           *helporder.Service
	notifications *notification.Service
	mail          *mailRecorder
	student       student.Student
}

func setup(t *testing.T) fixture {
	db := inmem.NewDB()
	clock := core.ClockFunc(func() time.Time { return frozenNow })

	studentRepo := inmem.NewStudentRepository(db)
	mail := &mailRecorder{}
	notificationSvc := notification.NewService(inmem.NewNotificationRepository(db), clock)

	std, err := studentRepo.CreateStudent(context.Background(), student.Student{
		Name: "Jane Doe", Email: "jane@example.com", Age: 25, Weight: 72.5, Height: 178,
		CreatedAt: frozenNow, UpdatedAt: frozenNow,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}

	svc := helporder.NewService(
		inmem.NewHelpOrderRepository(db),
		studentRepo,
		notificationSvc,
		mail,
		testLogger{t},
		clock,
	)
	return fixture{svc: svc, notifications: notificationSvc, mail: mail, student: std}
}

func TestService_Create(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	ho, err := fix.svc.Create(ctx, fix.student.ID, helporder.NewHelpOrder{Question: "Can I freeze my plan?"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.Equal(t, fix.student.ID, ho.StudentID)
	assert.Equal(t, "Can I freeze my plan?", ho.Question)
	assert.False(t, ho.IsAnswered())
	assert.Equal(t, frozenNow, ho.CreatedAt)

	// the admins were notified
	notifs, err := fix.notifications.QueryLatest(ctx)
	if err != nil {
		t.Fatalf("QueryLatest() failed: %v", err)
	}
	if assert.Len(t, notifs, 1) {
		n := notifs[0]
		assert.Equal(t, "New help order from Jane Doe", n.Content)
		assert.Equal(t, ho.ID, n.HelpOrderID)
		assert.Equal(t, fix.student.ID, n.StudentID)
		assert.False(t, n.Read)
	}
}

func TestService_Create_unknownStudent(t *testing.T) {
	fix := setup(t)

	_, err := fix.svc.Create(context.Background(), 404, helporder.NewHelpOrder{Question: "Hello?"})
	assert.Equal(t, student.ErrNotFound, err)
}

func TestService_Answer(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	ho, err := fix.svc.Create(ctx, fix.student.ID, helporder.NewHelpOrder{Question: "Can I freeze my plan?"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	answered, err := fix.svc.Answer(ctx, ho.ID, helporder.NewAnswer{Answer: "Yes, up to 30 days."})
	if err != nil {
		t.Fatalf("Answer() failed: %v", err)
	}
	assert.True(t, answered.IsAnswered())
	assert.Equal(t, "Yes, up to 30 days.", answered.Answer.String)
	assert.Equal(t, frozenNow, answered.AnswerAt.Time)

	// the asker got mail
	if assert.Len(t, fix.mail.sent, 1) {
		msg := fix.mail.sent[0]
		assert.Equal(t, "Your question was answered", msg.Subject)
		assert.Equal(t, "answer", msg.TemplateName)
		if assert.Len(t, msg.To, 1) {
			assert.Equal(t, "jane@example.com", msg.To[0].Address)
		}
	}

	// answering is one-way
	_, err = fix.svc.Answer(ctx, ho.ID, helporder.NewAnswer{Answer: "Actually no."})
	assert.Equal(t, helporder.ErrAlreadyAnswered, err)
	assert.Len(t, fix.mail.sent, 1)
}

func TestService_Answer_notFound(t *testing.T) {
	fix := setup(t)

	_, err := fix.svc.Answer(context.Background(), 404, helporder.NewAnswer{Answer: "Yes."})
	assert.Equal(t, helporder.ErrNotFound, err)
}

func TestService_Filter_unanswered(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	first, err := fix.svc.Create(ctx, fix.student.ID, helporder.NewHelpOrder{Question: "First?"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err = fix.svc.Create(ctx, fix.student.ID, helporder.NewHelpOrder{Question: "Second?"}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err = fix.svc.Answer(ctx, first.ID, helporder.NewAnswer{Answer: "Done."}); err != nil {
		t.Fatalf("Answer() failed: %v", err)
	}

	entries, total, err := fix.svc.Filter(ctx, helporder.QueryFilter{Unanswered: true, Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("Filter() failed: %v", err)
	}
	assert.Equal(t, 1, total)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "Second?", entries[0].Question)
		assert.Equal(t, "Jane Doe", entries[0].Student.Name)
	}

	// the student view keeps both
	entries, total, err = fix.svc.Filter(ctx, helporder.QueryFilter{StudentID: fix.student.ID, Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("Filter() failed: %v", err)
	}
	assert.Equal(t, 2, total)
	assert.Len(t, entries, 2)
}
