package helporder

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/student"
)

var (
	// errors
	ErrNotFound        = core.NewValidationError(errors.New("Help order does not exist."))
	ErrAlreadyAnswered = core.NewValidationError(errors.New("Help order already answered."))
)

const mailDateFormat = "January 2, 2006 at 15:04"

type (
	Repository interface {
		CreateHelpOrder(ctx context.Context, ho HelpOrder, exec ...core.DBExecutor) (HelpOrder, error)
		GetHelpOrderByID(ctx context.Context, id int, exec ...core.DBExecutor) (HelpOrder, error)
		// FilterHelpOrders returns entries joined with student name, ordered
		// by id, plus the total match count.
		FilterHelpOrders(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Entry, int, error)
		UpdateHelpOrder(ctx context.Context, ho HelpOrder, exec ...core.DBExecutor) (HelpOrder, error)
	}

	StudentResolver interface {
		GetStudentByID(ctx context.Context, id int, exec ...core.DBExecutor) (student.Student, error)
	}

	// Notifier records an admin notification for a freshly asked question.
	Notifier interface {
		NotifyHelpOrder(ctx context.Context, content string, helpOrderID, studentID int) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, studentID int, nh NewHelpOrder) (HelpOrder, error)
		Answer(ctx context.Context, id int, na NewAnswer) (HelpOrder, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Entry, int, error)
	}

	Service struct {
		repo     Repository
		students StudentResolver
		notifier Notifier
		mailSvc  core.EmailService
		logger   core.Logger
		clock    core.Clock
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(
	repo Repository,
	students StudentResolver,
	notifier Notifier,
	mailSvc core.EmailService,
	logger core.Logger,
	clock core.Clock,
) *Service {
	return &Service{
		repo:     repo,
		students: students,
		notifier: notifier,
		mailSvc:  mailSvc,
		logger:   logger,
		clock:    clock,
	}
}

func (svc *Service) Create(ctx context.Context, studentID int, nh NewHelpOrder) (HelpOrder, error) {
	std, err := svc.students.GetStudentByID(ctx, studentID)
	if err != nil {
		return HelpOrder{}, err
	}

	now := svc.clock.Now()
	ho := HelpOrder{
		StudentID: std.ID,
		Question:  nh.Question,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ho, err = svc.repo.CreateHelpOrder(ctx, ho)
	if err != nil {
		return HelpOrder{}, err
	}

	// the admin notification is best-effort; a failure is logged, not surfaced
	content := fmt.Sprintf("New help order from %s", std.Name)
	if err = svc.notifier.NotifyHelpOrder(ctx, content, ho.ID, std.ID); err != nil {
		svc.logger.Error(fmt.Sprintf("storing help order notification: %v", err), err)
	}
	return ho, nil
}

// Answer performs the one-way unanswered -> answered transition and mails the
// asker. Re-answering an already answered order is rejected.
func (svc *Service) Answer(ctx context.Context, id int, na NewAnswer) (HelpOrder, error) {
	ho, err := svc.repo.GetHelpOrderByID(ctx, id)
	if err != nil {
		return HelpOrder{}, err
	}
	if ho.IsAnswered() {
		return HelpOrder{}, ErrAlreadyAnswered
	}

	now := svc.clock.Now()
	ho.Answer.SetValid(na.Answer)
	ho.AnswerAt.SetValid(now)
	ho.UpdatedAt = now

	ho, err = svc.repo.UpdateHelpOrder(ctx, ho)
	if err != nil {
		return HelpOrder{}, err
	}

	if std, err := svc.students.GetStudentByID(ctx, ho.StudentID); err == nil {
		svc.sendAnswerMail(std, ho)
	} else {
		svc.logger.Error(fmt.Sprintf("resolving student for answer mail: %v", err), err)
	}
	return ho, nil
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Entry, int, error) {
	return svc.repo.FilterHelpOrders(ctx, filter)
}

func (svc *Service) sendAnswerMail(std student.Student, ho HelpOrder) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject:      "Your question was answered",
		TemplateName: "answer",
		TemplateData: answerMailData{
			StudentName: std.Name,
			Question:    ho.Question,
			Answer:      ho.Answer.String,
			AnswerAt:    ho.AnswerAt.Time.Format(mailDateFormat),
		},
	})
}

type answerMailData struct {
	StudentName string
	Question    string
	Answer      string
	AnswerAt    string
}
