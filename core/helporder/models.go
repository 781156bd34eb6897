package helporder

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/gympoint/backend/core"
)

type (
	// HelpOrder is a student's support question. It transitions exactly once,
	// from unanswered to answered; the answer is never edited afterwards.
	HelpOrder struct {
		ID        int         `json:"id"`
		StudentID int         `json:"student_id"`
		Question  string      `json:"question"`
		Answer    null.String `json:"answer"`
		AnswerAt  null.Time   `json:"answer_at"`
		CreatedAt time.Time   `json:"created_at"` // UTC
		UpdatedAt time.Time   `json:"updated_at"` // UTC
	}

	StudentRef struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	// Entry is a HelpOrder listing row joined with its student, used by the
	// admin view of unanswered orders.
	Entry struct {
		ID        int         `json:"id"`
		Question  string      `json:"question"`
		Answer    null.String `json:"answer"`
		AnswerAt  null.Time   `json:"answer_at"`
		CreatedAt time.Time   `json:"created_at"`
		Student   StudentRef  `json:"student"`
	}
)

func (ho HelpOrder) IsAnswered() bool { return ho.Answer.Valid }

// NewHelpOrder contains the question a student asks.
type NewHelpOrder struct {
	Question string `json:"question" validate:"required"`
}

func (nh *NewHelpOrder) Validate(validate *validator.Validate) error {
	nh.Question = core.CleanString(nh.Question)
	return validate.Struct(nh)
}

// NewAnswer contains an admin's answer to a help order.
type NewAnswer struct {
	Answer string `json:"answer" validate:"required"`
}

func (na *NewAnswer) Validate(validate *validator.Validate) error {
	na.Answer = core.CleanString(na.Answer)
	return validate.Struct(na)
}

// QueryFilter filters HelpOrder listings.
type QueryFilter struct {
	StudentID  int // 0 = any student
	Unanswered bool
	Page       int `query:"page"`
	Limit      int `query:"limit"`
}

func (qf *QueryFilter) Clean() {
	if qf.Page < 1 {
		qf.Page = 1
	}
	if qf.Limit < 1 {
		qf.Limit = 20
	}
}
