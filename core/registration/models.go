package registration

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gympoint/backend/core"
)

type (
	// Registration ties a student to a plan for a date interval at a total
	// price. EndDate and Price are always derived server-side from the plan:
	// EndDate = StartDate + Duration months, Price = Duration * monthly price.
	Registration struct {
		ID        int       `json:"id"`
		StudentID int       `json:"student_id"`
		PlanID    int       `json:"plan_id"`
		StartDate time.Time `json:"start_date"` // UTC
		EndDate   time.Time `json:"end_date"`   // UTC, derived
		Price     float64   `json:"price"`      // derived
		CreatedAt time.Time `json:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at"` // UTC
	}

	StudentRef struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	PlanRef struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}

	// Entry is a Registration listing row joined with its student and plan.
	Entry struct {
		ID        int        `json:"id"`
		StartDate time.Time  `json:"start_date"`
		EndDate   time.Time  `json:"end_date"`
		Price     float64    `json:"price"`
		Student   StudentRef `json:"student"`
		Plan      PlanRef    `json:"plan"`
	}
)

// IsActiveAt reports whether the registration interval covers t.
func (r Registration) IsActiveAt(t time.Time) bool {
	return !r.StartDate.After(t) && !r.EndDate.Before(t)
}

// NewRegistration contains information needed to enroll a student on a plan.
// It doubles as the update payload: a registration update is a full replace.
type NewRegistration struct {
	StudentID int       `json:"student_id" validate:"required"`
	PlanID    int       `json:"plan_id" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
}

func (nr *NewRegistration) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}

// QueryFilter filters Registration listings.
// Search does a case-insensitive substring match on the student's name.
type QueryFilter struct {
	Search string `query:"q"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if qf.Page < 1 {
		qf.Page = 1
	}
	if qf.Limit < 1 {
		qf.Limit = 20
	}
}
