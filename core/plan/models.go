package plan

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/gympoint/backend/core"
)

// Plan is a membership plan: a title, a duration in months and a monthly price.
// Soft-deleted plans keep their row so historical registrations stay resolvable.
type Plan struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Duration  int       `json:"duration"` // months
	Price     float64   `json:"price"`    // monthly price
	DeletedAt null.Time `json:"-"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (p Plan) IsDeleted() bool { return p.DeletedAt.Valid }

// NewPlan contains information needed to create a new Plan.
type NewPlan struct {
	Title    string  `json:"title" validate:"required"`
	Duration int     `json:"duration" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

func (np *NewPlan) Validate(validate *validator.Validate, svc ServiceInterface) error {
	np.Title = core.CleanString(np.Title)
	if err := validate.Struct(np); err != nil {
		return err
	}
	return svc.CheckTitleUniqueness(np.Title)
}

// UpdatePlan defines what information may be provided to modify an existing Plan.
// All fields are required: the resource is replaced, as in a PUT.
type UpdatePlan struct {
	Title    string  `json:"title" validate:"required"`
	Duration int     `json:"duration" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

func (up *UpdatePlan) Validate(origPlan Plan, validate *validator.Validate, svc ServiceInterface) error {
	up.Title = core.CleanString(up.Title)
	if err := validate.Struct(up); err != nil {
		return err
	}
	return svc.CheckTitleUniqueness(up.Title, origPlan)
}

// QueryFilter filters Plan listings.
// Search does a case-insensitive substring match on Plan.Title.
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
		qf.Limit = 5
	}
}
