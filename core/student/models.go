package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/gympoint/backend/core"
)

type (
	// File is an uploaded avatar reference. Upload transport lives outside
	// this module; only the stored reference is modeled.
	File struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Path string `json:"path"`
	}

	Student struct {
		ID        int       `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Age       int       `json:"age"`
		Weight    float64   `json:"weight"` // kg
		Height    float64   `json:"height"` // cm
		AvatarID  null.Int  `json:"-"`
		Avatar    *File     `json:"avatar,omitempty"`
		CreatedAt time.Time `json:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at"` // UTC
	}
)

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Name   string  `json:"name" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Age    int     `json:"age" validate:"required,gt=0"`
	Weight float64 `json:"weight" validate:"required,gt=0"`
	Height float64 `json:"height" validate:"required,gt=0"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc ServiceInterface) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ns.Email)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name   string  `json:"name" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Age    int     `json:"age" validate:"required,gt=0"`
	Weight float64 `json:"weight" validate:"required,gt=0"`
	Height float64 `json:"height" validate:"required,gt=0"`
}

func (us *UpdateStudent) Validate(origStd Student, validate *validator.Validate, svc ServiceInterface) error {
	us.Name = core.CleanString(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	if err := validate.Struct(us); err != nil {
		return err
	}
	// keeping one's own email is not a collision
	return svc.CheckEmailUniqueness(us.Email, origStd)
}

// QueryFilter filters Student listings.
// Search does a case-insensitive substring match on Student.Name or Student.Email.
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
