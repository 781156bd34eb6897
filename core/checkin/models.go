package checkin

import "time"

// Checkin is a single gym visit. Rows are immutable once created.
type Checkin struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// QueryFilter filters a student's check-in history.
type QueryFilter struct {
	StudentID int
	Page      int `query:"page"`
	Limit     int `query:"limit"`
}

func (qf *QueryFilter) Clean() {
	if qf.Page < 1 {
		qf.Page = 1
	}
	if qf.Limit < 1 {
		qf.Limit = 20
	}
}
