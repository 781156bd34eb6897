// Package inmem provides map-backed implementations of the domain
// repositories for tests and local experimentation. Repositories ignore the
// optional DBExecutor argument; the Transactor serializes transactional
// sections with a mutex instead.
package inmem

import (
	"context"
	"sync"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/checkin"
	"github.com/gympoint/backend/core/helporder"
	"github.com/gympoint/backend/core/notification"
	"github.com/gympoint/backend/core/plan"
	"github.com/gympoint/backend/core/registration"
	"github.com/gympoint/backend/core/student"
	"github.com/gympoint/backend/core/user"
)

type DB struct {
	mu sync.RWMutex

	plans   map[int]plan.Plan
	planSeq int

	students   map[int]student.Student
	studentSeq int

	files   map[int]student.File
	fileSeq int

	registrations   map[int]registration.Registration
	registrationSeq int

	checkins   map[int]checkin.Checkin
	checkinSeq int

	helpOrders   map[int]helporder.HelpOrder
	helpOrderSeq int

	notifications   map[int]notification.Notification
	notificationSeq int

	users   map[int]user.User
	userSeq int
}

func NewDB() *DB {
	return &DB{
		plans:         make(map[int]plan.Plan),
		students:      make(map[int]student.Student),
		files:         make(map[int]student.File),
		registrations: make(map[int]registration.Registration),
		checkins:      make(map[int]checkin.Checkin),
		helpOrders:    make(map[int]helporder.HelpOrder),
		notifications: make(map[int]notification.Notification),
		users:         make(map[int]user.User),
	}
}

// Transactor implements core.Transactor by serializing transactional sections.
// Concurrent check-in attempts thus observe each other's writes, matching the
// row-lock semantics of the postgres backend.
type Transactor struct {
	mu sync.Mutex
}

var _ core.Transactor = (*Transactor)(nil)

func NewTransactor() *Transactor { return &Transactor{} }

func (t *Transactor) RunInTx(_ context.Context, fn func(exec core.DBExecutor) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(nil)
}

// pageBounds clamps a page window to [0, total].
func pageBounds(total, page, limit int) (lo, hi int) {
	lo = (page - 1) * limit
	if lo > total {
		lo = total
	}
	hi = lo + limit
	if hi > total {
		hi = total
	}
	return lo, hi
}
