package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/plan"
	"github.com/gympoint/backend/core/registration"
	"github.com/gympoint/backend/core/student"
	emailsvc "github.com/gympoint/backend/services/email"
)

func Test_registrationApi_create(t *testing.T) {
	env := newTestEnv(t)
	token := getToken(t, env.createUser(t, "Admin", "admin@gympoint.dev", true))
	ctx := context.Background()

	pl, err := env.planSvc.Create(ctx, plan.NewPlan{Title: "Gold", Duration: 3, Price: 109})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	std, err := env.studentSvc.Create(ctx, student.NewStudent{
		Name: "Jane Doe", Email: "jane@example.com", Age: 25, Weight: 72.5, Height: 178,
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	body := []byte(`{"student_id":1,"plan_id":1,"start_date":"2021-03-02T00:00:00Z"}`)

	req, rec := newAuthRequest(http.MethodPost, "/registrations", token, body)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var reg registration.Registration
	if err = json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
		t.Fatalf("unmarshalling Registration: %v", err)
	}
	if reg.StudentID != std.ID || reg.PlanID != pl.ID {
		t.Errorf("unexpected registration: %+v", reg)
	}
	if want := reg.StartDate.AddDate(0, 3, 0); !reg.EndDate.Equal(want) {
		t.Errorf("end_date = %v; want %v", reg.EndDate, want)
	}
	if reg.Price != 327 {
		t.Errorf("price = %v; want 327", reg.Price)
	}

	// the confirmation mail was rendered and sent
	sent := emailsvc.GetSentMessages()
	if len(sent) != 1 {
		t.Fatalf("sent %d mails; want 1", len(sent))
	}
	msg := sent[0]
	if msg.Subject != "Enrollment confirmed" {
		t.Errorf("subject = %v", msg.Subject)
	}
	if len(msg.To) != 1 || msg.To[0].Address != "jane@example.com" {
		t.Errorf("unexpected recipients: %v", msg.To)
	}
	for _, want := range []string{"Jane Doe", "Gold"} {
		if !strings.Contains(msg.TextContent, want) {
			t.Errorf("mail text missing %q", want)
		}
	}

	runHTTPTests(t, env, []httpTest{
		{name: "Auth required", path: "/registrations", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "Past date rejected", method: http.MethodPost, path: "/registrations", token: token,
			body:     []byte(`{"student_id":1,"plan_id":1,"start_date":"2021-02-01T00:00:00Z"}`),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "Past dates are not permitted."}),
		},
		{
			name: "Unknown plan", method: http.MethodPost, path: "/registrations", token: token,
			body:     []byte(`{"student_id":1,"plan_id":404,"start_date":"2021-03-02T00:00:00Z"}`),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "Plan does not exist."}),
		},
		{
			name: "Missing fields", method: http.MethodPost, path: "/registrations", token: token,
			body: []byte(`{"student_id":1}`), wantCode: http.StatusBadRequest, wantData: marshalObj(t, errValidation),
		},
	})
}

func Test_registrationApi_query(t *testing.T) {
	env := newTestEnv(t)
	token := getToken(t, env.createUser(t, "Admin", "admin@gympoint.dev", true))
	ctx := context.Background()

	pl, err := env.planSvc.Create(ctx, plan.NewPlan{Title: "Gold", Duration: 3, Price: 109})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	std, err := env.studentSvc.Create(ctx, student.NewStudent{
		Name: "Jane Doe", Email: "jane@example.com", Age: 25, Weight: 72.5, Height: 178,
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if _, err = env.registrationSvc.Create(ctx, registration.NewRegistration{
		StudentID: std.ID, PlanID: pl.ID, StartDate: frozenNow,
	}); err != nil {
		t.Fatalf("Create(): %v", err)
	}

	entries, total, err := env.registrationSvc.Filter(ctx, registration.QueryFilter{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("Filter(): %v", err)
	}
	page := marshalObj(t, core.Paginate(entries, total, 20, 1))

	runHTTPTests(t, env, []httpTest{
		{name: "List", path: "/registrations", token: token, wantData: page},
		// /enrollments is the legacy path of the same listing
		{name: "Legacy list", path: "/enrollments", token: token, wantData: page},
		{
			name: "Search by student name", path: "/registrations?q=jane", token: token,
			wantData: page,
		},
		{
			name: "Search miss", path: "/registrations?q=nobody", token: token,
			wantData: marshalObj(t, core.Paginate([]registration.Entry{}, 0, 20, 1)),
		},
	})
}

func Test_registrationApi_quote(t *testing.T) {
	env := newTestEnv(t)
	token := getToken(t, env.createUser(t, "Admin", "admin@gympoint.dev", true))
	ctx := context.Background()

	if _, err := env.planSvc.Create(ctx, plan.NewPlan{Title: "Gold", Duration: 3, Price: 109}); err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if _, err := env.studentSvc.Create(ctx, student.NewStudent{
		Name: "Jane Doe", Email: "jane@example.com", Age: 25, Weight: 72.5, Height: 178,
	}); err != nil {
		t.Fatalf("Create(): %v", err)
	}

	runHTTPTests(t, env, []httpTest{
		{
			name: "Quote", method: http.MethodPost, path: "/enrollments", token: token,
			body:     []byte(`{"student_id":1,"plan_id":1,"start_date":"2021-03-02T00:00:00Z"}`),
			wantData: []byte(`{"price":327}`),
		},
	})

	// quoting persists nothing and sends no mail
	_, total, err := env.registrationSvc.Filter(ctx, registration.QueryFilter{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("Filter(): %v", err)
	}
	if total != 0 {
		t.Errorf("total = %v; want 0", total)
	}
	if sent := emailsvc.GetSentMessages(); len(sent) != 0 {
		t.Errorf("sent %d mails; want 0", len(sent))
	}
}
