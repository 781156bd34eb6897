package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gympoint/backend/core/helporder"
	"github.com/gympoint/backend/core/student"
	emailsvc "github.com/gympoint/backend/services/email"
)

func Test_helpOrderApi(t *testing.T) {
	env := newTestEnv(t)
	token := getToken(t, env.createUser(t, "Admin", "admin@gympoint.dev", true))
	ctx := context.Background()

	std, err := env.studentSvc.Create(ctx, student.NewStudent{
		Name: "Jane Doe", Email: "jane@example.com", Age: 25, Weight: 72.5, Height: 178,
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	studentPath := fmt.Sprintf("/students/%d/help-order", std.ID)

	// ask
	req, rec := newAuthRequest(http.MethodPost, studentPath, token,
		[]byte(`{"question":"Can I freeze my plan?"}`))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var ho helporder.HelpOrder
	if err = json.Unmarshal(rec.Body.Bytes(), &ho); err != nil {
		t.Fatalf("unmarshalling HelpOrder: %v", err)
	}
	if ho.StudentID != std.ID || ho.IsAnswered() {
		t.Errorf("unexpected help order: %+v", ho)
	}

	// it shows up on the admin view of open questions
	req, rec = newAuthRequest(http.MethodGet, "/help-orders", token)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("listing failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Can I freeze my plan?") {
		t.Errorf("open questions missing the new help order: %v", rec.Body.String())
	}

	// answer
	answerPath := fmt.Sprintf("/help-orders/%d/answer", ho.ID)
	req, rec = newAuthRequest(http.MethodPost, answerPath, token,
		[]byte(`{"answer":"Yes, up to 30 days."}`))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("answer failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var answered helporder.HelpOrder
	if err = json.Unmarshal(rec.Body.Bytes(), &answered); err != nil {
		t.Fatalf("unmarshalling HelpOrder: %v", err)
	}
	if !answered.IsAnswered() || answered.Answer.String != "Yes, up to 30 days." {
		t.Errorf("unexpected help order: %+v", answered)
	}

	// the asker got mail
	sent := emailsvc.GetSentMessages()
	if len(sent) != 1 {
		t.Fatalf("sent %d mails; want 1", len(sent))
	}
	if sent[0].Subject != "Your question was answered" {
		t.Errorf("subject = %v", sent[0].Subject)
	}
	if !strings.Contains(sent[0].TextContent, "Yes, up to 30 days.") {
		t.Errorf("mail text missing the answer: %v", sent[0].TextContent)
	}

	runHTTPTests(t, env, []httpTest{
		{name: "Auth required", path: "/help-orders", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "Question required", method: http.MethodPost, path: studentPath, token: token,
			body: []byte(`{}`), wantCode: http.StatusBadRequest, wantData: marshalObj(t, errValidation),
		},
		{
			name: "Unknown student", method: http.MethodPost, path: "/students/404/help-order", token: token,
			body:     []byte(`{"question":"Anyone?"}`),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "Student does not exist."}),
		},
		{
			name: "Answering is one-way", method: http.MethodPost, path: answerPath, token: token,
			body:     []byte(`{"answer":"Actually no."}`),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "Help order already answered."}),
		},
		{
			name: "Unknown help order", method: http.MethodPost, path: "/help-orders/404/answer", token: token,
			body:     []byte(`{"answer":"Yes."}`),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "Help order does not exist."}),
		},
	})
}
