package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gympoint/backend/core/helporder"
	"github.com/gympoint/backend/core/notification"
	"github.com/gympoint/backend/core/student"
)

func Test_notificationApi(t *testing.T) {
	env := newTestEnv(t)
	adminToken := getToken(t, env.createUser(t, "Admin", "admin@gympoint.dev", true))
	staffToken := getToken(t, env.createUser(t, "Staff", "staff@gympoint.dev", false))
	ctx := context.Background()

	std, err := env.studentSvc.Create(ctx, student.NewStudent{
		Name: "Jane Doe", Email: "jane@example.com", Age: 25, Weight: 72.5, Height: 178,
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if _, err = env.helpOrderSvc.Create(ctx, std.ID, helporder.NewHelpOrder{Question: "Hello?"}); err != nil {
		t.Fatalf("Create(): %v", err)
	}

	notifs, err := env.notificationSvc.QueryLatest(ctx)
	if err != nil {
		t.Fatalf("QueryLatest(): %v", err)
	}
	if len(notifs) != 1 {
		t.Fatalf("got %d notifications; want 1", len(notifs))
	}

	runHTTPTests(t, env, []httpTest{
		{name: "Auth required", path: "/notifications", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/notifications", token: staffToken,
			wantCode: http.StatusForbidden, wantData: marshalObj(t, errForbidden),
		},
		// the feed is a plain array, not the pagination envelope
		{name: "Latest", path: "/notifications", token: adminToken, wantData: marshalObj(t, notifs)},
		{
			name: "Mark unknown read", method: http.MethodPut, path: "/notifications/404", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "Notification does not exist."}),
		},
	})

	// mark read
	req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/notifications/%d", notifs[0].ID), adminToken)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark read failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var n notification.Notification
	if err = json.Unmarshal(rec.Body.Bytes(), &n); err != nil {
		t.Fatalf("unmarshalling Notification: %v", err)
	}
	if !n.Read {
		t.Errorf("notification not marked read: %+v", n)
	}
}
