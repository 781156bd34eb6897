package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	echoapi "github.com/gympoint/backend/apps/api/echo"
)

func Test_sessionApi_create(t *testing.T) {
	env := newTestEnv(t)
	usr := env.createUser(t, "Admin", "admin@gympoint.dev", true)

	errInvalidCreds := marshalObj(t, httpErr{Error: "Invalid credentials."})

	runHTTPTests(t, env, []httpTest{
		{
			name: "Empty body fails validation", method: http.MethodPost, path: "/sessions",
			body: []byte(`{}`), wantCode: http.StatusBadRequest, wantData: marshalObj(t, errValidation),
		},
		{
			name: "Malformed email fails validation", method: http.MethodPost, path: "/sessions",
			body: []byte(`{"email":"not-an-email","password":"Sup3rSecret"}`),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, errValidation),
		},
		{
			name: "Unknown email", method: http.MethodPost, path: "/sessions",
			body: []byte(`{"email":"nobody@gympoint.dev","password":"Sup3rSecret"}`),
			wantCode: http.StatusBadRequest, wantData: errInvalidCreds,
		},
		{
			name: "Wrong password", method: http.MethodPost, path: "/sessions",
			body: []byte(`{"email":"admin@gympoint.dev","password":"wrong"}`),
			wantCode: http.StatusBadRequest, wantData: errInvalidCreds,
		},
	})

	// success: the email is case-folded and the token opens protected routes
	req, rec := newRequest(http.MethodPost, "/sessions",
		[]byte(`{"email":" Admin@GymPoint.dev ","password":"Sup3rSecret"}`))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}

	var res echoapi.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling LoginResponse: %v", err)
	}
	if res.User.ID != usr.ID || res.User.Email != usr.Email || res.User.Name != usr.Name {
		t.Errorf("unexpected user in response: %+v", res.User)
	}
	if res.Token == "" {
		t.Fatal("expected a token")
	}

	req, rec = newAuthRequest(http.MethodGet, "/plans", res.Token)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("token rejected! code = %v; body = %v", rec.Code, rec.Body.String())
	}
}
