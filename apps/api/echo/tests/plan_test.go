package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gympoint/backend/core"
	"github.com/gympoint/backend/core/plan"
)

func Test_planApi_crud(t *testing.T) {
	env := newTestEnv(t)
	token := getToken(t, env.createUser(t, "Admin", "admin@gympoint.dev", true))

	// create
	req, rec := newAuthRequest(http.MethodPost, "/plans", token,
		[]byte(`{"title":"Gold","duration":3,"price":109}`))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var pl plan.Plan
	if err := json.Unmarshal(rec.Body.Bytes(), &pl); err != nil {
		t.Fatalf("unmarshalling Plan: %v", err)
	}
	if pl.ID == 0 || pl.Title != "Gold" || pl.Duration != 3 || pl.Price != 109 {
		t.Errorf("unexpected plan: %+v", pl)
	}

	// update
	req, rec = newAuthRequest(http.MethodPut, fmt.Sprintf("/plans/%d", pl.ID), token,
		[]byte(`{"title":"Gold","duration":6,"price":99}`))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	updated, err := env.planSvc.GetByID(context.Background(), pl.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}

	runHTTPTests(t, env, []httpTest{
		{name: "Auth required", path: "/plans", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "Create requires all fields", method: http.MethodPost, path: "/plans", token: token,
			body: []byte(`{"title":"Half"}`), wantCode: http.StatusBadRequest, wantData: marshalObj(t, errValidation),
		},
		{
			name: "Duplicate title rejected", method: http.MethodPost, path: "/plans", token: token,
			body:     []byte(`{"title":"Gold","duration":1,"price":129}`),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "Plan title already exists."}),
		},
		{name: "Retrieve", path: fmt.Sprintf("/plans/%d", pl.ID), token: token, wantData: marshalObj(t, updated)},
		{
			name: "Retrieve bad id", path: "/plans/nope", token: token,
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "Invalid id."}),
		},
		{
			name: "Update unknown plan", method: http.MethodPut, path: "/plans/404", token: token,
			body:     []byte(`{"title":"Ghost","duration":1,"price":1}`),
			wantCode: http.StatusBadRequest, wantData: marshalObj(t, httpErr{Error: "Plan does not exist."}),
		},
		{
			name: "Delete", method: http.MethodDelete, path: fmt.Sprintf("/plans/%d", pl.ID), token: token,
			wantCode: http.StatusNoContent, wantData: []byte{},
		},
		{
			name: "Deleted plan leaves listings", path: "/plans", token: token,
			wantData: marshalObj(t, core.Paginate([]plan.Plan{}, 0, 5, 1)),
		},
	})
}

func Test_planApi_pagination(t *testing.T) {
	env := newTestEnv(t)
	token := getToken(t, env.createUser(t, "Admin", "admin@gympoint.dev", true))
	ctx := context.Background()

	plans := make([]plan.Plan, 0, 7)
	for i := 0; i < 7; i++ {
		pl, err := env.planSvc.Create(ctx, plan.NewPlan{
			Title: fmt.Sprintf("Plan %d", i+1), Duration: i + 1, Price: 100,
		})
		if err != nil {
			t.Fatalf("Create(): %v", err)
		}
		plans = append(plans, pl)
	}

	runHTTPTests(t, env, []httpTest{
		{
			name: "Default page", path: "/plans", token: token,
			wantData: marshalObj(t, core.Paginate(plans[:5], 7, 5, 1)),
		},
		{
			name: "Last page", path: "/plans?page=2&limit=5", token: token,
			wantData: marshalObj(t, core.Paginate(plans[5:], 7, 5, 2)),
		},
		{
			name: "Page past the end", path: "/plans?page=4&limit=5", token: token,
			wantData: marshalObj(t, core.Paginate([]plan.Plan{}, 7, 5, 4)),
		},
		{
			name: "Search", path: "/plans?q=plan+7", token: token,
			wantData: marshalObj(t, core.Paginate(plans[6:], 1, 5, 1)),
		},
	})
}
