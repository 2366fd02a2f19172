package handlers

import (
	"net/http"
	"testing"

	"github.com/jrondan/sufragio/middleware"
	"github.com/jrondan/sufragio/models"
	"github.com/jrondan/sufragio/session"
	"github.com/jrondan/sufragio/testutil"
)

var superCreds = session.Credentials{Email: "superadmin@elecciones.pe", Password: "super-pass"}

func superMux(store *testutil.FakeStore) *http.ServeMux {
	events := session.NewEventLog(0)
	auth := session.New("superadmin", superCreds, "test-secret", session.NewMemoryRegistry())
	h := NewSuperAdminHandler(auth, store, events, nil)

	guard := func(fn http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireToken(auth, events, "superadmin_access", fn)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /superadmin/login", h.Login)
	mux.HandleFunc("GET /superadmin/verify", h.Verify)
	mux.HandleFunc("GET /superadmin/migration/export", guard(h.Export))
	mux.HandleFunc("GET /superadmin/audit/security", guard(h.SecurityAudit))
	return mux
}

func loginSuper(t *testing.T, mux *http.ServeMux) string {
	t.Helper()
	rec := testutil.MakeRequest(t, mux, "POST", "/superadmin/login", models.LoginRequest{
		Email: superCreds.Email, Password: superCreds.Password,
	})
	testutil.AssertStatus(t, rec, http.StatusOK)
	var body models.LoginResponse
	testutil.AssertJSON(t, rec, &body)
	return body.Token
}

func TestSuperAdminExport(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SeedVoter(models.Voter{DNI: "12345678", FullName: "Ana Torres"})
	store.SeedCandidate(models.Candidate{ID: "c1", Name: "One", Category: "regional"})
	id := "c1"
	store.SeedVote(models.Vote{ID: "v1", VoterDNI: "12345678", CandidateID: &id, Category: "regional"})

	mux := superMux(store)

	rec := testutil.MakeRequest(t, mux, "GET", "/superadmin/migration/export", nil)
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)

	token := loginSuper(t, mux)
	rec = testutil.MakeAuthRequest(t, mux, "GET", "/superadmin/migration/export", token, nil)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var body struct {
		Success    bool               `json:"success"`
		Voters     []models.Voter     `json:"voters"`
		Candidates []models.Candidate `json:"candidates"`
		VoteCount  int                `json:"voteCount"`
	}
	testutil.AssertJSON(t, rec, &body)
	if len(body.Voters) != 1 || len(body.Candidates) != 1 || body.VoteCount != 1 {
		t.Errorf("export = %+v", body)
	}
}

func TestSuperAdminSecurityAudit(t *testing.T) {
	mux := superMux(testutil.NewFakeStore())

	// One failed and one successful login land in the trail
	testutil.MakeRequest(t, mux, "POST", "/superadmin/login", models.LoginRequest{
		Email: superCreds.Email, Password: "wrong",
	})
	token := loginSuper(t, mux)

	rec := testutil.MakeAuthRequest(t, mux, "GET", "/superadmin/audit/security", token, nil)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var body struct {
		Success bool                    `json:"success"`
		Events  []session.SecurityEvent `json:"events"`
		Count   int                     `json:"count"`
	}
	testutil.AssertJSON(t, rec, &body)
	if body.Count != 2 {
		t.Fatalf("count = %d, want 2", body.Count)
	}
	if body.Events[0].Status != "success" || body.Events[1].Status != "failed" {
		t.Errorf("events out of order: %+v", body.Events)
	}
}

func TestSecurityAuditIncludesRejectedAccess(t *testing.T) {
	mux := superMux(testutil.NewFakeStore())

	rec := testutil.MakeRequest(t, mux, "GET", "/superadmin/migration/export", nil)
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)

	token := loginSuper(t, mux)
	rec = testutil.MakeAuthRequest(t, mux, "GET", "/superadmin/audit/security", token, nil)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var body struct {
		Success bool                    `json:"success"`
		Events  []session.SecurityEvent `json:"events"`
		Count   int                     `json:"count"`
	}
	testutil.AssertJSON(t, rec, &body)
	if body.Count != 2 {
		t.Fatalf("count = %d, want 2", body.Count)
	}
	// Newest first: the successful login, then the rejected access.
	if body.Events[1].Action != "superadmin_access" || body.Events[1].Status != "failed" {
		t.Errorf("rejected access not in trail: %+v", body.Events)
	}
}
