package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/tenderdesk/tenderdesk/internal/llm"
	"github.com/tenderdesk/tenderdesk/internal/sqlite"
)

type mockProvider struct {
	chatResponse string
	chatCalls    int
	lastMessages []llm.Message
}

func (m *mockProvider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	m.chatCalls++
	m.lastMessages = append([]llm.Message(nil), messages...)
	if m.chatResponse == "" {
		return "mock-draft", nil
	}
	return m.chatResponse, nil
}

func (m *mockProvider) Name() string {
	return "mock"
}

const testToken = "test-token"

func newTestServer(t *testing.T) (*httptest.Server, *mockProvider) {
	t.Helper()
	store, err := sqlite.OpenWithConfig(sqlite.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if err := store.InsertCompany(ctx, &sqlite.Company{ID: "co-1", Name: "Acme Builders"}); err != nil {
		t.Fatalf("insert company: %v", err)
	}
	if err := store.InsertUser(ctx, &sqlite.User{
		ID: "user-1", CompanyID: "co-1", Name: "Pat", Email: "pat@acme.test", APIToken: testToken,
	}); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	provider := &mockProvider{}
	srv, err := NewServer(store, provider)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, provider
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type proposalPayload struct {
	ID                   string  `json:"id"`
	Status               string  `json:"status"`
	Version              int64   `json:"version"`
	Title                string  `json:"title"`
	ConvertedToProjectID *string `json:"converted_to_project_id"`
}

type errorPayload struct {
	Kind              string `json:"kind"`
	Error             string `json:"error"`
	Field             string `json:"field"`
	FromStatus        string `json:"from_status"`
	ToStatus          string `json:"to_status"`
	ExistingProjectID string `json:"existing_project_id"`
}

func createTestProposal(t *testing.T, ts *httptest.Server) proposalPayload {
	t.Helper()
	var created proposalPayload
	status := doJSON(t, ts, http.MethodPost, "/v1/proposals", testToken,
		map[string]interface{}{"title": "Bridge tender"}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create proposal: status %d", status)
	}
	return created
}

func transitionTest(t *testing.T, ts *httptest.Server, id, target string) (int, proposalPayload, errorPayload) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/proposals/"+id+"/transition",
		bytes.NewReader([]byte(fmt.Sprintf(`{"status":%q}`, target))))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	defer resp.Body.Close()
	var p proposalPayload
	var e errorPayload
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			t.Fatalf("decode proposal: %v", err)
		}
	} else {
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			t.Fatalf("decode error: %v", err)
		}
	}
	return resp.StatusCode, p, e
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	ts, _ := newTestServer(t)
	status := doJSON(t, ts, http.MethodGet, "/v1/proposals", "", nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("missing token: status %d, want 401", status)
	}
	status = doJSON(t, ts, http.MethodGet, "/v1/proposals", "bogus", nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("unknown token: status %d, want 401", status)
	}
}

func TestProposalLifecycleOverHTTP(t *testing.T) {
	ts, _ := newTestServer(t)
	created := createTestProposal(t, ts)
	if created.Status != "draft" || created.Version != 1 {
		t.Fatalf("unexpected created proposal: %#v", created)
	}

	status, updated, _ := transitionTest(t, ts, created.ID, "pending")
	if status != http.StatusOK {
		t.Fatalf("transition to pending: status %d", status)
	}
	if updated.Status != "pending" || updated.Version != 2 {
		t.Errorf("unexpected proposal after transition: %#v", updated)
	}

	// Re-requesting the current status is an error, not a no-op.
	status, _, errBody := transitionTest(t, ts, created.ID, "pending")
	if status != http.StatusBadRequest {
		t.Errorf("repeat transition: status %d, want 400", status)
	}
	if errBody.Kind != "invalid_transition" {
		t.Errorf("repeat transition kind = %q", errBody.Kind)
	}

	status, _, errBody = transitionTest(t, ts, created.ID, "archived")
	if status != http.StatusBadRequest {
		t.Errorf("unknown status: status %d, want 400", status)
	}
	if errBody.Kind != "validation" {
		t.Errorf("unknown status kind = %q, want validation", errBody.Kind)
	}

	status, _, errBody = transitionTest(t, ts, created.ID, "won")
	if status != http.StatusBadRequest {
		t.Errorf("illegal edge: status %d, want 400", status)
	}
	if errBody.Kind != "invalid_transition" || errBody.FromStatus != "pending" || errBody.ToStatus != "won" {
		t.Errorf("illegal edge error should name both states: %#v", errBody)
	}

	status, _, _ = transitionTest(t, ts, "does-not-exist", "pending")
	if status != http.StatusNotFound {
		t.Errorf("missing proposal: status %d, want 404", status)
	}

	var history struct {
		ProposalID    string `json:"proposal_id"`
		CurrentStatus string `json:"current_status"`
		History       []struct {
			FromStatus *string `json:"from_status"`
			ToStatus   string  `json:"to_status"`
			ChangedBy  string  `json:"changed_by"`
		} `json:"history"`
	}
	status = doJSON(t, ts, http.MethodGet, "/v1/proposals/"+created.ID+"/history", testToken, nil, &history)
	if status != http.StatusOK {
		t.Fatalf("history: status %d", status)
	}
	if history.CurrentStatus != "pending" {
		t.Errorf("current_status = %q, want pending", history.CurrentStatus)
	}
	if len(history.History) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(history.History))
	}
	if history.History[0].ToStatus != "pending" {
		t.Errorf("newest entry to_status = %q, want pending", history.History[0].ToStatus)
	}
	if history.History[1].FromStatus != nil {
		t.Errorf("creation entry from_status should be null")
	}
}

func TestConvertOverHTTP(t *testing.T) {
	ts, _ := newTestServer(t)
	created := createTestProposal(t, ts)

	// Conversion requires won status.
	var errBody errorPayload
	status := doJSON(t, ts, http.MethodPost, "/v1/proposals/"+created.ID+"/convert", testToken,
		map[string]interface{}{"project_name": "Project X", "description": "desc"}, &errBody)
	if status != http.StatusBadRequest {
		t.Fatalf("convert draft: status %d, want 400", status)
	}
	if errBody.Kind != "validation" || errBody.Field != "status" {
		t.Errorf("convert draft error: %#v", errBody)
	}

	for _, target := range []string{"pending", "submitted", "won"} {
		if status, _, _ := transitionTest(t, ts, created.ID, target); status != http.StatusOK {
			t.Fatalf("transition to %s: status %d", target, status)
		}
	}

	// Bad date order is rejected before anything is written.
	status = doJSON(t, ts, http.MethodPost, "/v1/proposals/"+created.ID+"/convert", testToken,
		map[string]interface{}{
			"project_name": "Project X",
			"description":  "desc",
			"start_date":   "2025-12-31",
			"end_date":     "2025-01-01",
		}, &errBody)
	if status != http.StatusBadRequest {
		t.Fatalf("bad dates: status %d, want 400", status)
	}
	if errBody.Field != "end_date" {
		t.Errorf("bad dates error should name end_date: %#v", errBody)
	}

	var result struct {
		Project struct {
			ID               string  `json:"id"`
			SourceProposalID *string `json:"source_proposal_id"`
		} `json:"project"`
		Proposal proposalPayload `json:"proposal"`
		Warning  string          `json:"warning"`
	}
	status = doJSON(t, ts, http.MethodPost, "/v1/proposals/"+created.ID+"/convert", testToken,
		map[string]interface{}{"project_name": "Project X", "description": "desc"}, &result)
	if status != http.StatusOK {
		t.Fatalf("convert: status %d", status)
	}
	if result.Warning != "" {
		t.Errorf("first conversion should not warn: %q", result.Warning)
	}
	if result.Project.SourceProposalID == nil || *result.Project.SourceProposalID != created.ID {
		t.Errorf("project should link back to proposal: %#v", result.Project)
	}
	if result.Proposal.Status != "won" {
		t.Errorf("conversion must not change status, got %q", result.Proposal.Status)
	}
	if result.Proposal.ConvertedToProjectID == nil || *result.Proposal.ConvertedToProjectID != result.Project.ID {
		t.Errorf("proposal should link the project: %#v", result.Proposal)
	}

	// Second non-forced attempt: 409 carrying the existing project.
	status = doJSON(t, ts, http.MethodPost, "/v1/proposals/"+created.ID+"/convert", testToken,
		map[string]interface{}{"project_name": "Project X", "description": "desc"}, &errBody)
	if status != http.StatusConflict {
		t.Fatalf("duplicate convert: status %d, want 409", status)
	}
	if errBody.Kind != "already_converted" || errBody.ExistingProjectID != result.Project.ID {
		t.Errorf("duplicate convert error: %#v", errBody)
	}

	// Forced attempt: succeeds with a warning and a fresh project.
	var forced struct {
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
		Warning string `json:"warning"`
	}
	status = doJSON(t, ts, http.MethodPost, "/v1/proposals/"+created.ID+"/convert", testToken,
		map[string]interface{}{"project_name": "Project X", "description": "desc", "force": true}, &forced)
	if status != http.StatusOK {
		t.Fatalf("forced convert: status %d", status)
	}
	if forced.Warning == "" {
		t.Errorf("forced duplicate conversion should warn")
	}
	if forced.Project.ID == result.Project.ID {
		t.Errorf("forced conversion should create a distinct project")
	}

	var projects struct {
		Projects []struct {
			ID string `json:"id"`
		} `json:"projects"`
	}
	status = doJSON(t, ts, http.MethodGet, "/v1/projects", testToken, nil, &projects)
	if status != http.StatusOK {
		t.Fatalf("list projects: status %d", status)
	}
	if len(projects.Projects) != 2 {
		t.Errorf("expected 2 projects, got %d", len(projects.Projects))
	}
}

func TestVersionGuardedUpdateOverHTTP(t *testing.T) {
	ts, _ := newTestServer(t)
	created := createTestProposal(t, ts)

	var updated proposalPayload
	status := doJSON(t, ts, http.MethodPut, "/v1/proposals/"+created.ID, testToken,
		map[string]interface{}{"title": "Bridge tender v2", "version": created.Version}, &updated)
	if status != http.StatusOK {
		t.Fatalf("update: status %d", status)
	}
	if updated.Title != "Bridge tender v2" || updated.Version != created.Version+1 {
		t.Errorf("unexpected updated proposal: %#v", updated)
	}

	var errBody errorPayload
	status = doJSON(t, ts, http.MethodPut, "/v1/proposals/"+created.ID, testToken,
		map[string]interface{}{"title": "stale", "version": created.Version}, &errBody)
	if status != http.StatusConflict {
		t.Errorf("stale update: status %d, want 409", status)
	}
	if errBody.Kind != "conflict" {
		t.Errorf("stale update kind = %q", errBody.Kind)
	}

	status = doJSON(t, ts, http.MethodPut, "/v1/proposals/"+created.ID, testToken,
		map[string]interface{}{"title": "no version"}, &errBody)
	if status != http.StatusBadRequest {
		t.Errorf("missing version: status %d, want 400", status)
	}
	if errBody.Field != "version" {
		t.Errorf("missing version error should name the field: %#v", errBody)
	}
}

func TestDraftEndpoint(t *testing.T) {
	ts, provider := newTestServer(t)
	created := createTestProposal(t, ts)

	provider.chatResponse = "An executive summary draft."
	var draft struct {
		ProposalID string `json:"proposal_id"`
		Section    string `json:"section"`
		Draft      string `json:"draft"`
		Provider   string `json:"provider"`
	}
	status := doJSON(t, ts, http.MethodPost, "/v1/proposals/"+created.ID+"/draft", testToken,
		map[string]interface{}{"section": "executive summary", "guidance": "emphasise safety record"}, &draft)
	if status != http.StatusOK {
		t.Fatalf("draft: status %d", status)
	}
	if draft.Draft != "An executive summary draft." || draft.Provider != "mock" {
		t.Errorf("unexpected draft response: %#v", draft)
	}
	if provider.chatCalls != 1 {
		t.Errorf("provider should be called once, got %d", provider.chatCalls)
	}
	if len(provider.lastMessages) != 2 || provider.lastMessages[0].Role != "system" {
		t.Errorf("unexpected prompt shape: %#v", provider.lastMessages)
	}

	status = doJSON(t, ts, http.MethodPost, "/v1/proposals/"+created.ID+"/draft", testToken,
		map[string]interface{}{"guidance": "no section"}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("missing section: status %d, want 400", status)
	}
}

func TestCompanyEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	var company struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	status := doJSON(t, ts, http.MethodGet, "/v1/company", testToken, nil, &company)
	if status != http.StatusOK {
		t.Fatalf("get company: status %d", status)
	}
	if company.ID != "co-1" || company.Name != "Acme Builders" {
		t.Errorf("unexpected company: %#v", company)
	}

	var member struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	status = doJSON(t, ts, http.MethodPost, "/v1/company/members", testToken,
		map[string]interface{}{"name": "Sam", "role": "Estimator"}, &member)
	if status != http.StatusCreated {
		t.Fatalf("create member: status %d", status)
	}

	var members struct {
		Members []struct {
			Name string `json:"name"`
		} `json:"members"`
	}
	status = doJSON(t, ts, http.MethodGet, "/v1/company/members", testToken, nil, &members)
	if status != http.StatusOK {
		t.Fatalf("list members: status %d", status)
	}
	if len(members.Members) != 1 || members.Members[0].Name != "Sam" {
		t.Errorf("unexpected members: %#v", members.Members)
	}
}
