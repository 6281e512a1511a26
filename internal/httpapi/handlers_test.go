package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"timetrack.org/internal/auth"
	"timetrack.org/internal/config"
	"timetrack.org/internal/ids"
	"timetrack.org/internal/tracker"
)

const testHashCost = 4

type apiClient struct {
	baseURL string
	client  *http.Client
	store   *tracker.InMemory
	t       *testing.T
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()

	store := tracker.NewInMemory()
	tokens, err := auth.NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	authSvc := auth.NewService(store, tokens)
	trackerSvc := tracker.NewService(store, testHashCost)

	cfg := config.Config{RateBurst: 1000, RatePerSec: 1000, MaxBodyKB: 64}
	api := New(ReadyProbe{}, "test", authSvc, trackerSvc, cfg)

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &apiClient{
		baseURL: srv.URL,
		client:  srv.Client(),
		store:   store,
		t:       t,
	}
}

func (c *apiClient) do(method, path string, body any, headers map[string]string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) post(path string, body any, headers map[string]string) *http.Response {
	return c.do(http.MethodPost, path, body, headers)
}

func (c *apiClient) get(path string, headers map[string]string) *http.Response {
	return c.do(http.MethodGet, path, nil, headers)
}

func (c *apiClient) put(path string, body any, headers map[string]string) *http.Response {
	return c.do(http.MethodPut, path, body, headers)
}

func (c *apiClient) del(path string, headers map[string]string) *http.Response {
	return c.do(http.MethodDelete, path, nil, headers)
}

func bearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func registerPayload() map[string]any {
	return map[string]any{
		"username":  "jbtest1ab",
		"password":  "TestPassw0rd",
		"firstName": "Jane",
		"lastName":  "Billings",
		"email":     "jane@example.com",
	}
}

func (c *apiClient) register(payload map[string]any) tracker.AccountView {
	c.t.Helper()
	resp := c.post("/api/users", payload, nil)
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("register status: %d", resp.StatusCode)
	}
	return decode[tracker.AccountView](c.t, resp)
}

func (c *apiClient) login(username, password string) string {
	c.t.Helper()
	resp := c.post("/api/login", map[string]any{
		"username": username,
		"password": password,
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("login status: %d", resp.StatusCode)
	}
	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.t.Fatalf("decode token response: %v", err)
	}
	if payload.Token == "" {
		c.t.Fatalf("empty token issued")
	}
	return payload.Token
}

func (c *apiClient) seedAdmin(username, password string) string {
	c.t.Helper()
	digest, err := auth.HashPassword(password, testHashCost)
	if err != nil {
		c.t.Fatalf("hash admin password: %v", err)
	}
	admin := &tracker.Account{
		ID:           ids.New(),
		Username:     username,
		PasswordHash: digest,
		FirstName:    "Ada",
		LastName:     "Ministrator",
		Email:        username + "@example.com",
		Role:         auth.RoleAdmin,
		Activities:   []tracker.Activity{},
	}
	if err := c.store.CreateAccount(context.Background(), admin); err != nil {
		c.t.Fatalf("seed admin: %v", err)
	}
	return admin.ID
}

func decode[T any](t *testing.T, r *http.Response) T {
	t.Helper()
	defer r.Body.Close()
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestRegisterAndLoginFlow(t *testing.T) {
	c := newTestAPI(t)

	view := c.register(registerPayload())
	if view.ID == "" {
		t.Fatalf("expected account id")
	}
	if view.Username != "jbtest1ab" {
		t.Fatalf("unexpected username: %q", view.Username)
	}
	if view.Role != auth.RoleUser {
		t.Fatalf("expected default user role, got %q", view.Role)
	}
	if view.Activities == nil || len(view.Activities) != 0 {
		t.Fatalf("expected empty activities list, got %v", view.Activities)
	}

	token := c.login("jbtest1ab", "TestPassw0rd")

	resp := c.get("/api/loginValidate", bearerHeader(token))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("loginValidate status: %d", resp.StatusCode)
	}
	principal := decode[auth.Principal](t, resp)
	if principal.ID != view.ID {
		t.Fatalf("expected principal id %q, got %q", view.ID, principal.ID)
	}
	if principal.Role != auth.RoleUser {
		t.Fatalf("unexpected principal role: %q", principal.Role)
	}
}

func TestRegisterNeverSerializesPassword(t *testing.T) {
	c := newTestAPI(t)

	resp := c.post("/api/users", registerPayload(), nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	raw := buf.String()
	if strings.Contains(raw, "password") || strings.Contains(raw, "TestPassw0rd") {
		t.Fatalf("password material leaked into response: %s", raw)
	}
}

func TestLoginCaseInsensitiveUsername(t *testing.T) {
	c := newTestAPI(t)
	c.register(registerPayload())

	token := c.login("JBTest1AB", "TestPassw0rd")
	if token == "" {
		t.Fatalf("expected token for case-folded username")
	}
}

func TestLoginRejections(t *testing.T) {
	c := newTestAPI(t)
	c.register(registerPayload())

	resp := c.post("/api/login", map[string]any{
		"username": "jbtest1ab",
		"password": "WrongPassw0rd",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad password status: %d", resp.StatusCode)
	}
	p := decode[problem](t, resp)
	if p.GeneralMessage != msgBadPassword {
		t.Fatalf("unexpected message: %q", p.GeneralMessage)
	}

	resp = c.post("/api/login", map[string]any{
		"username": "nobody99",
		"password": "TestPassw0rd",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing account status: %d", resp.StatusCode)
	}
	p = decode[problem](t, resp)
	if p.GeneralMessage != msgMissingAccount {
		t.Fatalf("unexpected message: %q", p.GeneralMessage)
	}

	resp = c.post("/api/login", map[string]any{"username": "jbtest1ab"}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing field status: %d", resp.StatusCode)
	}

	resp = c.post("/api/login", map[string]any{
		"username": "jbtest1ab",
		"password": 12345678,
	}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("non-string password status: %d", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	c := newTestAPI(t)

	payload := map[string]any{
		"username":  "ab",
		"password":  "short",
		"firstName": "J",
		"lastName":  "B",
		"email":     "",
	}
	resp := c.post("/api/users", payload, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("validation status: %d", resp.StatusCode)
	}
	p := decode[problem](t, resp)
	if p.GeneralMessage != "Validation Error" {
		t.Fatalf("unexpected general message: %q", p.GeneralMessage)
	}
	if len(p.Messages) != 5 {
		t.Fatalf("expected 5 field messages, got %d: %v", len(p.Messages), p.Messages)
	}
}

func TestRegisterRejectsRoleField(t *testing.T) {
	c := newTestAPI(t)

	payload := registerPayload()
	payload["role"] = "admin"
	resp := c.post("/api/users", payload, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("role field status: %d", resp.StatusCode)
	}
}

func TestRegisterRejectsUntrimmedCredentials(t *testing.T) {
	c := newTestAPI(t)

	payload := registerPayload()
	payload["username"] = " jbtest1ab"
	resp := c.post("/api/users", payload, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("untrimmed username status: %d", resp.StatusCode)
	}
	p := decode[problem](t, resp)
	if p.GeneralMessage != "Incorrect Field Entry" {
		t.Fatalf("unexpected general message: %q", p.GeneralMessage)
	}

	payload = registerPayload()
	payload["password"] = "TestPassw0rd "
	resp = c.post("/api/users", payload, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("untrimmed password status: %d", resp.StatusCode)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	c := newTestAPI(t)
	c.register(registerPayload())

	payload := registerPayload()
	payload["email"] = "other@example.com"
	resp := c.post("/api/users", payload, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate status: %d", resp.StatusCode)
	}
	p := decode[problem](t, resp)
	if len(p.Messages) != 1 || !strings.Contains(p.Messages[0], "username") {
		t.Fatalf("expected duplicate username message, got %v", p.Messages)
	}
}

func TestActivityLifecycle(t *testing.T) {
	c := newTestAPI(t)
	view := c.register(registerPayload())
	token := c.login("jbtest1ab", "TestPassw0rd")

	resp := c.put("/api/users/"+view.ID+"/addActivity", map[string]any{
		"id":               view.ID,
		"activity":         "Cycling",
		"activityDuration": "45",
		"activityDate":     "2025-06-01",
	}, bearerHeader(token))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("addActivity status: %d", resp.StatusCode)
	}
	updated := decode[tracker.AccountView](t, resp)
	if len(updated.Activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(updated.Activities))
	}
	activity := updated.Activities[0]
	if activity.ID == "" || activity.Activity != "Cycling" {
		t.Fatalf("unexpected activity: %+v", activity)
	}

	resp = c.put("/api/users/"+view.ID+"/activities/"+activity.ID, map[string]any{
		"id":               view.ID,
		"activity":         "Road cycling",
		"activityDuration": 60,
	}, bearerHeader(token))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("updateActivity status: %d", resp.StatusCode)
	}
	if v := decode[string](t, resp); v != "OK" {
		t.Fatalf("expected OK body, got %q", v)
	}

	resp = c.get("/api/users/"+view.ID, bearerHeader(token))
	reloaded := decode[tracker.AccountView](t, resp)
	if reloaded.Activities[0].Activity != "Road cycling" {
		t.Fatalf("update not applied: %+v", reloaded.Activities[0])
	}
	if reloaded.Activities[0].ActivityDuration != "60" {
		t.Fatalf("numeric duration not normalized: %+v", reloaded.Activities[0])
	}

	resp = c.del("/api/users/"+view.ID+"/removeActivity/"+activity.ID, bearerHeader(token))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("removeActivity status: %d", resp.StatusCode)
	}

	resp = c.get("/api/users/"+view.ID, bearerHeader(token))
	reloaded = decode[tracker.AccountView](t, resp)
	if len(reloaded.Activities) != 0 {
		t.Fatalf("expected empty activities, got %v", reloaded.Activities)
	}

	resp = c.del("/api/users/"+view.ID+"/removeActivity/"+activity.ID, bearerHeader(token))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("removing a removed activity status: %d", resp.StatusCode)
	}
}

func TestAddActivityRejectsBodyParamMismatch(t *testing.T) {
	c := newTestAPI(t)
	view := c.register(registerPayload())
	token := c.login("jbtest1ab", "TestPassw0rd")

	resp := c.put("/api/users/"+view.ID+"/addActivity", map[string]any{
		"id":               ids.New(),
		"activity":         "Cycling",
		"activityDuration": "45",
		"activityDate":     "2025-06-01",
	}, bearerHeader(token))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("mismatched body id status: %d", resp.StatusCode)
	}
}

func TestAdminListAccounts(t *testing.T) {
	c := newTestAPI(t)
	c.register(registerPayload())
	c.seedAdmin("administrator", "Sup3rSecret")
	adminToken := c.login("administrator", "Sup3rSecret")

	resp := c.get("/api/users", bearerHeader(adminToken))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list status: %d", resp.StatusCode)
	}
	views := decode[[]tracker.AccountView](t, resp)
	if len(views) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(views))
	}

	userToken := c.login("jbtest1ab", "TestPassw0rd")
	resp = c.get("/api/users", bearerHeader(userToken))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-admin list status: %d", resp.StatusCode)
	}
	p := decode[problem](t, resp)
	if p.GeneralMessage != "Auth Problem" {
		t.Fatalf("unexpected general message: %q", p.GeneralMessage)
	}
}

func TestAdminCanReadOtherAccounts(t *testing.T) {
	c := newTestAPI(t)
	view := c.register(registerPayload())
	c.seedAdmin("administrator", "Sup3rSecret")
	adminToken := c.login("administrator", "Sup3rSecret")

	resp := c.get("/api/users/"+view.ID, bearerHeader(adminToken))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin get status: %d", resp.StatusCode)
	}
	got := decode[tracker.AccountView](t, resp)
	if got.ID != view.ID {
		t.Fatalf("expected account %q, got %q", view.ID, got.ID)
	}
}

func TestSelfOrAdminDeniesOtherUsers(t *testing.T) {
	c := newTestAPI(t)
	c.register(registerPayload())
	other := registerPayload()
	other["username"] = "someoneelse"
	other["email"] = "other@example.com"
	otherView := c.register(other)

	token := c.login("jbtest1ab", "TestPassw0rd")
	resp := c.get("/api/users/"+otherView.ID, bearerHeader(token))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("cross-account get status: %d", resp.StatusCode)
	}
	p := decode[problem](t, resp)
	if p.GeneralMessage != "Auth Problem" {
		t.Fatalf("unexpected general message: %q", p.GeneralMessage)
	}
}

func TestAnonymousOnlyRoutesRejectTokens(t *testing.T) {
	c := newTestAPI(t)
	c.register(registerPayload())
	token := c.login("jbtest1ab", "TestPassw0rd")

	resp := c.post("/api/login", map[string]any{
		"username": "jbtest1ab",
		"password": "TestPassw0rd",
	}, bearerHeader(token))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("logged-in login status: %d", resp.StatusCode)
	}
	p := decode[problem](t, resp)
	if p.GeneralMessage != "Auth Problem" {
		t.Fatalf("unexpected general message: %q", p.GeneralMessage)
	}

	resp = c.post("/api/users", registerPayload(), bearerHeader(token))
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("logged-in register status: %d", resp.StatusCode)
	}
}

func TestAuthenticationGate(t *testing.T) {
	c := newTestAPI(t)
	view := c.register(registerPayload())

	resp := c.get("/api/users/"+view.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token status: %d", resp.StatusCode)
	}

	resp = c.get("/api/users/"+view.ID, bearerHeader("not.a.token"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token status: %d", resp.StatusCode)
	}

	resp = c.get("/api/users/"+view.ID, map[string]string{"Authorization": "Basic abc"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong scheme status: %d", resp.StatusCode)
	}
}

func TestGetUnknownAccount(t *testing.T) {
	c := newTestAPI(t)
	c.seedAdmin("administrator", "Sup3rSecret")
	adminToken := c.login("administrator", "Sup3rSecret")

	resp := c.get("/api/users/"+ids.New(), bearerHeader(adminToken))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown account status: %d", resp.StatusCode)
	}

	resp = c.get("/api/users/not-a-ulid", bearerHeader(adminToken))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("malformed id status: %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	c := newTestAPI(t)

	resp := c.get("/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status: %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["status"] != "ok" {
		t.Fatalf("unexpected healthz body: %v", body)
	}
}
