package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"clipdesk/internal/config"
	"clipdesk/internal/db"
	"clipdesk/internal/domain"
	"clipdesk/internal/engine"
	"clipdesk/internal/migrate"
)

type testServer struct {
	URL    string
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	workspace := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Default()
	e := engine.New(conn, cfg)
	if _, err := e.CreateAdmin(context.Background(), "admin@clipdesk.local", "correct-horse"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	handler, err := New(Config{
		Engine:   e,
		BasePath: "/v0",
		Auth: AuthConfig{
			JWTSecret:  []byte("test-secret"),
			CookieName: cfg.Auth.CookieName,
			SessionTTL: time.Hour,
		},
	})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			conn.Close()
		},
	}
	t.Cleanup(testSrv.Close)
	return testSrv
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func login(t *testing.T, srv *testServer) map[string]string {
	t.Helper()
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/auth/login", map[string]any{
		"email":    "admin@clipdesk.local",
		"password": "correct-horse",
	}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login status %d: %s", res.StatusCode, string(data))
	}
	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &session); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a session token")
	}
	if res.Header.Get("Set-Cookie") == "" {
		t.Fatal("expected a session cookie")
	}
	return map[string]string{"Authorization": "Bearer " + session.Token}
}

func intakeBody() map[string]any {
	return map[string]any{
		"name":            "Ada Creator",
		"email":           "ada@example.com",
		"need_type":       "Social Edit",
		"platforms":       []string{"TikTok"},
		"volume_per_week": 4,
		"turnaround":      "24-48h",
		"budget_range":    "200-500",
	}
}

func TestHealthIsPublic(t *testing.T) {
	srv := newTestServer(t)
	res, _ := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/health", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health status %d", res.StatusCode)
	}
}

func TestIntakeWithoutAuth(t *testing.T) {
	srv := newTestServer(t)
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/intake/requests", intakeBody(), nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("intake status %d: %s", res.StatusCode, string(data))
	}
	var req domain.BuyerRequest
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if req.Status != "NEW" || req.ComplexitySuggested == "" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestIntakeRejectsUnknownCatalogValue(t *testing.T) {
	srv := newTestServer(t)
	body := intakeBody()
	body["need_type"] = "Feature Film"
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/intake/requests", body, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", res.StatusCode, string(data))
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal error envelope: %v", err)
	}
	if envelope.Error.Code != "bad_request" {
		t.Fatalf("expected bad_request code, got %q", envelope.Error.Code)
	}
}

func TestAdminEndpointsRequireSession(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/v0/admin/requests", "/v0/admin/jobs", "/v0/admin/templates", "/v0/auth/me"} {
		res, _ := doJSON(t, srv.Client(), http.MethodGet, srv.URL+path, nil, nil)
		if res.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, res.StatusCode)
		}
	}
	res, _ := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/admin/requests", nil, map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", res.StatusCode)
	}
}

func TestLoginAndMe(t *testing.T) {
	srv := newTestServer(t)
	headers := login(t, srv)
	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/auth/me", nil, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("me status %d: %s", res.StatusCode, string(data))
	}
	var me MeResponse
	if err := json.Unmarshal(data, &me); err != nil {
		t.Fatal(err)
	}
	if me.Email != "admin@clipdesk.local" {
		t.Fatalf("unexpected principal: %+v", me)
	}

	res, _ = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/auth/login", map[string]any{
		"email":    "admin@clipdesk.local",
		"password": "wrong",
	}, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", res.StatusCode)
	}
}

func TestRequestTriageAndConvertFlow(t *testing.T) {
	srv := newTestServer(t)
	headers := login(t, srv)

	_, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/intake/requests", intakeBody(), nil)
	var req domain.BuyerRequest
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatal(err)
	}

	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/admin/requests", nil, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list status %d: %s", res.StatusCode, string(data))
	}
	var items []domain.BuyerRequest
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != req.ID {
		t.Fatalf("unexpected list: %+v", items)
	}

	res, data = doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v0/admin/requests/"+req.ID+"/status", map[string]any{
		"status": "QUOTED",
	}, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("set status %d: %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v0/admin/requests/"+req.ID+"/tiers", map[string]any{
		"complexity_suggested": "ELITE",
		"speed_tier":           "RUSH",
	}, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("set tiers %d: %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/admin/requests/"+req.ID+"/convert", nil, headers)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("convert status %d: %s", res.StatusCode, string(data))
	}
	var converted ConvertResponse
	if err := json.Unmarshal(data, &converted); err != nil {
		t.Fatal(err)
	}
	if converted.JobID == "" {
		t.Fatal("expected a job id")
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/admin/requests/"+req.ID, nil, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get request %d", res.StatusCode)
	}
	var after domain.BuyerRequest
	_ = json.Unmarshal(data, &after)
	if after.Status != "WON" {
		t.Fatalf("expected WON after convert, got %s", after.Status)
	}

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/admin/jobs/"+converted.JobID, nil, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get job %d: %s", res.StatusCode, string(data))
	}
	var job domain.Job
	_ = json.Unmarshal(data, &job)
	if job.Rush != true {
		t.Fatal("expected rush job from RUSH speed tier")
	}

	res, _ = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/admin/requests/missing/convert", nil, headers)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing request, got %d", res.StatusCode)
	}
}

func TestChecklistPatch(t *testing.T) {
	srv := newTestServer(t)
	headers := login(t, srv)

	_, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/intake/requests", intakeBody(), nil)
	var req domain.BuyerRequest
	_ = json.Unmarshal(data, &req)
	_, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/admin/requests/"+req.ID+"/convert", nil, headers)
	var converted ConvertResponse
	_ = json.Unmarshal(data, &converted)

	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/admin/jobs/"+converted.JobID+"/checklist", nil, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get checklist %d: %s", res.StatusCode, string(data))
	}
	var cl domain.JobChecklist
	_ = json.Unmarshal(data, &cl)
	if cl.PaymentConfirmed {
		t.Fatal("expected fresh checklist unchecked")
	}

	res, data = doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v0/admin/jobs/"+converted.JobID+"/checklist", map[string]any{
		"payment_confirmed": true,
		"files_received":    true,
	}, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("patch checklist %d: %s", res.StatusCode, string(data))
	}
	_ = json.Unmarshal(data, &cl)
	if !cl.PaymentConfirmed || !cl.FilesReceived || cl.ScopeLocked {
		t.Fatalf("unexpected checklist: %+v", cl)
	}
}

func TestTemplateCRUD(t *testing.T) {
	srv := newTestServer(t)
	headers := login(t, srv)

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/admin/templates", map[string]any{
		"name": "Quote follow-up",
		"body": "Hi {name}, your quote is ready.",
	}, headers)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d: %s", res.StatusCode, string(data))
	}
	var tpl domain.Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		t.Fatal(err)
	}

	res, data = doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v0/admin/templates/"+tpl.ID, map[string]any{
		"subject": "Your quote",
	}, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update status %d: %s", res.StatusCode, string(data))
	}
	_ = json.Unmarshal(data, &tpl)
	if tpl.Subject == nil || *tpl.Subject != "Your quote" {
		t.Fatalf("subject not set: %+v", tpl)
	}
	if tpl.Body != "Hi {name}, your quote is ready." {
		t.Fatal("body should be untouched")
	}

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v0/admin/templates/"+tpl.ID+"/preview", map[string]any{
		"fields": map[string]string{"name": "Ada"},
	}, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("preview status %d: %s", res.StatusCode, string(data))
	}
	var preview PreviewTemplateResponse
	_ = json.Unmarshal(data, &preview)
	if preview.Body != "Hi Ada, your quote is ready." {
		t.Fatalf("unexpected preview: %+v", preview)
	}

	res, _ = doJSON(t, srv.Client(), http.MethodDelete, srv.URL+"/v0/admin/templates/"+tpl.ID, nil, headers)
	if res.StatusCode != http.StatusNoContent && res.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d", res.StatusCode)
	}
	res, _ = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/admin/templates/"+tpl.ID, nil, headers)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", res.StatusCode)
	}
}

func TestOpenAPIAndDocsArePublic(t *testing.T) {
	srv := newTestServer(t)
	res, _ := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v0/openapi.json", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("openapi status %d", res.StatusCode)
	}
	res, _ = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/docs", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("docs status %d", res.StatusCode)
	}
}
