package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/bulario-chat/config"
)

// mockHTTPHandler implements interfaces.HTTPHandler and records the route hit
type mockHTTPHandler struct {
	hit string
}

func (m *mockHTTPHandler) reply(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.hit = name
		w.WriteHeader(http.StatusOK)
	}
}

func (m *mockHTTPHandler) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	m.reply("ws")(w, r)
}
func (m *mockHTTPHandler) Chat(w http.ResponseWriter, r *http.Request)    { m.reply("chat")(w, r) }
func (m *mockHTTPHandler) Welcome(w http.ResponseWriter, r *http.Request) { m.reply("welcome")(w, r) }
func (m *mockHTTPHandler) Lookup(w http.ResponseWriter, r *http.Request)  { m.reply("lookup")(w, r) }
func (m *mockHTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	m.reply("health")(w, r)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "8001",
		Address:        "127.0.0.1",
		Env:            config.EnvTest,
		LogLevel:       "info",
		MaxRequestBody: 1024,
		MaxHeaderSize:  1024,
	}
}

func TestNewServer(t *testing.T) {
	s := NewServer(testConfig(), &mockHTTPHandler{})

	if s.server.Addr != "127.0.0.1:8001" {
		t.Errorf("unexpected address %s", s.server.Addr)
	}
	if s.server.WriteTimeout != 0 {
		t.Errorf("streaming routes need no write timeout, got %s", s.server.WriteTimeout)
	}
	if s.server.ReadHeaderTimeout == 0 {
		t.Error("expected a read header timeout")
	}
}

func TestSetupRoutes(t *testing.T) {
	tests := []struct {
		method       string
		path         string
		expectedHit  string
		expectedCode int
	}{
		{http.MethodGet, "/ws", "ws", http.StatusOK},
		{http.MethodGet, "/health", "health", http.StatusOK},
		{http.MethodGet, "/api/welcome", "welcome", http.StatusOK},
		{http.MethodPost, "/api/chat", "chat", http.StatusOK},
		{http.MethodGet, "/api/lookup?q=dipirona", "lookup", http.StatusOK},
		{http.MethodGet, "/api/chat", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/medicament/dipirona", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			h := &mockHTTPHandler{}
			s := NewServer(testConfig(), h)

			rr := httptest.NewRecorder()
			s.Router().ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			if rr.Code != tt.expectedCode {
				t.Errorf("expected %d, got %d", tt.expectedCode, rr.Code)
			}
			if h.hit != tt.expectedHit {
				t.Errorf("expected handler %q, got %q", tt.expectedHit, h.hit)
			}
		})
	}
}

func TestIndexPage(t *testing.T) {
	s := NewServer(testConfig(), &mockHTTPHandler{})

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(rr.Body.String(), `"/ws"`) {
		t.Error("chat page should open the WebSocket endpoint")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer(testConfig(), &mockHTTPHandler{})

	// one request so the HTTP counters have a sample
	s.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "http_request_total") {
		t.Error("expected HTTP request metrics in exposition")
	}
}

func TestCORSOnAPI(t *testing.T) {
	s := NewServer(testConfig(), &mockHTTPHandler{})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestServerLifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "0"
	s := NewServer(cfg, &mockHTTPHandler{})

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start should return nil after shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}

func TestServerURL(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"127.0.0.1", "http://localhost:8001"},
		{"0.0.0.0", "http://localhost:8001"},
		{"192.168.0.10", "http://192.168.0.10:8001"},
	}
	for _, tt := range tests {
		cfg := testConfig()
		cfg.Address = tt.address
		if got := NewServer(cfg, &mockHTTPHandler{}).URL(); got != tt.want {
			t.Errorf("URL() with %s = %q, want %q", tt.address, got, tt.want)
		}
	}
}
