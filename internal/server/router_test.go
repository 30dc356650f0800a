package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopsync-io/shopsync/internal/handlers"
	"github.com/shopsync-io/shopsync/internal/ratelimit"
	"github.com/shopsync-io/shopsync/internal/webhook"
)

type stubStore struct{}

func (s *stubStore) Upsert(ctx context.Context, resource string, id any, doc map[string]any) error {
	return nil
}

func (s *stubStore) Delete(ctx context.Context, resource string, id any) error {
	return nil
}

func (s *stubStore) Ping(ctx context.Context) error {
	return nil
}

func newTestRouter() http.Handler {
	store := &stubStore{}
	pipeline := webhook.NewPipeline("shared-secret", store)
	handler := handlers.NewWebhookHandler(pipeline, &ratelimit.NoOpRateLimiter{}, store, 1<<20, nil)
	return NewRouter(handler)
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rr.Code)
	}
}

func TestRouter_Readyz(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d, want 200", rr.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d, want 200", rr.Code)
	}
}

func TestRouter_WebhooksRejectsGet(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/webhooks", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /webhooks = %d, want 405", rr.Code)
	}
}

func TestRouter_WebhooksDispatch(t *testing.T) {
	router := newTestRouter()

	body, _ := json.Marshal(map[string]any{"id": 42})
	req := httptest.NewRequest(http.MethodPost, "/webhooks", bytes.NewReader(body))
	req.Header.Set(webhook.SignatureHeader, webhook.Sign(body, "shared-secret"))
	req.Header.Set(webhook.TopicHeader, "orders/create")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("POST /webhooks = %d, want 200; body %s", rr.Code, rr.Body.String())
	}
}

func TestRouter_SetsRequestID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}
