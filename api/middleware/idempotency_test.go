package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"

	"github.com/rajagrocer/storefront-backend/pkg/config"
	pkgredis "github.com/rajagrocer/storefront-backend/pkg/redis"
)

func newTestStore(t *testing.T) pkgredis.IdempotencyStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := pkgredis.New(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("failed to boot redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func checkoutRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{"/api/v1/checkout"}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newTestStore(t)

	var handlerCalls int
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"orderCode":"ORD-AB12CD"}}`))
	}))

	first := httptest.NewRecorder()
	req := checkoutRequest(`{"payment":"COD"}`)
	req.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	req = checkoutRequest(`{"payment":"COD"}`)
	req.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(second, req)

	if handlerCalls != 1 {
		t.Fatalf("expected handler to run once but ran %d times", handlerCalls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body mismatch: %q vs %q", first.Body.String(), second.Body.String())
	}
	if got := second.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected replayed content type but got %q", got)
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newTestStore(t)

	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	req := checkoutRequest(`{"payment":"COD"}`)
	req.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	req = checkoutRequest(`{"payment":"UPI"}`)
	req.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(second, req)

	if second.Code != http.StatusConflict {
		t.Fatalf("expected status 409 but got %d", second.Code)
	}
}

func TestIdempotencySkipsRequestsWithoutKey(t *testing.T) {
	store := newTestStore(t)

	var handlerCalls int
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest(`{"payment":"COD"}`))
	}
	if handlerCalls != 2 {
		t.Fatalf("expected both requests to reach the handler, got %d", handlerCalls)
	}
}

func TestIdempotencyIgnoresOtherRoutes(t *testing.T) {
	store := newTestStore(t)

	var handlerCalls int
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "key-1")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if handlerCalls != 2 {
		t.Fatalf("expected both requests to reach the handler, got %d", handlerCalls)
	}
}
