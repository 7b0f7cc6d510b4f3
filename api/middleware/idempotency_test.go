package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
)

type fakeIdempotencyStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{values: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "tnd:idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func newIdempotentRouter(store *fakeIdempotencyStore, hits *int) http.Handler {
	r := chi.NewRouter()
	r.Use(Idempotency(store, testLogger()))
	r.Post("/api/payments/create-preference", func(w http.ResponseWriter, _ *http.Request) {
		*hits++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"data":{"preferenceId":"pref-%d"}}`, *hits)
	})
	return r
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	hits := 0
	router := newIdempotentRouter(store, &hits)

	body := `{"name":"Ana Gomez","email":"ana@example.com","phone":"11 5555-4444"}`

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/create-preference", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "key-1")
	router.ServeHTTP(first, req)

	if first.Code != http.StatusCreated || hits != 1 {
		t.Fatalf("expected one handler hit, got code=%d hits=%d", first.Code, hits)
	}

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/payments/create-preference", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "key-1")
	router.ServeHTTP(second, req)

	if hits != 1 {
		t.Fatalf("replay must not reach the handler, hits=%d", hits)
	}
	if second.Code != http.StatusCreated {
		t.Fatalf("expected stored status, got %d", second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("expected identical bodies: %q vs %q", first.Body.String(), second.Body.String())
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeIdempotencyStore()
	hits := 0
	router := newIdempotentRouter(store, &hits)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/create-preference", strings.NewReader(`{"email":"ana@example.com"}`))
	req.Header.Set("Idempotency-Key", "key-1")
	router.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/payments/create-preference", strings.NewReader(`{"email":"otro@example.com"}`))
	req.Header.Set("Idempotency-Key", "key-1")
	router.ServeHTTP(second, req)

	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key, got %d", second.Code)
	}
	if hits != 1 {
		t.Fatalf("second request must not reach the handler, hits=%d", hits)
	}
}

func TestIdempotencySkipsWithoutKey(t *testing.T) {
	store := newFakeIdempotencyStore()
	hits := 0
	router := newIdempotentRouter(store, &hits)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payments/create-preference", strings.NewReader(`{}`))
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
	}
	if hits != 2 {
		t.Fatalf("requests without a key must always reach the handler, hits=%d", hits)
	}
}

func TestIdempotencyIgnoresUnlistedRoutes(t *testing.T) {
	store := newFakeIdempotencyStore()
	hits := 0

	r := chi.NewRouter()
	r.Use(Idempotency(store, testLogger()))
	r.Post("/api/cart/items", func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(rec, req)
		_ = rec
	}
	if hits != 2 {
		t.Fatalf("cart mutations are not idempotency-guarded, hits=%d", hits)
	}
}
