package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

func testPreferenceRequest() PreferenceRequest {
	return PreferenceRequest{
		Items: []PreferenceItem{{
			ID:         "prod-1",
			Title:      "Remera negra",
			Quantity:   2,
			CurrencyID: "ARS",
			UnitPrice:  decimal.NewFromInt(1500),
		}},
		Payer: PreferencePayer{
			Name:    "Ana",
			Surname: "Gomez",
			Email:   "ana@example.com",
		},
		ExternalReference: "order-123",
	}
}

func TestCreatePreferenceSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/checkout/preferences" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("unexpected auth header %q", got)
		}
		if r.Header.Get("X-Idempotency-Key") == "" {
			t.Errorf("expected idempotency key header")
		}
		var body PreferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body.ExternalReference != "order-123" {
			t.Errorf("unexpected external reference %q", body.ExternalReference)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"pref-1","init_point":"https://pay.example/live","sandbox_init_point":"https://pay.example/sandbox"}`))
	}))
	defer srv.Close()

	client, err := NewClient("token-1", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	pref, err := client.CreatePreference(context.Background(), testPreferenceRequest())
	if err != nil {
		t.Fatalf("create preference: %v", err)
	}
	if pref.ID != "pref-1" {
		t.Fatalf("unexpected preference id %q", pref.ID)
	}
	if got := pref.RedirectURL(EnvSandbox); got != "https://pay.example/sandbox" {
		t.Fatalf("expected sandbox link preferred, got %q", got)
	}
	if got := pref.RedirectURL(EnvProduction); got != "https://pay.example/live" {
		t.Fatalf("expected live link in production, got %q", got)
	}
}

func TestCreatePreferenceDecodesCamelCase(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"pref-2","initPoint":"https://pay.example/live","sandboxInitPoint":"https://pay.example/sandbox"}`))
	}))
	defer srv.Close()

	client, err := NewClient("token-1", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	pref, err := client.CreatePreference(context.Background(), testPreferenceRequest())
	if err != nil {
		t.Fatalf("create preference: %v", err)
	}
	if pref.InitPoint != "https://pay.example/live" {
		t.Fatalf("camelCase init point not decoded, got %q", pref.InitPoint)
	}
	if pref.SandboxInitPoint != "https://pay.example/sandbox" {
		t.Fatalf("camelCase sandbox init point not decoded, got %q", pref.SandboxInitPoint)
	}
}

func TestRedirectURLFallsBackWhenSandboxMissing(t *testing.T) {
	t.Parallel()

	pref := &Preference{ID: "pref-3", InitPoint: "https://pay.example/live"}
	if got := pref.RedirectURL(EnvSandbox); got != "https://pay.example/live" {
		t.Fatalf("expected fallback to live link, got %q", got)
	}
}

func TestCreatePreferenceProviderError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream sad"}`))
	}))
	defer srv.Close()

	client, err := NewClient("token-1", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.CreatePreference(context.Background(), testPreferenceRequest())
	if err == nil {
		t.Fatal("expected provider error")
	}
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCreatePreferenceValidatesInput(t *testing.T) {
	t.Parallel()

	client, err := NewClient("token-1")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.CreatePreference(context.Background(), PreferenceRequest{})
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	req := testPreferenceRequest()
	req.Payer.Email = "  "
	_, err = client.CreatePreference(context.Background(), req)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing email, got %v", err)
	}
}

func TestGetPayment(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/987" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":987,"status":"approved","status_detail":"accredited","external_reference":"order-123"}`))
	}))
	defer srv.Close()

	client, err := NewClient("token-1", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	payment, err := client.GetPayment(context.Background(), "987")
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if payment.Status != "approved" || payment.ExternalReference != "order-123" {
		t.Fatalf("unexpected payment %+v", payment)
	}
}

func TestGetPaymentNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewClient("token-1", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GetPayment(context.Background(), "missing")
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("   "); err == nil {
		t.Fatal("expected error for missing token")
	}
}
