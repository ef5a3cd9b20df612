package approval

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestService(t *testing.T, handler http.HandlerFunc) Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	svc, err := NewService(client, nil, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestCheckApprovalMembership(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["ORD-AB12CD","ORD-XY34ZW"]`))
	})

	if !svc.CheckApproval(context.Background(), "ORD-AB12CD") {
		t.Fatalf("expected ORD-AB12CD to be approved")
	}
	if svc.CheckApproval(context.Background(), "ORD-ZZ99ZZ") {
		t.Fatalf("expected ORD-ZZ99ZZ to not be approved")
	}
}

func TestCheckApprovalIsCaseInsensitive(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["ORD-AB12CD"]`))
	})

	if !svc.CheckApproval(context.Background(), "  ord-ab12cd ") {
		t.Fatalf("expected lower-case input to match")
	}
}

func TestCheckApprovalFailsClosedOnServerError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if svc.CheckApproval(context.Background(), "ORD-AB12CD") {
		t.Fatalf("expected server error to read as not approved")
	}
}

func TestCheckApprovalFailsClosedOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	svc, err := NewService(client, nil, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if svc.CheckApproval(context.Background(), "ORD-AB12CD") {
		t.Fatalf("expected transport failure to read as not approved")
	}
}

func TestCheckApprovalFailsClosedOnMalformedBody(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	})

	if svc.CheckApproval(context.Background(), "ORD-AB12CD") {
		t.Fatalf("expected malformed body to read as not approved")
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient("   "); err == nil {
		t.Fatalf("expected empty url to be rejected")
	}
}
