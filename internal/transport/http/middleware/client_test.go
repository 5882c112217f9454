package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIdentity_MintsIdentityForNewCaller(t *testing.T) {
	var gotID string
	handler := ClientIdentity("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetClientID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if gotID == "" {
		t.Fatal("no client id in context")
	}
	token := rec.Header().Get(ClientTokenHeader)
	if token == "" {
		t.Fatal("no token returned to a first-time caller")
	}
	if parseClientToken(token, "secret") != gotID {
		t.Error("returned token does not carry the minted client id")
	}
}

func TestClientIdentity_RoundTripsExistingToken(t *testing.T) {
	token, err := signClientToken("client-123", "secret")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	var gotID string
	handler := ClientIdentity("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetClientID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ClientTokenHeader, token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID != "client-123" {
		t.Errorf("client id = %q, want client-123", gotID)
	}
	if rec.Header().Get(ClientTokenHeader) != "" {
		t.Error("a valid token should not be reissued")
	}
}

func TestClientIdentity_RejectsForgedToken(t *testing.T) {
	forged, err := signClientToken("victim", "wrong-secret")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	var gotID string
	handler := ClientIdentity("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetClientID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ClientTokenHeader, forged)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID == "victim" {
		t.Error("forged token was accepted")
	}
	if gotID == "" {
		t.Error("forged token should fall back to a fresh identity")
	}
	if rec.Header().Get(ClientTokenHeader) == "" {
		t.Error("fresh identity was not returned after rejecting the forged token")
	}
}
