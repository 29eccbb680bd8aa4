package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockVerifier struct {
	adminID string
	err     error
}

func (m *mockVerifier) Verify(token string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.adminID, nil
}

func TestRequireAdmin_MissingHeader(t *testing.T) {
	wrapped := RequireAdmin(&mockVerifier{adminID: "a1"})(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/tickets/burn", nil)
	w := httptest.NewRecorder()
	wrapped(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireAdmin_InvalidToken(t *testing.T) {
	wrapped := RequireAdmin(&mockVerifier{err: errors.New("expired")})(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/tickets/burn", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	wrapped(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireAdmin_SetsContext(t *testing.T) {
	var gotID string
	wrapped := RequireAdmin(&mockVerifier{adminID: "a1"})(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = AdminIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/tickets/burn", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	wrapped(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if gotID != "a1" {
		t.Fatalf("expected admin ID a1 in context, got %q", gotID)
	}
}

func TestRequireAPIKey_Disabled(t *testing.T) {
	called := false
	wrapped := RequireAPIKey("")(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/tickets/issue", nil)
	w := httptest.NewRecorder()
	wrapped(w, req)

	if !called || w.Code != http.StatusCreated {
		t.Fatalf("expected handler to run without a key, got status %d", w.Code)
	}
}

func TestRequireAPIKey_WrongKey(t *testing.T) {
	wrapped := RequireAPIKey("expected-key")(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodPost, "/tickets/issue", nil)
	req.Header.Set("Authorization", "Bearer other-key")
	w := httptest.NewRecorder()
	wrapped(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireAPIKey_CorrectKey(t *testing.T) {
	wrapped := RequireAPIKey("expected-key")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/tickets/issue", nil)
	req.Header.Set("Authorization", "Bearer expected-key")
	w := httptest.NewRecorder()
	wrapped(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
}
