package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandlers_Ping(t *testing.T) {
	t.Parallel()

	h := New(nil)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()

	h.Ping(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if body["message"] != "pong" {
		t.Fatalf(`expected message "pong", got %q`, body["message"])
	}
}

func TestHandlers_NotFound(t *testing.T) {
	t.Parallel()

	h := New(nil)
	rr := httptest.NewRecorder()
	h.NotFound(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type, got %q", got)
	}
}

func TestValidationMessage(t *testing.T) {
	t.Parallel()

	err := validate.Struct(&joinGroupOrderRequest{Amount: -1})
	if got := validationMessage(err); got != "invalid input: Amount failed gte" {
		t.Fatalf("unexpected message %q", got)
	}
}
