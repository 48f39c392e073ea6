package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

func TestWriteOK(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteOK(rec, map[string]bool{"ok": true})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}

	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body["ok"] {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestWriteOK_NilObject(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteOK(rec, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, string)
		status int
	}{
		{"invalid request", WriteInvalidRequest, http.StatusBadRequest},
		{"not found", WriteNotFound, http.StatusNotFound},
		{"payload too large", WritePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"unsupported media type", WriteUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"internal server error", WriteInternalServerError, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.write(rec, "something broke")

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if body := decodeError(t, rec); body.Error != "something broke" {
				t.Fatalf("unexpected error message: %q", body.Error)
			}
		})
	}
}
