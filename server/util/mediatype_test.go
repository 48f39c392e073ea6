package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractMediaType(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/media/upload", nil)
		r.Header.Set("Content-Type", "image/png")

		mediaType, ok := ExtractMediaType(httptest.NewRecorder(), r)
		if !ok || mediaType != "image/png" {
			t.Fatalf("got (%q, %v)", mediaType, ok)
		}
	})

	t.Run("with parameters", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/media/upload", nil)
		r.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

		mediaType, ok := ExtractMediaType(httptest.NewRecorder(), r)
		if !ok || mediaType != "multipart/form-data" {
			t.Fatalf("got (%q, %v)", mediaType, ok)
		}
	})

	t.Run("missing", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/media/upload", nil)
		rec := httptest.NewRecorder()

		if _, ok := ExtractMediaType(rec, r); ok {
			t.Fatalf("expected rejection for missing content type")
		}
		if rec.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415, got %d", rec.Code)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/media/upload", nil)
		r.Header.Set("Content-Type", ";;;")
		rec := httptest.NewRecorder()

		if _, ok := ExtractMediaType(rec, r); ok {
			t.Fatalf("expected rejection for malformed content type")
		}
		if rec.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415, got %d", rec.Code)
		}
	})
}

func TestRequireValidUploadContentType(t *testing.T) {
	t.Run("multipart accepted", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/media/upload", nil)
		r.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

		if _, ok := RequireValidUploadContentType(httptest.NewRecorder(), r); !ok {
			t.Fatalf("multipart/form-data should be accepted")
		}
	})

	t.Run("json rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/media/upload", nil)
		r.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		if _, ok := RequireValidUploadContentType(rec, r); ok {
			t.Fatalf("application/json should be rejected")
		}
		if rec.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415, got %d", rec.Code)
		}
	})
}
