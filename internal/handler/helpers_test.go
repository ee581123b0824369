package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/skill-connect/internal/handler"
	"github.com/msomdec/skill-connect/internal/repository/sqlite"
	"github.com/msomdec/skill-connect/internal/service"
)

const testMaxUploadBytes = 1 << 20

// clipBytes contains a NUL byte so it is not sniffed as text and the MIME
// type comes from the file extension.
var clipBytes = []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}

func newTestStore(t *testing.T) *service.ProfileStore {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	store := service.NewProfileStore(db.KV(), service.NewDataURIReader())
	store.Initialize(context.Background())
	return store
}

func newTestServer(t *testing.T, limiter *service.UploadLimiter) (*httptest.Server, *service.ProfileStore) {
	t.Helper()
	store := newTestStore(t)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.NewProfileHandler(store, testMaxUploadBytes), limiter)

	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)
	return srv, store
}

// noRedirectClient returns the redirect response itself instead of
// following it.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type upload struct {
	field    string
	filename string
	content  []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...upload) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(f.content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func postMultipart(t *testing.T, url string, fields map[string]string, files ...upload) *http.Response {
	t.Helper()

	body, contentType := multipartBody(t, fields, files...)
	resp, err := noRedirectClient().Post(url, contentType, body)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func validProfileFields(name string) map[string]string {
	return map[string]string{
		"name":   name,
		"skills": "Go, Knitting",
		"email":  "someone@example.com",
		"phone":  "555-0100",
	}
}
