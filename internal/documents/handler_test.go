package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mherrada/veridoc/internal/documents"
	"github.com/mherrada/veridoc/pkg/pagination"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockSystem struct {
	uploadFn      func(ctx context.Context, cmd documents.UploadCommand) (*documents.Document, error)
	validateFn    func(ctx context.Context, q documents.ValidationQuery) (string, error)
	downloadURLFn func(ctx context.Context, fileKey string) (string, error)
}

func (m *mockSystem) Handler(maxUploadSize int64) *documents.Handler { return nil }

func (m *mockSystem) Upload(ctx context.Context, cmd documents.UploadCommand) (*documents.Document, error) {
	return m.uploadFn(ctx, cmd)
}

func (m *mockSystem) Validate(ctx context.Context, q documents.ValidationQuery) (string, error) {
	return m.validateFn(ctx, q)
}

func (m *mockSystem) DownloadURL(ctx context.Context, fileKey string) (string, error) {
	return m.downloadURLFn(ctx, fileKey)
}

func (m *mockSystem) Find(ctx context.Context, id int64) (*documents.Document, error) {
	return nil, documents.ErrNotFound
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[documents.Document], error) {
	return nil, nil
}

func (m *mockSystem) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockSystem) Sweep(ctx context.Context) (documents.SweepReport, error) {
	return documents.SweepReport{}, nil
}

func newTestMux(sys documents.System) *http.ServeMux {
	h := documents.NewHandler(sys, testLogger(), 10*1024*1024)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/validar", h.Validate)
	mux.HandleFunc("POST /api/subir", h.Upload)
	mux.HandleFunc("GET /descargar/{archivo...}", h.Download)
	return mux
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestValidateEndpoint(t *testing.T) {
	t.Run("missing parameters", func(t *testing.T) {
		mux := newTestMux(&mockSystem{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/validar?codigoVerificador=ABC123", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["status"] != "error" || body["mensaje"] != documents.MsgMissingParams {
			t.Errorf("body = %v", body)
		}
	})

	t.Run("match returns signed url", func(t *testing.T) {
		sys := &mockSystem{
			validateFn: func(ctx context.Context, q documents.ValidationQuery) (string, error) {
				return "https://blob.example.com/ABC123.pdf?sig=abc", nil
			},
		}
		mux := newTestMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET",
			"/api/validar?codigoVerificador=ABC123&documento=12345678&fechaVigencia=2026-12-31", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["status"] != "ok" || body["url"] == "" {
			t.Errorf("body = %v", body)
		}
	})

	t.Run("mismatch returns 404", func(t *testing.T) {
		sys := &mockSystem{
			validateFn: func(ctx context.Context, q documents.ValidationQuery) (string, error) {
				return "", documents.ErrNotFound
			},
		}
		mux := newTestMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET",
			"/api/validar?codigoVerificador=ABC123&documento=wrong&fechaVigencia=2026-12-31", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["mensaje"] != documents.MsgInvalidData {
			t.Errorf("mensaje = %q", body["mensaje"])
		}
	})
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("archivo", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	writer.Close()

	return &buf, writer.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	fields := map[string]string{
		"codigoVerificador": "ABC123",
		"documento":         "12345678",
		"fechaVigencia":     "2026-12-31",
	}

	t.Run("success", func(t *testing.T) {
		var got documents.UploadCommand
		sys := &mockSystem{
			uploadFn: func(ctx context.Context, cmd documents.UploadCommand) (*documents.Document, error) {
				got = cmd
				return &documents.Document{ID: 1, FileKey: "ABC123.pdf"}, nil
			},
		}
		mux := newTestMux(sys)

		body, contentType := multipartUpload(t, fields, "certificado.pdf", pdfBytes)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/subir", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		resp := decodeBody(t, rec)
		if resp["status"] != "ok" || resp["mensaje"] != documents.MsgUploaded {
			t.Errorf("body = %v", resp)
		}
		if got.VerifierCode != "ABC123" || got.ValidUntil != "2026-12-31" {
			t.Errorf("command = %+v", got)
		}
	})

	t.Run("missing file part", func(t *testing.T) {
		mux := newTestMux(&mockSystem{})

		body, contentType := multipartUpload(t, fields, "", nil)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/subir", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		resp := decodeBody(t, rec)
		if resp["mensaje"] != documents.MsgMissingFields {
			t.Errorf("mensaje = %q", resp["mensaje"])
		}
	})

	t.Run("duplicate code", func(t *testing.T) {
		sys := &mockSystem{
			uploadFn: func(ctx context.Context, cmd documents.UploadCommand) (*documents.Document, error) {
				return nil, documents.ErrDuplicate
			},
		}
		mux := newTestMux(sys)

		body, contentType := multipartUpload(t, fields, "certificado.pdf", pdfBytes)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/subir", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})
}

func TestDownloadEndpoint(t *testing.T) {
	t.Run("redirects to signed url", func(t *testing.T) {
		sys := &mockSystem{
			downloadURLFn: func(ctx context.Context, fileKey string) (string, error) {
				if fileKey != "ABC123.pdf" {
					t.Errorf("fileKey = %q", fileKey)
				}
				return "https://blob.example.com/ABC123.pdf?sig=abc", nil
			},
		}
		mux := newTestMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/descargar/ABC123.pdf", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "https://blob.example.com/ABC123.pdf?sig=abc" {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("missing blob returns 404", func(t *testing.T) {
		sys := &mockSystem{
			downloadURLFn: func(ctx context.Context, fileKey string) (string, error) {
				return "", documents.ErrNotFound
			},
		}
		mux := newTestMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/descargar/missing.pdf", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
