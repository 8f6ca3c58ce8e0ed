package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/bookingsql/internal/config"
	"github.com/JonMunkholm/bookingsql/internal/core"
	"github.com/JonMunkholm/bookingsql/internal/sqlemit"
)

const testCSV = "Brand,Influencer,Channel,Content,Story_Public_Date,Preis,Monat,Status\n" +
	"Acme,Jane Doe,ig,Post + rem.,2024-03-01,\"1.500,00\",März,done\n" +
	"O'Brien,jane.doe,yt,Story,2024-03-02,200,März,tbd\n" +
	",Nobody,ig,Post,2024-03-03,,März,\n"

func newTestServer(t *testing.T, maxUpload int64) *Server {
	t.Helper()
	emitter, err := sqlemit.New(sqlemit.Options{IncludeEntities: true})
	if err != nil {
		t.Fatalf("sqlemit.New() error = %v", err)
	}
	svc := core.NewService(core.Options{}, emitter)
	return NewServer(svc, config.ServerConfig{MaxUploadSize: maxUpload, MaxConcurrent: 2, QueueWait: time.Second})
}

func multipartBody(t *testing.T, field, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "bookings.csv")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(content))
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestConvert_RawBody(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(testCSV))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}

	headers := map[string]string{
		"X-Bookings-Rows-Read":         "3",
		"X-Bookings-Rows-Skipped":      "1",
		"X-Bookings-Campaigns":         "2",
		"X-Bookings-Brands":            "2",
		"X-Bookings-Influencers":       "2",
		"X-Bookings-Handle-Collisions": "1",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if rec.Header().Get("X-Bookings-Run-Id") == "" {
		t.Error("X-Bookings-Run-Id missing")
	}

	body := rec.Body.String()
	for _, want := range []string{
		"INSERT INTO brands (name) VALUES",
		"('O''Brien')",
		"(SELECT id FROM influencers WHERE instagram_handle = 'janedoe2' LIMIT 1)",
		"INSERT INTO campaigns (",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("SQL missing %q", want)
		}
	}
	if strings.Contains(body, "Nobody") {
		t.Error("skipped row leaked into SQL")
	}
}

func TestConvert_Multipart(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	body, contentType := multipartBody(t, "file", testCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Bookings-Campaigns"); got != "2" {
		t.Errorf("X-Bookings-Campaigns = %q, want 2", got)
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name       string
		maxUpload  int64
		body       func(t *testing.T) (*bytes.Buffer, string)
		wantStatus int
		wantCode   string
	}{
		{
			name:      "empty body",
			maxUpload: 1 << 20,
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return &bytes.Buffer{}, "text/csv"
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "EMT003",
		},
		{
			name:      "missing file field",
			maxUpload: 1 << 20,
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, "upload", testCSV)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "EMT003",
		},
		{
			name:      "too large",
			maxUpload: 16,
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return bytes.NewBufferString(testCSV), "text/csv"
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "EMT002",
		},
		{
			name:      "ragged row",
			maxUpload: 1 << 20,
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return bytes.NewBufferString("Brand,Influencer\nAcme\n"), "text/csv"
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "SRC004",
		},
		{
			name:      "header only",
			maxUpload: 1 << 20,
			body: func(t *testing.T) (*bytes.Buffer, string) {
				return bytes.NewBufferString("\n"), "text/csv"
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "SRC003",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.maxUpload)

			body, contentType := tt.body(t)
			req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			resp := decodeError(t, rec)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if strings.Contains(rec.Body.String(), "INSERT") {
				t.Error("error response contains SQL")
			}
		})
	}
}

func TestPreview(t *testing.T) {
	srv := newTestServer(t, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader(testCSV))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	var resp PreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("preview body is not JSON: %v", err)
	}
	if resp.Stats.Campaigns != 2 || resp.Stats.RowsSkipped != 1 {
		t.Errorf("Stats = %+v", resp.Stats)
	}
	if resp.Stats.CampaignsEmitted != 0 {
		t.Errorf("CampaignsEmitted = %d, want 0", resp.Stats.CampaignsEmitted)
	}
	if len(resp.Collisions) != 1 || resp.Collisions[0].Assigned != "janedoe2" {
		t.Errorf("Collisions = %+v", resp.Collisions)
	}
	if len(resp.Stats.MissingColumns) == 0 {
		t.Error("MissingColumns should list the absent columns")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no file", errNoFile, http.StatusBadRequest},
		{"too large", &http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{"source", &core.SourceReadError{Err: core.ErrEmptySource}, http.StatusUnprocessableEntity},
		{"other", bytes.ErrTooLarge, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
