package web

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/bookingsql/internal/core"
)

// multipartMemory is the part of a multipart upload kept in memory; the
// remainder spills to temporary files.
const multipartMemory = 8 << 20

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":            "ok",
		"activeConversions": s.limiter.Active(),
		"availableSlots":    s.limiter.Available(),
	})
}

// handleConvert converts an uploaded bookings CSV and returns the SQL as
// text/plain. Run statistics are returned in X-Bookings-* headers.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, closeBody, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeBody()

	var out bytes.Buffer
	result, err := s.service.Convert(r.Context(), body, &out)
	if err != nil {
		respondError(w, r, err)
		return
	}

	setStatsHeaders(w.Header(), result)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.sql"`)
	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	w.WriteHeader(http.StatusOK)
	out.WriteTo(w)
}

// PreviewResponse is the JSON body of /api/preview.
type PreviewResponse struct {
	RunID      string                 `json:"runId"`
	Stats      core.Stats             `json:"stats"`
	Collisions []core.HandleCollision `json:"collisions,omitempty"`
	Duration   string                 `json:"duration"`
}

// handlePreview analyzes an uploaded CSV and reports what a conversion
// would produce without rendering SQL.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	body, closeBody, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeBody()

	result, err := s.service.Preview(r.Context(), body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, PreviewResponse{
		RunID:      result.RunID,
		Stats:      result.Stats,
		Collisions: result.Collisions,
		Duration:   result.Duration.String(),
	})
}

// readUpload returns the CSV of a request: the "file" field of a multipart
// form, or the raw body otherwise. The body is capped at MaxUploadSize.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (io.Reader, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if r.ContentLength == 0 {
			return nil, nil, errNoFile
		}
		return r.Body, func() {}, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, nil, err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
		return nil, nil, errNoFile
	}

	return file, func() {
		file.Close()
		r.MultipartForm.RemoveAll()
	}, nil
}

// setStatsHeaders exposes the run statistics of a conversion.
func setStatsHeaders(h http.Header, result *core.Result) {
	h.Set("X-Bookings-Run-Id", result.RunID)
	h.Set("X-Bookings-Rows-Read", strconv.Itoa(result.Stats.RowsRead))
	h.Set("X-Bookings-Rows-Skipped", strconv.Itoa(result.Stats.RowsSkipped))
	h.Set("X-Bookings-Rows-Rejected", strconv.Itoa(result.Stats.RowsRejected))
	h.Set("X-Bookings-Coercion-Failures", strconv.Itoa(result.Stats.CoercionFailures))
	h.Set("X-Bookings-Campaigns", strconv.Itoa(result.Stats.CampaignsEmitted))
	h.Set("X-Bookings-Brands", strconv.Itoa(result.Stats.Brands))
	h.Set("X-Bookings-Influencers", strconv.Itoa(result.Stats.Influencers))
	h.Set("X-Bookings-Handle-Collisions", strconv.Itoa(result.Stats.HandleCollisions))
	h.Set("X-Bookings-Duplicates", strconv.Itoa(result.Stats.DuplicateCampaigns))
}
