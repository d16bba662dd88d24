package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gustavoconect/lideranca-regional-sub000/extractor"
	"github.com/gustavoconect/lideranca-regional-sub000/fetcher"
	"github.com/gustavoconect/lideranca-regional-sub000/pipeline"
	"github.com/gustavoconect/lideranca-regional-sub000/storage"
)

const maxUploadBytes = 64 << 20

// Handler wires the HTTP surface to the pipeline and the store.
type Handler struct {
	store *storage.Store
	pipe  *pipeline.Pipeline
	fetch *fetcher.Fetcher
}

func New(store *storage.Store, pipe *pipeline.Pipeline, fetch *fetcher.Fetcher) *Handler {
	return &Handler{store: store, pipe: pipe, fetch: fetch}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/uploads", h.Upload)
	r.Post("/api/uploads/{upload_id}/reprocess", h.Reprocess)
	r.Get("/api/reports", h.ListReports)
	r.Get("/api/reports/{report_id}", h.GetReport)
}

// Upload accepts either a multipart PDF (field "file") or a JSON body with
// a pdf_url to fetch, runs the pipeline, and returns the run summary.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		filename  string
		sourceURL string
		data      []byte
	)

	switch {
	case strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"):
		var body struct {
			PDFURL string `json:"pdf_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PDFURL == "" {
			writeError(w, http.StatusBadRequest, "pdf_url is required")
			return
		}
		fetched, err := h.fetch.DownloadPDF(ctx, body.PDFURL)
		if err != nil {
			log.Printf("fetch failed: %v", err)
			writeError(w, http.StatusBadGateway, "could not fetch PDF")
			return
		}
		sourceURL = body.PDFURL
		filename = body.PDFURL
		data = fetched

	default:
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "expected a multipart PDF upload")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()
		data, err = io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read upload")
			return
		}
		filename = header.Filename
	}

	summary, err := h.pipe.Run(ctx, filename, sourceURL, data)
	if err != nil {
		if errors.Is(err, extractor.ErrDocumentParse) {
			writeError(w, http.StatusUnprocessableEntity, "PDF could not be parsed")
			return
		}
		log.Printf("upload run failed: %v", err)
		writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Reprocess re-runs segmentation onward from an upload's stored raw text.
func (h *Handler) Reprocess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uploadID := chi.URLParam(r, "upload_id")

	rec, err := h.store.GetUpload(ctx, uploadID)
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "upload not found")
			return
		}
		log.Printf("load upload %s: %v", uploadID, err)
		writeError(w, http.StatusInternalServerError, "could not load upload")
		return
	}
	if rec.RawText == "" {
		writeError(w, http.StatusConflict, "upload has no stored text to reprocess")
		return
	}

	summary := h.pipe.RunFromText(ctx, rec.RawText)
	summary.UploadID = uploadID

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	unit := r.URL.Query().Get("unit")
	date := r.URL.Query().Get("date")

	reports, err := h.store.ListReports(r.Context(), unit, date)
	if err != nil {
		log.Printf("list reports: %v", err)
		writeError(w, http.StatusInternalServerError, "could not read reports")
		return
	}
	if len(reports) == 0 {
		writeError(w, http.StatusNotFound, "no matching reports found")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "report_id")

	rec, err := h.store.GetReport(r.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		log.Printf("get report %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "could not read report")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
