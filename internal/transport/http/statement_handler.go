// Package http contains the chi handlers for the statement API.
package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "soacli/internal/errors"
	"soacli/internal/exporter"
	"soacli/internal/services"
	"soacli/pkg/contracts/domain"
)

// StatementHandler serves the /api/statements resource.
type StatementHandler struct {
	service        *services.StatementService
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewStatementHandler creates the handler.
func NewStatementHandler(service *services.StatementService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *StatementHandler {
	return &StatementHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "statement_handler")),
		errorHandler:   errorHandler,
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the statement routes.
func (h *StatementHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Upload)
	r.Get("/", h.List)
	r.Post("/merged", h.Merged)
	r.Get("/merged", h.MergedAll)
	r.Get("/merged/records.csv", h.MergedRecordsCSV)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
		r.Get("/records.csv", h.RecordsCSV)
	})
	return r
}

// Upload handles POST /api/statements. It accepts one or more workbook
// files in the multipart field "files" and returns the stored results.
func (h *StatementHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewValidationError("invalid multipart upload", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.NewValidationError("multipart field \"files\" is required", nil))
		return
	}

	uploads := make([]services.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.NewValidationError(fmt.Sprintf("cannot open upload %q", fh.Filename), err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.NewValidationError(fmt.Sprintf("cannot read upload %q", fh.Filename), err))
			return
		}
		uploads = append(uploads, services.Upload{Name: fh.Filename, Data: data})
	}

	h.logger.InfoContext(ctx, "parsing uploaded statements", slog.Int("files", len(uploads)))

	results, err := h.service.ParseUploads(ctx, uploads)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{"statements": results})
}

// List handles GET /api/statements.
func (h *StatementHandler) List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"statements": h.service.List(r.Context())})
}

// Get handles GET /api/statements/{id}.
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, entry)
}

// Delete handles DELETE /api/statements/{id}.
func (h *StatementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// mergeRequest selects the statements to combine.
type mergeRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid4"`
}

// Merged handles POST /api/statements/merged with an explicit selection.
func (h *StatementHandler) Merged(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewValidationError("invalid merge request body", err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewValidationError("invalid merge request", err))
		return
	}

	view, err := h.service.Merged(r.Context(), req.IDs)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// MergedAll handles GET /api/statements/merged over every stored statement,
// or over the comma-separated ids query parameter when present.
func (h *StatementHandler) MergedAll(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Merged(r.Context(), idsQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// RecordsCSV handles GET /api/statements/{id}/records.csv.
func (h *StatementHandler) RecordsCSV(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeCSV(w, r, "statement_records.csv", entry.Document.Records)
}

// MergedRecordsCSV handles GET /api/statements/merged/records.csv.
func (h *StatementHandler) MergedRecordsCSV(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Merged(r.Context(), idsQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeCSV(w, r, "merged_records.csv", view.Records)
}

func (h *StatementHandler) writeCSV(w http.ResponseWriter, r *http.Request, filename string, records []domain.Record) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := exporter.WriteRecordsCSV(w, records); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
	}
}

func idsQuery(r *http.Request) []string {
	raw := strings.TrimSpace(r.URL.Query().Get("ids"))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
