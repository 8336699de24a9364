// Package httpapi exposes document processing over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness, returns "ok"
//	POST /v1/tokens/process     XML message in, JSON results out
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/dto"
	"github.com/sufield/bst/internal/wsdoc"
	"github.com/sufield/bst/internal/wssxml"
)

// DocumentProcessor processes every token of one XML message.
// *app.Application satisfies it.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, r io.Reader) ([]*domain.ProcessingResult, *wsdoc.DocInfo, error)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Class string `json:"class"`
}

// Error classes reported in ErrorResponse.Class.
const (
	ClassMalformedXML      = "malformed_xml"
	ClassTokenFormat       = "token_format"
	ClassCertificateDecode = "certificate_decode"
	ClassValidation        = "validation"
	ClassTooLarge          = "request_too_large"
	ClassInternal          = "internal"
)

// NewRouter builds the HTTP handler. Request bodies above maxBody bytes are
// rejected with 413.
func NewRouter(proc DocumentProcessor, logger zerolog.Logger, maxBody int64) http.Handler {
	h := &handler{proc: proc, logger: logger, maxBody: maxBody}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)
	r.Post("/v1/tokens/process", h.process)
	return r
}

type handler struct {
	proc    DocumentProcessor
	logger  zerolog.Logger
	maxBody int64
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		h.logger.Warn().Err(err).Msg("write error")
	}
}

func (h *handler) process(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	defer body.Close()

	results, doc, err := h.proc.ProcessDocument(r.Context(), body)
	if err != nil {
		status, class := classify(err)
		h.logger.Info().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Msg("document rejected")
		h.writeJSON(w, status, ErrorResponse{Error: err.Error(), Class: class})
		return
	}

	h.writeJSON(w, http.StatusOK, dto.Document{
		Document: doc.ID(),
		Results:  dto.FromResults(results),
	})
}

// classify maps a processing error to a status code and class.
func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), errors.Is(err, wssxml.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge, ClassTooLarge
	case errors.Is(err, wssxml.ErrMalformedXML):
		return http.StatusBadRequest, ClassMalformedXML
	case domain.IsTokenFormat(err):
		return http.StatusBadRequest, ClassTokenFormat
	case domain.IsCertificateDecode(err):
		return http.StatusUnprocessableEntity, ClassCertificateDecode
	case domain.IsValidation(err):
		return http.StatusUnauthorized, ClassValidation
	default:
		return http.StatusInternalServerError, ClassInternal
	}
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn().Err(err).Msg("write error")
	}
}
