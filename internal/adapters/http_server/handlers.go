// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bank_reviews/internal/app"
	"bank_reviews/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/banks", h.listBanks)
	s.mux.Get("/v1/banks/{bank}/reviews", h.listReviews)
	s.mux.Get("/v1/sentiment/summary", h.sentimentSummary)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON answers 304 when the client already holds this version.
func writeJSON(w http.ResponseWriter, r *http.Request, v any, what string) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("handler", what).Msg("failed to write body")
	}
}

func (h *Handlers) listBanks(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListBanks(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list banks failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not list banks")
		return
	}
	writeJSON(w, r, out, "listBanks")
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	bank, err := url.PathUnescape(chi.URLParam(r, "bank"))
	if err != nil || strings.TrimSpace(bank) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid bank", "bank must be a non-empty name")
		return
	}

	limit := defaultLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > maxLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	sort := "-review_date"
	if ss := r.URL.Query().Get("sort"); ss != "" {
		if !domain.ValidReviewSort(ss) {
			writeProblem(w, http.StatusBadRequest, "Invalid sort", "sort must be one of "+strings.Join(domain.ReviewSorts(), ", "))
			return
		}
		sort = ss
	}

	out, err := h.Q.ListReviews(r.Context(), bank, domain.PageQuery{Limit: limit, Sort: sort})
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "bank not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("bank", bank).Msg("list reviews failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not list reviews")
		return
	}
	writeJSON(w, r, out, "listReviews")
}

func (h *Handlers) sentimentSummary(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.SentimentSummary(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("sentiment summary failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not build summary")
		return
	}
	writeJSON(w, r, out, "sentimentSummary")
}
