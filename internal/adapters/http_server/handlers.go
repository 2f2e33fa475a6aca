// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"lightbnb/internal/app"
	"lightbnb/internal/domain"
)

const maxLimit = 100

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService

	validate *validator.Validate
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.validate == nil {
		h.validate = validator.New(validator.WithRequiredStructEnabled())
	}
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/properties", h.searchProperties)
		r.Post("/properties", h.addProperty)
		r.Get("/users", h.getUserByEmail)
		r.Post("/users", h.addUser)
		r.Get("/users/{id}", h.getUser)
		r.Get("/users/{id}/reservations", h.listReservations)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeStoreError maps service errors to problems. Store details stay in the
// logs; clients get a generic message.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", "resource already exists")
	case errors.Is(err, domain.ErrInvalidReference):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Reference", "referenced resource does not exist")
	default:
		writeProblem(w, http.StatusInternalServerError, "Store Error", "the request could not be completed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func parseLimit(r *http.Request) (int, error) {
	ls := r.URL.Query().Get("limit")
	if ls == "" {
		return domain.DefaultSearchLimit, nil
	}
	l, err := strconv.Atoi(ls)
	if err != nil || l <= 0 || l > maxLimit {
		return 0, fmt.Errorf("limit must be an integer between 1 and %d", maxLimit)
	}
	return l, nil
}

// parseSearchOptions reads filters from the query string. Empty parameters
// are absent, not zero.
func parseSearchOptions(r *http.Request) (domain.SearchOptions, error) {
	q := r.URL.Query()
	var opts domain.SearchOptions

	if v := strings.TrimSpace(q.Get("owner_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, fmt.Errorf("owner_id must be an integer")
		}
		opts.OwnerID = &id
	}
	if v := q.Get("city"); v != "" {
		opts.City = &v
	}
	floats := []struct {
		name string
		max  float64
		dst  **float64
	}{
		{"minimum_price_per_night", domain.MaxPricePerNight, &opts.MinimumPricePerNight},
		{"maximum_price_per_night", domain.MaxPricePerNight, &opts.MaximumPricePerNight},
		{"minimum_rating", math.MaxFloat64, &opts.MinimumRating},
	}
	for _, f := range floats {
		v := strings.TrimSpace(q.Get(f.name))
		if v == "" {
			continue
		}
		// ParseFloat accepts NaN and Inf; the range check rejects both.
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(n) || n < 0 || n > f.max {
			return opts, fmt.Errorf("%s must be a number between 0 and %g", f.name, f.max)
		}
		*f.dst = &n
	}
	return opts, nil
}

func (h *Handlers) searchProperties(w http.ResponseWriter, r *http.Request) {
	opts, err := parseSearchOptions(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", err.Error())
		return
	}
	rows, err := h.Q.SearchProperties(r.Context(), opts, limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeCacheable(w, r, map[string]any{"properties": rows})
}

func (h *Handlers) addProperty(w http.ResponseWriter, r *http.Request) {
	var req newPropertyRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.C.AddProperty(r.Context(), req.toDomain())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	u, err := h.Q.GetUserWithID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeCacheable(w, r, u)
}

func (h *Handlers) getUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeProblem(w, http.StatusBadRequest, "Missing email", "email query parameter is required")
		return
	}
	u, err := h.Q.GetUserWithEmail(r.Context(), email)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeCacheable(w, r, u)
}

func (h *Handlers) addUser(w http.ResponseWriter, r *http.Request) {
	var req newUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.C.AddUser(r.Context(), req.toDomain())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) listReservations(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", err.Error())
		return
	}
	rows, err := h.Q.GetAllReservations(r.Context(), id, limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeCacheable(w, r, map[string]any{"reservations": rows})
}

// decode reads a JSON body into dst and validates it, writing a 400 on failure.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be valid JSON")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]string, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			writeProblem(w, http.StatusBadRequest, "Validation failed", strings.Join(fields, "; "))
			return false
		}
		writeProblem(w, http.StatusBadRequest, "Validation failed", err.Error())
		return false
	}
	return true
}
