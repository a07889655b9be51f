package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/jusunglee/mta-bustime/internal/models"
	"github.com/jusunglee/mta-bustime/pkg/mta"
)

const missingKeyMessage = "MTA_API_KEY environment variable not set."

// Handler handles HTTP requests
type Handler struct {
	client mta.Client
	apiKey string
}

// NewHandler creates a new HTTP handler. An empty apiKey is reported to
// callers as a server error on each lookup.
func NewHandler(client mta.Client, apiKey string) *Handler {
	return &Handler{client: client, apiKey: apiKey}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET", "OPTIONS")
	r.HandleFunc("/health", h.handleHealth).Methods("GET", "OPTIONS")
	r.HandleFunc("/get_bus_times", h.handleBusTimes).Methods("GET", "OPTIONS")
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"title":   "mta-bustime",
		"message": "Use /get_bus_times with lat and lon parameters.",
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	h.writeJSON(w, response)
}

func (h *Handler) handleBusTimes(w http.ResponseWriter, r *http.Request) {
	if h.apiKey == "" {
		h.writeError(w, missingKeyMessage, http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	lat, ok := parseFloatParam(query.Get("lat"))
	if !ok {
		h.writeError(w, "Missing or invalid lat parameter", http.StatusBadRequest)
		return
	}
	lon, ok := parseFloatParam(query.Get("lon"))
	if !ok {
		h.writeError(w, "Missing or invalid lon parameter", http.StatusBadRequest)
		return
	}

	var (
		result models.AggregateResult
		err    error
	)

	latSpanStr, lonSpanStr := query.Get("latSpan"), query.Get("lonSpan")
	if latSpanStr == "" && lonSpanStr == "" {
		result, err = h.client.GetBusData(r.Context(), h.apiKey, lat, lon)
	} else {
		latSpan, okLat := parseFloatParam(latSpanStr)
		lonSpan, okLon := parseFloatParam(lonSpanStr)
		if !okLat || !okLon {
			h.writeError(w, "latSpan and lonSpan must be given together as numbers", http.StatusBadRequest)
			return
		}
		result, err = h.client.GetBusDataIn(r.Context(), h.apiKey, models.Coordinate{
			Lat: lat, Lon: lon, LatSpan: latSpan, LonSpan: lonSpan,
		})
	}

	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}

	h.writeJSON(w, result)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	switch {
	case errors.Is(err, mta.ErrMissingCredential):
		logger.Error().Err(err).Msg("bus lookup without credential")
		h.writeError(w, missingKeyMessage, http.StatusInternalServerError)
	case errors.Is(err, mta.ErrInvalidParameters):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	default:
		logger.Error().Err(err).Msg("bus lookup failed")
		h.writeError(w, "Unexpected error fetching bus times", http.StatusInternalServerError)
	}
}

func parseFloatParam(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
