package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lehigh-university-libraries/storagecalc/internal/config"
	"github.com/lehigh-university-libraries/storagecalc/internal/storage"
)

type Handler struct {
	sessionStore *storage.SessionStore
	cfg          *config.Config
}

// New returns a handler whose sessions are built from cfg. A nil cfg uses
// the defaults.
func New(cfg *config.Config) *Handler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Handler{
		sessionStore: storage.New(),
		cfg:          cfg,
	}
}

// Router wires every endpoint of the session API.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sessions", h.HandleListSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions", h.HandleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.HandleSessionDetail).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.HandleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/images", h.HandleCreateImage).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/groups", h.HandleGroup).Methods(http.MethodPost)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	return router
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message, "status", code)
	http.Error(w, message, code)
}

// writeStoreError maps a session store failure to a response.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	h.writeError(w, err.Error(), http.StatusBadRequest)
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
