package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lehigh-university-libraries/storagecalc/internal/estimator"
	"github.com/lehigh-university-libraries/storagecalc/internal/footprint"
	"github.com/lehigh-university-libraries/storagecalc/internal/models"
	"github.com/lehigh-university-libraries/storagecalc/internal/report"
)

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := estimator.NewSession(h.cfg)
	h.sessionStore.Add(session)
	slog.Info("Session created", "session_id", session.ID)
	h.writeJSON(w, http.StatusCreated, models.SessionCreated{ID: session.ID})
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	summaries := make([]report.Summary, 0, h.sessionStore.Len())
	h.sessionStore.Each(func(s *estimator.Session) {
		summaries = append(summaries, report.Summarize(s))
	})
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	var sum report.Summary
	err := h.sessionStore.View(mux.Vars(r)["id"], func(s *estimator.Session) error {
		sum = report.Summarize(s)
		return nil
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	if !h.sessionStore.Delete(sessionID) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	slog.Info("Session deleted", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleCreateImage(w http.ResponseWriter, r *http.Request) {
	var req models.CreateImageRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	format, err := footprint.ParseFormat(req.Format)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var resp models.ImageResponse
	err = h.sessionStore.Update(mux.Vars(r)["id"], func(s *estimator.Session) error {
		img, err := s.Create(format, req.Width, req.Height)
		if err != nil {
			return err
		}
		resp = models.ImageResponse{
			ID:     img.ID(),
			Format: img.Format().String(),
			Width:  img.Width(),
			Height: img.Height(),
			Size:   img.Size(),
			Total:  s.Total(),
		}
		return nil
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	var req models.GroupRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	var resp models.GroupResponse
	err := h.sessionStore.Update(mux.Vars(r)["id"], func(s *estimator.Session) error {
		resp.GroupResult = s.Group(req.IDs)
		resp.Total = s.Total()
		return nil
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}
