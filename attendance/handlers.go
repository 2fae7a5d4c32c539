package attendance

import (
	"net/http"

	"bend/middleware"
	"bend/repo"
	"bend/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	ledger *Ledger
	events repo.Events
}

func NewHandler(ledger *Ledger, events repo.Events) *Handler {
	return &Handler{ledger: ledger, events: events}
}

// POST /api/events/:eventid/attend
func (h *Handler) Attend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ev, err := h.events.ByID(r.Context(), ps.ByName("eventid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to look up event")
		return
	}
	if ev == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	if err := h.ledger.Attend(r.Context(), userID, *ev); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to attend event")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"ok":        true,
		"attendees": h.ledger.Count(r.Context(), ev.EventID),
	})
}

// DELETE /api/events/:eventid/attend
func (h *Handler) Unattend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	eventID := ps.ByName("eventid")
	if err := h.ledger.Unattend(r.Context(), userID, eventID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unattend event")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"attendees": h.ledger.Count(r.Context(), eventID),
	})
}

// GET /api/events/:eventid/attendance
func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	resp := map[string]any{
		"ok":        true,
		"attendees": h.ledger.Count(r.Context(), eventID),
	}
	if userID, ok := middleware.RequesterID(r); ok {
		attending, err := h.ledger.IsAttending(r.Context(), userID, eventID)
		if err == nil {
			resp["attending"] = attending
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/profile/events
func (h *Handler) MyEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	events, err := h.ledger.MyEvents(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch attended events")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "events": events})
}
