package events

import (
	"encoding/json"
	"net/http"

	"bend/middleware"
	"bend/models"
	"bend/repo"
	"bend/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	service      *Service
	events       repo.Events
	artistEvents repo.ArtistEvents
	accounts     repo.Accounts
	shareBase    string
}

func NewHandler(service *Service, repos *repo.Repos, shareBase string) *Handler {
	return &Handler{
		service:      service,
		events:       repos.Events,
		artistEvents: repos.ArtistEvents,
		accounts:     repos.Accounts,
		shareBase:    shareBase,
	}
}

type eventRequest struct {
	Event   models.Event `json:"event"`
	Artists []string     `json:"artists"`
}

// POST /api/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	founderID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if kind, ok := middleware.RequesterKind(r); !ok || kind != models.KindFounder {
		utils.RespondWithError(w, http.StatusForbidden, "Only founders can create events")
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Event.FounderID = founderID

	ev, err := h.service.Create(r.Context(), req.Event, req.Artists)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create event")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"ok": true, "event": ev})
}

// PUT /api/events/:eventid
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	founderID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Event.EventID = ps.ByName("eventid")

	if err := h.service.Edit(r.Context(), founderID, req.Event, req.Artists); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update event: "+err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DELETE /api/events/:eventid
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	founderID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), founderID, ps.ByName("eventid")); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete event: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/events/:eventid
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ev, err := h.events.ByID(r.Context(), ps.ByName("eventid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}
	if ev == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	links, err := h.artistEvents.ByEventID(r.Context(), ev.EventID)
	if err != nil {
		links = nil
	}
	artistIDs := make([]string, 0, len(links))
	for _, link := range links {
		artistIDs = append(artistIDs, link.ArtistID)
	}
	artists, err := h.accounts.ArtistsByIDs(r.Context(), artistIDs)
	if err != nil {
		artists = nil
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"event":   ev,
		"artists": artists,
	})
}

// GET /api/events
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	skip, limit := utils.ParsePagination(r, 10, 100)
	events, err := h.events.List(r.Context(), skip, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "events": events})
}
