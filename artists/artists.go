package artists

import (
	"net/http"

	"bend/events"
	"bend/middleware"
	"bend/models"
	"bend/repo"
	"bend/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler serves the artist directory and artist-initiated lineup
// withdrawals.
type Handler struct {
	accounts     repo.Accounts
	artistEvents repo.ArtistEvents
	events       repo.Events
	service      *events.Service
}

func NewHandler(repos *repo.Repos, service *events.Service) *Handler {
	return &Handler{
		accounts:     repos.Accounts,
		artistEvents: repos.ArtistEvents,
		events:       repos.Events,
		service:      service,
	}
}

// GET /api/artists
func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	skip, limit := utils.ParsePagination(r, 10, 100)
	artists, err := h.accounts.ListArtists(r.Context(), skip, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch artists")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "artists": artists})
}

// GET /api/artists/:artistid
func (h *Handler) GetArtist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	artist, err := h.accounts.ArtistByID(r.Context(), ps.ByName("artistid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch artist")
		return
	}
	if artist == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Artist not found")
		return
	}

	performing, err := h.performingEvents(r, artist.ArtistID)
	if err != nil {
		performing = []models.Event{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"artist": artist,
		"rating": artist.DisplayRating(),
		"events": performing,
	})
}

// GET /api/artists/:artistid/events
func (h *Handler) GetArtistEvents(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	performing, err := h.performingEvents(r, ps.ByName("artistid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "events": performing})
}

// DELETE /api/lineup/:eventid — the authenticated artist pulls
// themselves off the lineup.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	artistID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if kind, ok := middleware.RequesterKind(r); !ok || kind != models.KindArtist {
		utils.RespondWithError(w, http.StatusForbidden, "Only artists can withdraw from a lineup")
		return
	}

	if err := h.service.Withdraw(r.Context(), artistID, ps.ByName("eventid")); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to withdraw: "+err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) performingEvents(r *http.Request, artistID string) ([]models.Event, error) {
	links, err := h.artistEvents.ByArtistIDs(r.Context(), []string{artistID})
	if err != nil {
		return nil, err
	}
	eventIDs := make([]string, 0, len(links))
	for _, link := range links {
		eventIDs = append(eventIDs, link.EventID)
	}
	return h.events.ByIDs(r.Context(), eventIDs)
}
