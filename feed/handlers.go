package feed

import (
	"encoding/json"
	"net/http"

	"bend/middleware"
	"bend/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	assembler *Assembler
	reposter  *Reposter
}

func NewHandler(assembler *Assembler, reposter *Reposter) *Handler {
	return &Handler{assembler: assembler, reposter: reposter}
}

// GET /api/feed
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	viewerID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	items := h.assembler.Build(r.Context(), viewerID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "feed": items})
}

// GET /api/feed/cards — attendee counts and profiles for the viewer's
// current feed, fetched separately so the list itself renders first.
func (h *Handler) GetFeedCards(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	viewerID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	items := h.assembler.Build(r.Context(), viewerID)
	cards := h.assembler.Hydrate(r.Context(), items)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "cards": cards})
}

// POST /api/reposts
func (h *Handler) Repost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		EventID string `json:"eventid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Event ID is required")
		return
	}

	rp, err := h.reposter.Repost(r.Context(), userID, req.EventID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to repost: "+err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"ok": true, "repost": rp})
}

// DELETE /api/reposts/:eventid
func (h *Handler) DeleteRepost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.reposter.Unrepost(r.Context(), userID, ps.ByName("eventid")); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete repost")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
