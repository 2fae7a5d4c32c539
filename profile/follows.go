package profile

import (
	"net/http"

	"bend/middleware"
	"bend/models"
	"bend/notify"
	"bend/repo"
	"bend/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler serves the follow graph: follow/unfollow edges and the
// follower/following listings shown on profiles.
type Handler struct {
	follows  repo.Follows
	notifier *notify.Service
}

func NewHandler(follows repo.Follows, notifier *notify.Service) *Handler {
	return &Handler{follows: follows, notifier: notifier}
}

// PUT /api/follows/:id
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	followedID := ps.ByName("id")
	if followedID == userID {
		utils.RespondWithError(w, http.StatusBadRequest, "Cannot follow yourself")
		return
	}

	exists, err := h.follows.Exists(r.Context(), userID, followedID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check follow status")
		return
	}
	if exists {
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	f := models.Follower{ID: utils.NewID(), UserID: userID, FollowedID: followedID}
	if err := h.follows.Insert(r.Context(), f); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to follow")
		return
	}
	h.notifier.NewFollower(r.Context(), userID, followedID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DELETE /api/follows/:id
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.follows.Delete(r.Context(), userID, ps.ByName("id")); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unfollow")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// GET /api/follows/:id — whether the requester follows :id.
func (h *Handler) DoesFollow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	exists, err := h.follows.Exists(r.Context(), userID, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check follow status")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "follows": exists})
}

// GET /api/user/:id/followers
func (h *Handler) Followers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ids, err := h.follows.FollowersOf(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch followers")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "followers": ids})
}

// GET /api/user/:id/following
func (h *Handler) Following(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ids, err := h.follows.FollowedBy(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch following")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "following": ids})
}
