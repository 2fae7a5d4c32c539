package notify

import (
	"net/http"

	"bend/middleware"
	"bend/repo"
	"bend/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	notifications repo.Notifications
}

func NewHandler(notifications repo.Notifications) *Handler {
	return &Handler{notifications: notifications}
}

// GET /api/notifications
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	_, limit := utils.ParsePagination(r, 50, 200)
	list, err := h.notifications.ByRecipient(r.Context(), userID, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "notifications": list})
}

// PUT /api/notifications/:id/seen
func (h *Handler) MarkSeen(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.notifications.MarkSeen(r.Context(), userID, ps.ByName("id")); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to mark notification seen")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// GET /api/notifications/unseen
func (h *Handler) UnseenCount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	count, err := h.notifications.CountUnseen(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count notifications")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "unseen": count})
}
