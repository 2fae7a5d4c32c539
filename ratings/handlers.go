package ratings

import (
	"encoding/json"
	"net/http"

	"bend/middleware"
	"bend/models"
	"bend/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	aggregator *Aggregator
}

func NewHandler(aggregator *Aggregator) *Handler {
	return &Handler{aggregator: aggregator}
}

type ratingRequest struct {
	TargetID string             `json:"targetid"`
	Kind     models.AccountKind `json:"kind"`
	Value    float64            `json:"value"`
}

// POST /api/ratings
func (h *Handler) RateAccount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raterID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.aggregator.Apply(r.Context(), raterID, req.TargetID, req.Kind, req.Value); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}
