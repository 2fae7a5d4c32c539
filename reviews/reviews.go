package reviews

import (
	"encoding/json"
	"net/http"

	"bend/middleware"
	"bend/models"
	"bend/notify"
	"bend/ratings"
	"bend/repo"
	"bend/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler serves reviews of artists and founders. A review optionally
// carries a star rating, which feeds the target's running aggregate.
type Handler struct {
	reviews    repo.Reviews
	aggregator *ratings.Aggregator
	notifier   *notify.Service
}

func NewHandler(reviews repo.Reviews, aggregator *ratings.Aggregator, notifier *notify.Service) *Handler {
	return &Handler{reviews: reviews, aggregator: aggregator, notifier: notifier}
}

type reviewRequest struct {
	ReviewedID string             `json:"reviewedid"`
	Kind       models.AccountKind `json:"kind"`
	EventID    string             `json:"eventid"`
	Text       string             `json:"text"`
	Rating     float64            `json:"rating"`
}

// POST /api/reviews
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writerID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.ReviewedID == "" || req.Text == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Reviewed ID and text are required")
		return
	}

	rv := models.Review{
		ID:         utils.NewID(),
		WriterID:   writerID,
		EventID:    req.EventID,
		ReviewedID: req.ReviewedID,
		Text:       req.Text,
		CreatedAt:  utils.NowMillis(),
	}
	if err := h.reviews.Insert(r.Context(), rv); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save review")
		return
	}

	if req.Rating > 0 {
		if err := h.aggregator.Apply(r.Context(), writerID, req.ReviewedID, req.Kind, req.Rating); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Review saved but rating rejected: "+err.Error())
			return
		}
	}
	h.notifier.ReviewReceived(r.Context(), writerID, req.ReviewedID, req.EventID)

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"ok": true, "review": rv})
}

// GET /api/reviews/about/:id
func (h *Handler) ReviewsAbout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	list, err := h.reviews.ByReviewedID(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "reviews": list})
}

// GET /api/events/:eventid/reviews
func (h *Handler) ReviewsForEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	list, err := h.reviews.ByEventID(r.Context(), ps.ByName("eventid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "reviews": list})
}
