package handlers

import (
	"courier-server/middleware"
	"courier-server/services"
	"courier-server/utils/errors"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// POST /reviews {"reviewed_person_id": ..., "description": ..., "rating": N}
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input struct {
		ReviewedPersonID string `json:"reviewed_person_id"`
		Description      string `json:"description"`
		Rating           int    `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	review, err := h.reviewService.Create(r.Context(), userID, input.ReviewedPersonID, input.Description, input.Rating)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(review)
}

// GET /users/{id}/reviews
func (h *ReviewHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	reviewedID := mux.Vars(r)["id"]
	reviews, err := h.reviewService.ForUser(r.Context(), reviewedID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reviews)
}
