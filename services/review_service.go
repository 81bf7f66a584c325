package services

import (
	"context"
	"courier-server/models"
	"courier-server/utils/errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewService struct {
	store *Store
	users *UserService
}

func NewReviewService(store *Store, users *UserService) *ReviewService {
	return &ReviewService{store: store, users: users}
}

// ValidateReview checks the rating range and description before any store call.
func ValidateReview(rating int, description string) error {
	if description == "" || rating == 0 {
		return errors.Validation("Please provide a description and a rating.")
	}
	if rating < 1 || rating > 5 {
		return errors.Validation("Rating must be between 1 and 5.")
	}
	return nil
}

// Create appends a review of reviewedID with the reviewer's display-name
// snapshot. Reviews have no edit or delete path.
func (s *ReviewService) Create(ctx context.Context, reviewerID, reviewedID, description string, rating int) (models.Review, error) {
	if err := ValidateReview(rating, description); err != nil {
		return models.Review{}, err
	}
	if reviewedID == "" {
		return models.Review{}, errors.Validation("Cannot find the user.")
	}
	reviewer, err := s.users.GetUser(ctx, reviewerID)
	if err != nil {
		return models.Review{}, err
	}

	review := models.Review{
		ID:               uuid.New().String(),
		ReviewedPersonID: reviewedID,
		ReviewerID:       reviewerID,
		ReviewerName:     reviewer.FullName,
		Rating:           rating,
		Description:      description,
		Timestamp:        time.Now().UTC(),
	}
	if _, err := s.store.Reviews.InsertOne(ctx, review); err != nil {
		return models.Review{}, errors.Wrap(err, "DB_ERROR", "Failed to submit review.", http.StatusInternalServerError)
	}
	return review, nil
}

// ForUser lists the reviews written about a user, newest first.
func (s *ReviewService) ForUser(ctx context.Context, reviewedID string) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := s.store.Reviews.Find(ctx, bson.M{"reviewed_person_id": reviewedID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to load reviews.", http.StatusInternalServerError)
	}
	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to load reviews.", http.StatusInternalServerError)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}
