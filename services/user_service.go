package services

import (
	"context"
	"courier-server/models"
	"courier-server/utils/errors"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	sessionCacheTTL = 24 * time.Hour
	maxFullNameLen  = 100
	maxBioLen       = 300
)

type UserService struct {
	store *Store
}

func NewUserService(store *Store) *UserService {
	return &UserService{store: store}
}

// GetUser retrieves a user from Redis or MongoDB
func (s *UserService) GetUser(ctx context.Context, userID string) (models.User, error) {
	var user models.User

	// Check Redis first
	userJSON, err := s.store.RedisClient.Get(ctx, "user:"+userID).Result()
	if err == nil {
		if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
			log.Printf("Failed to unmarshal user %s: %v", userID, err)
		} else {
			return user, nil
		}
	}

	err = s.store.Users.FindOne(ctx, bson.M{"public_id": userID}).Decode(&user)
	if err != nil {
		return models.User{}, errors.ErrNotFound
	}

	// Cache in Redis
	userJSONBytes, err := json.Marshal(user)
	if err != nil {
		return user, err
	}
	s.store.RedisClient.Set(ctx, "user:"+userID, userJSONBytes, sessionCacheTTL)

	return user, nil
}

// Profile returns the minimal session profile for the signed-in user.
func (s *UserService) Profile(ctx context.Context, userID string) (models.SessionProfile, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return models.SessionProfile{}, err
	}
	return models.SessionProfile{
		PublicID:    user.PublicID,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Bio:         user.Bio,
		Verified:    user.Verified,
	}, nil
}

// PublicProfile returns the display view of any user.
func (s *UserService) PublicProfile(ctx context.Context, userID string) (models.PublicProfile, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return models.PublicProfile{}, err
	}
	return models.PublicProfile{
		PublicID: user.PublicID,
		FullName: user.FullName,
		Bio:      user.Bio,
		Avatar:   user.Avatar,
	}, nil
}

// ValidateProfileUpdate applies the optional max-length checks before any
// store call.
func ValidateProfileUpdate(fullname, bio string) error {
	if fullname == "" {
		return errors.Validation("Full name is required.")
	}
	if len(fullname) > maxFullNameLen {
		return errors.Validation("Full name is too long.")
	}
	if len(bio) > maxBioLen {
		return errors.Validation("Bio is too long.")
	}
	return nil
}

// UpdateProfile mutates fullname, phone and bio on the user document and
// refreshes the session cache. Email is not editable.
func (s *UserService) UpdateProfile(ctx context.Context, userID, fullname, phoneNumber, bio string) (models.SessionProfile, error) {
	if err := ValidateProfileUpdate(fullname, bio); err != nil {
		return models.SessionProfile{}, err
	}

	update := bson.M{"$set": bson.M{
		"fullname":     fullname,
		"phone_number": phoneNumber,
		"bio":          bio,
	}}
	res, err := s.store.Users.UpdateOne(ctx, bson.M{"public_id": userID}, update)
	if err != nil {
		return models.SessionProfile{}, errors.Wrap(err, "DB_ERROR", "Failed to update profile", http.StatusInternalServerError)
	}
	if res.MatchedCount == 0 {
		return models.SessionProfile{}, errors.ErrNotFound
	}

	s.store.RedisClient.Del(ctx, "user:"+userID)
	return s.Profile(ctx, userID)
}
