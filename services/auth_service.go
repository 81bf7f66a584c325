package services

import (
	"context"
	"courier-server/models"
	"courier-server/utils/errors"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	store     *Store
	users     *UserService
	jwtSecret string
}

func NewAuthService(store *Store, users *UserService, jwtSecret string) *AuthService {
	return &AuthService{store: store, users: users, jwtSecret: jwtSecret}
}

// ValidateSignUp runs the required-field, email-shape and password-length
// checks. A failure here means no store call is made at all.
func ValidateSignUp(fullname, phoneNumber, email, password string) error {
	if fullname == "" || phoneNumber == "" || email == "" || password == "" {
		return errors.Validation("All fields are required.")
	}
	if !emailRegex.MatchString(email) {
		return errors.ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return errors.ErrWeakPassword
	}
	return nil
}

type SignUpResult struct {
	UserID      string `json:"user_id"`
	Token       string `json:"token"`
	VerifyToken string `json:"-"`
}

// Register creates a new account. The account starts unverified; a
// verification token is issued but verification stays advisory and never
// blocks sign-in.
func (s *AuthService) Register(ctx context.Context, fullname, phoneNumber, email, password string) (SignUpResult, error) {
	if err := ValidateSignUp(fullname, phoneNumber, email, password); err != nil {
		return SignUpResult{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return SignUpResult{}, errors.Wrap(err, "HASH_ERROR", "failed to hash password", http.StatusInternalServerError)
	}

	verifyToken := uuid.New().String()
	user := models.User{
		PublicID:     uuid.New().String(),
		FullName:     fullname,
		PhoneNumber:  phoneNumber,
		Email:        email,
		PasswordHash: string(passwordHash),
		Verified:     false,
		CreatedAt:    time.Now().UTC(),
	}

	doc := bson.M{
		"public_id":     user.PublicID,
		"fullname":      user.FullName,
		"phone_number":  user.PhoneNumber,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"verified":      false,
		"deleted":       false,
		"verify_token":  verifyToken,
		"created_at":    user.CreatedAt,
	}
	if _, err := s.store.Users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return SignUpResult{}, errors.ErrEmailInUse
		}
		return SignUpResult{}, errors.Wrap(err, "DB_ERROR", "failed to create user in database", http.StatusInternalServerError)
	}

	// Verification email delivery is owned by the identity collaborator;
	// here the token is only issued and logged.
	log.Printf("Verification token issued for %s", user.PublicID)

	token, err := s.issueToken(user.PublicID)
	if err != nil {
		return SignUpResult{}, err
	}

	s.cacheSession(ctx, user)
	return SignUpResult{UserID: user.PublicID, Token: token, VerifyToken: verifyToken}, nil
}

// Login authenticates a user and returns a JWT. Unverified accounts are
// allowed through; the handler surfaces verified=false for the client prompt.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.SessionProfile, error) {
	if email == "" || password == "" {
		return "", models.SessionProfile{}, errors.Validation("Email and password are required.")
	}

	var user models.User
	err := s.store.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return "", models.SessionProfile{}, lookupError(err)
	}
	if user.Deleted {
		return "", models.SessionProfile{}, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.SessionProfile{}, errors.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.PublicID)
	if err != nil {
		return "", models.SessionProfile{}, err
	}

	s.cacheSession(ctx, user)

	profile := models.SessionProfile{
		PublicID:    user.PublicID,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Bio:         user.Bio,
		Verified:    user.Verified,
	}
	return token, profile, nil
}

// lookupError maps a failed credential lookup: a missing document is a bad
// credential, anything else means the store was unreachable.
func lookupError(err error) error {
	if err == mongo.ErrNoDocuments {
		return errors.ErrInvalidCredentials
	}
	return errors.ErrNetwork
}

// Verify marks the account verified when the issued token matches.
func (s *AuthService) Verify(ctx context.Context, userID, verifyToken string) error {
	res, err := s.store.Users.UpdateOne(ctx,
		bson.M{"public_id": userID, "verify_token": verifyToken},
		bson.M{"$set": bson.M{"verified": true}, "$unset": bson.M{"verify_token": ""}})
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "Failed to verify account", http.StatusInternalServerError)
	}
	if res.MatchedCount == 0 {
		return errors.NewAPIError("INVALID_TOKEN", "Verification token is not valid.", http.StatusBadRequest)
	}
	s.store.RedisClient.Del(ctx, "user:"+userID)
	return nil
}

// SignOut clears the cached session profile.
func (s *AuthService) SignOut(ctx context.Context, userID string) {
	s.store.RedisClient.Del(ctx, "user:"+userID)
}

// DeleteAccount soft-deletes: display names are replaced with the sentinel in
// the user document and in every post and review the user authored, the
// account is locked out, and the session cache is cleared. Record ids and
// timestamps stay untouched.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	res, err := s.store.Users.UpdateOne(ctx, bson.M{"public_id": userID}, bson.M{"$set": bson.M{
		"fullname": models.DeletedUserName,
		"deleted":  true,
	}})
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "Failed to delete account", http.StatusInternalServerError)
	}
	if res.MatchedCount == 0 {
		return errors.ErrNotFound
	}

	if _, err := s.store.Posts.UpdateMany(ctx, bson.M{"creator_id": userID}, bson.M{"$set": bson.M{
		"username": models.DeletedUserName,
	}}); err != nil {
		log.Printf("Failed to update posts for deleted user %s: %v", userID, err)
	}
	if _, err := s.store.Reviews.UpdateMany(ctx, bson.M{"reviewer_id": userID}, bson.M{"$set": bson.M{
		"reviewer_name": models.DeletedUserName,
	}}); err != nil {
		log.Printf("Failed to update reviews for deleted user %s: %v", userID, err)
	}

	s.store.RedisClient.Del(ctx, "user:"+userID)
	log.Printf("Account %s soft-deleted", userID)
	return nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": userID,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", errors.Wrap(err, "JWT_ERROR", "Failed to generate token", http.StatusInternalServerError)
	}
	return tokenString, nil
}

func (s *AuthService) cacheSession(ctx context.Context, user models.User) {
	userJSON, err := json.Marshal(user)
	if err != nil {
		log.Printf("Failed to marshal user %s: %v", user.PublicID, err)
		return
	}
	s.store.RedisClient.Set(ctx, "user:"+user.PublicID, userJSON, sessionCacheTTL)
}
