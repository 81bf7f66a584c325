package models

import "time"

// DeletedUserName replaces display-name snapshots when an account is
// soft-deleted. The records themselves keep their ids and timestamps.
const DeletedUserName = "Deleted User"

type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	PublicID     string    `json:"public_id" bson:"public_id"`
	FullName     string    `json:"fullname" bson:"fullname"`
	Email        string    `json:"email" bson:"email"`
	PhoneNumber  string    `json:"phone_number" bson:"phone_number"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Bio          string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar       string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Verified     bool      `json:"verified" bson:"verified"`
	Deleted      bool      `json:"-" bson:"deleted"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// SessionProfile is the minimal signed-in profile kept in the session cache.
type SessionProfile struct {
	PublicID    string `json:"public_id"`
	FullName    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Bio         string `json:"bio,omitempty"`
	Verified    bool   `json:"verified"`
}

// PublicProfile is the view of a user shown to everyone else.
type PublicProfile struct {
	PublicID string `json:"public_id"`
	FullName string `json:"fullname"`
	Bio      string `json:"bio,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}
