package models

import "time"

type PostType string

const (
	PostOrder    PostType = "order"
	PostTraveler PostType = "traveler"
)

// Post is a marketplace/courier listing. Price is free text, not strictly
// numeric. Username is a display-name snapshot taken at creation time.
type Post struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	PostType     PostType  `json:"post_type" bson:"post_type"`
	Description  string    `json:"description" bson:"description"`
	Category     string    `json:"category" bson:"category"`
	Price        string    `json:"price" bson:"price"`
	LocationFrom string    `json:"location_from" bson:"location_from"`
	LocationTo   string    `json:"location_to" bson:"location_to"`
	Image        string    `json:"image,omitempty" bson:"image,omitempty"`
	ContactInfo  string    `json:"contact_info" bson:"contact_info"`
	CreatorID    string    `json:"creator_id" bson:"creator_id"`
	Username     string    `json:"username" bson:"username"`
	Timestamp    time.Time `json:"timestamp" bson:"timestamp"`
}

// Review of a user, append-only. ReviewerName is a snapshot.
type Review struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	ReviewedPersonID string    `json:"reviewed_person_id" bson:"reviewed_person_id"`
	ReviewerID       string    `json:"reviewer_id" bson:"reviewer_id"`
	ReviewerName     string    `json:"reviewer_name" bson:"reviewer_name"`
	Rating           int       `json:"rating" bson:"rating"`
	Description      string    `json:"description" bson:"description"`
	Timestamp        time.Time `json:"timestamp" bson:"timestamp"`
}
