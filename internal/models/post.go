package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnonymousAuthor is the author label used when the client supplies none.
const AnonymousAuthor = "Anonymous"

// Post represents a forum post stored in MongoDB. Every forum lives in its
// own collection, but all collections share this document shape.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	Author    string             `json:"author" bson:"author"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	ImageURL  string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Comments  []Comment          `json:"comments" bson:"comments"`
}

// Comment is embedded in a Post; it has no identity of its own.
type Comment struct {
	Author string    `json:"author" bson:"author"`
	Text   string    `json:"text" bson:"text"`
	Date   time.Time `json:"date" bson:"date"`
}

// CreatePostRequest defines the multipart text fields for creating a post.
// The optional image file is read separately by the handler.
type CreatePostRequest struct {
	Content string `json:"content" form:"content" validate:"required"`
	Author  string `json:"author" form:"author" validate:"omitempty,max=120"`
}

// AddCommentRequest defines the request body for commenting on a post.
type AddCommentRequest struct {
	Author string `json:"author" validate:"required"`
	Text   string `json:"text" validate:"required"`
}
