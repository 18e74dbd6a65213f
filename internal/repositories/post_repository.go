package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foro-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound is returned when no post with the given id exists in the
// forum's collection.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the data operations available on a single forum.
type PostRepository interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	AddComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error)
}

// MongoPostRepository implements PostRepository over one MongoDB collection.
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository binds a repository to the named collection. The
// collection is created lazily by MongoDB on first write.
func NewMongoPostRepository(db *mongo.Database, name string) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection(name)}
}

// ListPosts returns every post in the forum, newest first.
func (r *MongoPostRepository) ListPosts(ctx context.Context) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("finding posts: %w", err)
	}
	defer cursor.Close(ctx)

	// An empty forum serializes as [], not null.
	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decoding posts: %w", err)
	}
	return posts, nil
}

// CreatePost inserts a new post, assigning its id and creation time.
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}
	return nil
}

// AddComment atomically appends a comment to the post's comment array and
// returns the updated document. The $push update is atomic on the server, so
// concurrent appends on the same post never lose a comment.
func (r *MongoPostRepository) AddComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrPostNotFound, postID)
	}

	if comment.Date.IsZero() {
		comment.Date = time.Now()
	}

	update := bson.M{"$push": bson.M{"comments": comment}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("appending comment: %w", err)
	}
	return &post, nil
}
