package repositories

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInvalidForumName is returned when a forum name cannot be used as a
// MongoDB collection name.
var ErrInvalidForumName = errors.New("invalid forum name")

// maxForumNameLen keeps names well under MongoDB's namespace length limit.
const maxForumNameLen = 120

// ForumResolver maps a forum name to the repository that owns its posts.
type ForumResolver interface {
	Resolve(forum string) (PostRepository, error)
}

// CollectionRegistry is the process-wide forum→collection binding table.
// Bindings are created lazily on first resolution and live for the lifetime
// of the process; the same name always resolves to the same collection.
type CollectionRegistry struct {
	db *mongo.Database

	mu    sync.RWMutex
	repos map[string]*MongoPostRepository
}

// NewCollectionRegistry creates an empty registry over the given database.
func NewCollectionRegistry(db *mongo.Database) *CollectionRegistry {
	return &CollectionRegistry{
		db:    db,
		repos: make(map[string]*MongoPostRepository),
	}
}

// Resolve returns the repository bound to the forum name, creating and
// caching the binding on first use. Safe for concurrent callers: when two
// requests race on the first resolution of a name, exactly one binding wins
// and both observe it.
func (r *CollectionRegistry) Resolve(forum string) (PostRepository, error) {
	if err := validateForumName(forum); err != nil {
		return nil, err
	}

	r.mu.RLock()
	repo, ok := r.repos[forum]
	r.mu.RUnlock()
	if ok {
		return repo, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have registered the name while we waited.
	if repo, ok := r.repos[forum]; ok {
		return repo, nil
	}
	repo = NewMongoPostRepository(r.db, forum)
	r.repos[forum] = repo
	return repo, nil
}

// validateForumName checks the caller-supplied name against MongoDB
// collection naming rules. The name comes straight from the request path,
// so it is never trusted verbatim.
func validateForumName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidForumName)
	}
	if len(name) > maxForumNameLen {
		return fmt.Errorf("%w: too long", ErrInvalidForumName)
	}
	if strings.HasPrefix(name, "system.") {
		return fmt.Errorf("%w: reserved prefix", ErrInvalidForumName)
	}
	if strings.ContainsAny(name, "$\x00/\\ ") {
		return fmt.Errorf("%w: illegal character", ErrInvalidForumName)
	}
	return nil
}
