package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/bunnys/nexus/core/dispatch"
)

const usersCollection = "users"

// User store errors.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmptyCallerID = errors.New("caller id is required")
)

// User is a caller profile persisted when commands are used.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    string        `bson:"user_id"`
	Username  string        `bson:"username,omitempty"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// UserStore persists caller profiles in the users collection, keyed by the
// platform user id rather than the document id.
type UserStore struct {
	coll *mongo.Collection
}

// NewUserStore creates a store over db's users collection.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique index on user_id. Call it once at startup;
// index creation is idempotent on the server side.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := s.coll.Indexes().CreateOne(ctx, model)
	return err
}

// CreateOrUpdate upserts the profile for userID. The username and updated_at
// stamp are refreshed on every call; created_at is written only on insert. An
// empty username leaves the stored one untouched.
func (s *UserStore) CreateOrUpdate(ctx context.Context, userID, username string) (*User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrEmptyCallerID
	}

	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	if username != "" {
		set["username"] = username
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"user_id": userID, "created_at": now},
	}

	_, err := s.coll.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, userID)
}

// FindByID returns the profile for userID, or ErrUserNotFound.
func (s *UserStore) FindByID(ctx context.Context, userID string) (*User, error) {
	var user User
	err := s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a profile for userID is stored.
func (s *UserStore) Exists(ctx context.Context, userID string) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"user_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Compile-time check that Recorder implements the dispatcher's caller hook.
var _ dispatch.CallerRecorder = (*Recorder)(nil)

// Recorder adapts a UserStore to the dispatcher's CallerRecorder hook so
// every command use touches the caller's profile.
type Recorder struct {
	store *UserStore
}

// NewRecorder creates the dispatch adapter around store.
func NewRecorder(store *UserStore) *Recorder {
	return &Recorder{store: store}
}

// RecordCaller upserts the caller's profile, refreshing its updated_at stamp.
func (r *Recorder) RecordCaller(ctx context.Context, callerID string) error {
	_, err := r.store.CreateOrUpdate(ctx, callerID, "")
	return err
}
