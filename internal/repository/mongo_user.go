package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"happy-thoughts-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UsersCollection is the MongoDB collection holding user accounts
const UsersCollection = "users"

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

// MongoUserRepository stores user accounts as MongoDB documents.
// Username uniqueness relies on the index created by database.EnsureMongoIndexes.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new user repository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(UsersCollection)}
}

// Create inserts a user and assigns its ID
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Username:  user.Username,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

// GetByID retrieves a user by ID
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByUsername retrieves a user by username
func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toModel(), nil
}
