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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ThoughtsCollection is the MongoDB collection holding thoughts
const ThoughtsCollection = "thoughts"

type thoughtDocument struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Message   string              `bson:"message"`
	Hearts    int                 `bson:"hearts"`
	CreatedAt time.Time           `bson:"createdAt"`
	User      *primitive.ObjectID `bson:"user,omitempty"`
}

func (d *thoughtDocument) toModel() *models.Thought {
	thought := &models.Thought{
		ID:        d.ID.Hex(),
		Message:   d.Message,
		Hearts:    d.Hearts,
		CreatedAt: d.CreatedAt,
	}
	if d.User != nil {
		thought.UserID = d.User.Hex()
	}
	return thought
}

// MongoThoughtRepository stores thoughts as MongoDB documents
type MongoThoughtRepository struct {
	coll *mongo.Collection
}

// NewMongoThoughtRepository creates a new thought repository
func NewMongoThoughtRepository(db *mongo.Database) *MongoThoughtRepository {
	return &MongoThoughtRepository{coll: db.Collection(ThoughtsCollection)}
}

// ListRecent returns up to limit thoughts, newest first
func (r *MongoThoughtRepository) ListRecent(ctx context.Context, limit int) ([]*models.Thought, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list thoughts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []thoughtDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode thoughts: %w", err)
	}

	thoughts := make([]*models.Thought, 0, len(docs))
	for i := range docs {
		thoughts = append(thoughts, docs[i].toModel())
	}
	return thoughts, nil
}

// GetByID retrieves a thought by ID
func (r *MongoThoughtRepository) GetByID(ctx context.Context, id string) (*models.Thought, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doc thoughtDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get thought: %w", err)
	}
	return doc.toModel(), nil
}

// Create inserts a thought and assigns its ID
func (r *MongoThoughtRepository) Create(ctx context.Context, thought *models.Thought) error {
	doc := thoughtDocument{
		ID:        primitive.NewObjectID(),
		Message:   thought.Message,
		Hearts:    thought.Hearts,
		CreatedAt: thought.CreatedAt,
	}
	if thought.UserID != "" {
		owner, err := primitive.ObjectIDFromHex(thought.UserID)
		if err != nil {
			return fmt.Errorf("owner %q: %w", thought.UserID, ErrInvalidID)
		}
		doc.User = &owner
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create thought: %w", err)
	}
	thought.ID = doc.ID.Hex()
	return nil
}

// UpdateMessage replaces the message of a thought
func (r *MongoThoughtRepository) UpdateMessage(ctx context.Context, id, message string) (*models.Thought, error) {
	return r.findAndUpdate(ctx, id, bson.M{"$set": bson.M{"message": message}})
}

// IncrementHearts adds one heart with an atomic $inc
func (r *MongoThoughtRepository) IncrementHearts(ctx context.Context, id string) (*models.Thought, error) {
	return r.findAndUpdate(ctx, id, bson.M{"$inc": bson.M{"hearts": 1}})
}

// Delete deletes a thought by ID
func (r *MongoThoughtRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete thought: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoThoughtRepository) findAndUpdate(ctx context.Context, id string, update bson.M) (*models.Thought, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc thoughtDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update thought: %w", err)
	}
	return doc.toModel(), nil
}
