package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/trip-explorer/internal/domain"
)

// tripsCollection is the MongoDB collection holding trip documents.
const tripsCollection = "trips"

// tripDocument is the stored shape of a trip. The owner is stored as userEmail.
type tripDocument struct {
	ID        string    `bson:"_id"`
	UserEmail string    `bson:"userEmail"`
	Name      string    `bson:"name"`
	Capital   string    `bson:"capital"`
	Region    string    `bson:"region"`
	Flag      string    `bson:"flag"`
	Notes     string    `bson:"notes"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoTripRepo is the MongoDB implementation of TripRepo.
type mongoTripRepo struct {
	coll *mongo.Collection
}

// NewMongoTripRepo constructs a TripRepo backed by the trips collection of
// database. Call EnsureTripIndexes once at startup before serving traffic.
func NewMongoTripRepo(database *mongo.Database) TripRepo {
	return &mongoTripRepo{coll: database.Collection(tripsCollection)}
}

// EnsureTripIndexes creates the unique (userEmail, name) index that backs the
// duplicate check. It is idempotent.
func EnsureTripIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(tripsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userEmail", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetName("userEmail_name_unique").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("repo.EnsureTripIndexes: %w", err)
	}
	return nil
}

// Create inserts a new trip document. A duplicate key error from the unique
// index is reported as domain.ErrDuplicate.
func (r *mongoTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	// BSON dates have millisecond precision; truncate so the returned record
	// matches what a later read yields.
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := tripDocument{
		ID:        newID(),
		UserEmail: trip.Owner,
		Name:      trip.Name,
		Capital:   trip.Capital,
		Region:    trip.Region,
		Flag:      trip.Flag,
		Notes:     trip.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.Create: %w", domain.ErrDuplicate)
		}
		return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.Create: %w", err)
	}

	result, err := doc.toDomain()
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.Create: %w", err)
	}
	return result, nil
}

// ListByOwner returns the owner's trips, oldest first.
func (r *mongoTripRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Trip, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, bson.M{"userEmail": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("repo.MongoTripRepo.ListByOwner: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	trips := []domain.Trip{}
	for cur.Next(ctx) {
		var doc tripDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("repo.MongoTripRepo.ListByOwner: decode: %w", err)
		}
		t, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("repo.MongoTripRepo.ListByOwner: %w", err)
		}
		trips = append(trips, t)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("repo.MongoTripRepo.ListByOwner: cursor: %w", err)
	}
	return trips, nil
}

// UpdateNotes sets the notes field of one owned trip.
func (r *mongoTripRepo) UpdateNotes(ctx context.Context, owner string, id uuid.UUID, notes string) error {
	filter := bson.M{"_id": id.String(), "userEmail": owner}
	update := bson.M{"$set": bson.M{
		"notes":     notes,
		"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("repo.MongoTripRepo.UpdateNotes: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("repo.MongoTripRepo.UpdateNotes: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes one owned trip.
func (r *mongoTripRepo) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String(), "userEmail": owner})
	if err != nil {
		return fmt.Errorf("repo.MongoTripRepo.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("repo.MongoTripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (d tripDocument) toDomain() (domain.Trip, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("trip %q: parse id: %w", d.ID, err)
	}
	return domain.Trip{
		ID:        id,
		Owner:     d.UserEmail,
		Name:      d.Name,
		Capital:   d.Capital,
		Region:    d.Region,
		Flag:      d.Flag,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
