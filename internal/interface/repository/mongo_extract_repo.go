package repository

import (
	"context"
	"time"

	"skyfleet-etl/internal/domain/entity"
	"skyfleet-etl/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoExtractArchiveRepository implements the ExtractArchiveRepository
// interface. Raw provider batches are archived before transformation so a
// load can be replayed or diagnosed without re-fetching.
type MongoExtractArchiveRepository struct {
	collection *mongo.Collection
}

// NewMongoExtractArchiveRepository creates a new MongoDB extract archive repository
func NewMongoExtractArchiveRepository(db *mongo.Database) repository.ExtractArchiveRepository {
	collection := db.Collection("extractBatches")

	ctx := context.Background()

	runIndex := mongo.IndexModel{
		Keys:    bson.M{"runId": 1},
		Options: options.Index().SetUnique(true),
	}

	fetchedAtIndex := mongo.IndexModel{
		Keys: bson.M{"fetchedAt": -1},
	}

	operatorIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "operator", Value: 1},
			{Key: "fetchedAt", Value: -1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		runIndex,
		fetchedAtIndex,
		operatorIndex,
	})

	return &MongoExtractArchiveRepository{
		collection: collection,
	}
}

type extractBatchDoc struct {
	Operator  string             `bson:"operator"`
	RunID     string             `bson:"runId"`
	Resource  string             `bson:"resource"`
	Count     int                `bson:"count"`
	FetchedAt time.Time          `bson:"fetchedAt"`
	Legs      []entity.FlightLeg `bson:"legs"`
}

// SaveFlightLegBatch archives one fetched flight-leg page set.
func (r *MongoExtractArchiveRepository) SaveFlightLegBatch(ctx context.Context, operator string, runID string, legs []entity.FlightLeg, fetchedAt time.Time) error {
	doc := extractBatchDoc{
		Operator:  operator,
		RunID:     runID,
		Resource:  "flightleg",
		Count:     len(legs),
		FetchedAt: fetchedAt,
		Legs:      legs,
	}

	_, err := r.collection.InsertOne(ctx, doc)
	return err
}
