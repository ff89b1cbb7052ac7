// internal/repository/mongo/plan_day_repo.go
package mongo

import (
	"alcyxob/plan-engine/internal/domain"
	"alcyxob/plan-engine/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planDayCollectionName = "plan_days"

// mongoPlanDayRepository implements repository.PlanDayRepository
type mongoPlanDayRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanDayRepository creates a new PlanDay repository.
func NewMongoPlanDayRepository(db *mongo.Database) repository.PlanDayRepository {
	return &mongoPlanDayRepository{
		collection: db.Collection(planDayCollectionName),
	}
}

// GetByID retrieves a single day by its ID.
func (r *mongoPlanDayRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanDay, error) {
	var day domain.PlanDay
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

// GetByPlanID retrieves all days of a plan, ordered by position.
func (r *mongoPlanDayRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanDay, error) {
	var days []domain.PlanDay
	filter := bson.M{"planId": planID}
	findOptions := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	// Return empty slice if no days found
	return days, nil
}

// UpdatePositions applies one UpdateOne per row. MongoDB gives no multi-row
// transaction here; rows that landed before a failure stay written, and the
// outcome slice tells the caller exactly which ones those are.
func (r *mongoPlanDayRepository) UpdatePositions(ctx context.Context, updates []repository.DayPositionUpdate) []repository.WriteOutcome {
	outcomes := make([]repository.WriteOutcome, 0, len(updates))
	now := time.Now().UTC()

	for i, u := range updates {
		if err := ctx.Err(); err != nil {
			// Request abandoned mid-batch: remaining rows are not attempted.
			for _, rest := range updates[i:] {
				outcomes = append(outcomes, repository.WriteOutcome{ID: rest.ID, Err: err})
			}
			break
		}

		filter := bson.M{"_id": u.ID}
		updateDoc := bson.M{
			"$set": bson.M{
				"position":  u.Position,
				"updatedAt": now,
			},
		}
		result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
		if err == nil && result.MatchedCount == 0 {
			err = repository.ErrNotFound
		}
		outcomes = append(outcomes, repository.WriteOutcome{ID: u.ID, Err: err})
	}
	return outcomes
}

// EnsurePlanDayIndexes creates necessary indexes. Call during startup.
func EnsurePlanDayIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Ordered listing of a plan's days.
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
