// internal/repository/mongo/day_exercise_repo.go
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

const dayExerciseCollectionName = "day_exercises"

// mongoDayExerciseRepository implements repository.DayExerciseRepository
type mongoDayExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoDayExerciseRepository creates a new DayExercise repository.
func NewMongoDayExerciseRepository(db *mongo.Database) repository.DayExerciseRepository {
	return &mongoDayExerciseRepository{
		collection: db.Collection(dayExerciseCollectionName),
	}
}

// GetByID retrieves a single exercise by its ID.
func (r *mongoDayExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DayExercise, error) {
	var exercise domain.DayExercise
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetByDayID retrieves all exercises of a day, ordered by position.
func (r *mongoDayExerciseRepository) GetByDayID(ctx context.Context, dayID primitive.ObjectID) ([]domain.DayExercise, error) {
	var exercises []domain.DayExercise
	filter := bson.M{"dayId": dayID}
	findOptions := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

// UpdatePositions applies one UpdateOne per row, optionally re-parenting the
// exercise when DayID is set (cross-day move). Same non-atomic contract as
// the day repository: completed rows stay written on failure.
func (r *mongoDayExerciseRepository) UpdatePositions(ctx context.Context, updates []repository.ExercisePositionUpdate) []repository.WriteOutcome {
	outcomes := make([]repository.WriteOutcome, 0, len(updates))
	now := time.Now().UTC()

	for i, u := range updates {
		if err := ctx.Err(); err != nil {
			for _, rest := range updates[i:] {
				outcomes = append(outcomes, repository.WriteOutcome{ID: rest.ID, Err: err})
			}
			break
		}

		set := bson.M{
			"position":  u.Position,
			"updatedAt": now,
		}
		if u.DayID != nil {
			set["dayId"] = *u.DayID
		}

		filter := bson.M{"_id": u.ID}
		result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
		if err == nil && result.MatchedCount == 0 {
			err = repository.ErrNotFound
		}
		outcomes = append(outcomes, repository.WriteOutcome{ID: u.ID, Err: err})
	}
	return outcomes
}

// EnsureDayExerciseIndexes creates necessary indexes. Call during startup.
func EnsureDayExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Ordered listing of a day's exercises.
			Keys:    bson.D{{Key: "dayId", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
