package repository

import (
	"alcyxob/plan-engine/internal/domain" // Import our defined domain models
	"context"                             // Standard for request-scoped deadlines, cancellation signals, etc.

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DayPositionUpdate assigns a new position to one day.
type DayPositionUpdate struct {
	ID       primitive.ObjectID
	Position int
}

// ExercisePositionUpdate assigns a new position to one exercise. DayID is set
// only when the exercise is re-parented by a cross-day move.
type ExercisePositionUpdate struct {
	ID       primitive.ObjectID
	Position int
	DayID    *primitive.ObjectID
}

// WriteOutcome is the per-row result of a positional batch. The batch contract
// is explicitly non-atomic: each row is updated independently and a failure of
// one does not undo the others, so callers must inspect every outcome.
type WriteOutcome struct {
	ID  primitive.ObjectID
	Err error
}

// TrainingPlanRepository defines the interface for interacting with plan data.
type TrainingPlanRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	// GetOwnership returns the owning trainer's id without loading the full
	// plan. Returns ErrNotFound if the plan does not exist.
	GetOwnership(ctx context.Context, planID primitive.ObjectID) (primitive.ObjectID, error)
}

// PlanDayRepository defines the interface for interacting with day data.
type PlanDayRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanDay, error)
	// GetByPlanID returns all days of a plan, ordered by position.
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanDay, error)
	// UpdatePositions applies each update as an independent per-row write and
	// returns one outcome per update, in input order.
	UpdatePositions(ctx context.Context, updates []DayPositionUpdate) []WriteOutcome
}

// DayExerciseRepository defines the interface for interacting with exercise data.
type DayExerciseRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DayExercise, error)
	// GetByDayID returns all exercises of a day, ordered by position.
	GetByDayID(ctx context.Context, dayID primitive.ObjectID) ([]domain.DayExercise, error)
	// UpdatePositions applies each update as an independent per-row write and
	// returns one outcome per update, in input order.
	UpdatePositions(ctx context.Context, updates []ExercisePositionUpdate) []WriteOutcome
}
