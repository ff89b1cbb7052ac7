package service

import (
	"alcyxob/plan-engine/internal/domain"
	"alcyxob/plan-engine/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanTree is a read-only hydration snapshot of a plan's structure: the days
// in position order and, per hydrated day, the exercises in position order.
// The mutator computes against a snapshot and re-reads a fresh one right
// before committing; trees are never cached across requests.
type PlanTree struct {
	PlanID primitive.ObjectID
	Days   []domain.PlanDay
	// Exercises holds only the days a mutation needs: both ends of a move,
	// one day for a within-day reorder, all days for a full structure read.
	Exercises map[primitive.ObjectID][]domain.DayExercise
}

// DayIDs returns the plan's day ids in position order.
func (t *PlanTree) DayIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, len(t.Days))
	for i, d := range t.Days {
		ids[i] = d.ID
	}
	return ids
}

// ExerciseIDsOf returns the exercise ids of one hydrated day in position
// order. An unhydrated or empty day yields an empty slice.
func (t *PlanTree) ExerciseIDsOf(dayID primitive.ObjectID) []primitive.ObjectID {
	exercises := t.Exercises[dayID]
	ids := make([]primitive.ObjectID, len(exercises))
	for i, e := range exercises {
		ids[i] = e.ID
	}
	return ids
}

// treeLoader hydrates PlanTree snapshots from the persistence adapter.
type treeLoader struct {
	dayRepo      repository.PlanDayRepository
	exerciseRepo repository.DayExerciseRepository
}

// loadDays hydrates the day level only (no exercises). Used by day reorders.
func (l *treeLoader) loadDays(ctx context.Context, planID primitive.ObjectID) (*PlanTree, error) {
	days, err := l.dayRepo.GetByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}
	return &PlanTree{
		PlanID:    planID,
		Days:      days,
		Exercises: map[primitive.ObjectID][]domain.DayExercise{},
	}, nil
}

// loadExercises hydrates the exercise sets of the given days into the tree.
func (l *treeLoader) loadExercises(ctx context.Context, tree *PlanTree, dayIDs ...primitive.ObjectID) error {
	for _, dayID := range dayIDs {
		if _, done := tree.Exercises[dayID]; done {
			continue
		}
		exercises, err := l.exerciseRepo.GetByDayID(ctx, dayID)
		if err != nil {
			return err
		}
		tree.Exercises[dayID] = exercises
	}
	return nil
}
