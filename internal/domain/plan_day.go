// internal/domain/plan_day.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanDay is one training day within a TrainingPlan.
// Position is a dense, zero-based rank: for a given plan the set of day
// positions is exactly {0..n-1}, no gaps, no duplicates.
type PlanDay struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID    primitive.ObjectID `bson:"planId" json:"planId"` // Owning plan
	Title     string             `bson:"title" json:"title"`   // e.g., "Day 1: Upper Body"
	Position  int                `bson:"position" json:"position"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
