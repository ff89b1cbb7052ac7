// internal/domain/training_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingPlan represents a structured plan authored by a trainer for a client.
// The ordering engine never creates or destroys plans; it only reads the
// ownership edge (TrainerID) to gate structural mutations.
type TrainingPlan struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID  `bson:"trainerId" json:"trainerId"` // Who owns the plan (gates all mutations)
	ClientID    *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"` // Who the plan is for (optional scoping)
	Name        string              `bson:"name" json:"name"` // e.g., "Phase 1: Hypertrophy"
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool                `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
