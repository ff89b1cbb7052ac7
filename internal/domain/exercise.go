// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayExercise is a prescribed exercise within a PlanDay.
// Position is dense within the owning day, {0..m-1}. A cross-day move is the
// only operation that rewrites DayID; everything besides DayID and Position is
// opaque payload the ordering engine never inspects.
type DayExercise struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DayID    primitive.ObjectID `bson:"dayId" json:"dayId"` // Owning day
	Name     string             `bson:"name" json:"name"`
	Position int                `bson:"position" json:"position"`

	// Prescription details, carried untouched by the engine.
	Sets   *int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps   *string `bson:"reps,omitempty" json:"reps,omitempty"` // e.g., "8-12"
	Rest   *string `bson:"rest,omitempty" json:"rest,omitempty"` // e.g., "90s"
	Tempo  *string `bson:"tempo,omitempty" json:"tempo,omitempty"`
	Weight *string `bson:"weight,omitempty" json:"weight,omitempty"`
	Notes  string  `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
