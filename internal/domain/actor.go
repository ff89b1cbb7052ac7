// internal/domain/actor.go
package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)

// Actor is the already-authenticated identity performing a request.
// The engine trusts this pair as supplied by the session collaborator
// (JWT claims); it performs no authentication of its own.
type Actor struct {
	ID   primitive.ObjectID `json:"id"`
	Role Role               `json:"role"`
}

// Capability is the authorization outcome for an actor against one plan.
type Capability string

const (
	// CapabilityFull grants structural mutation rights on the plan.
	CapabilityFull Capability = "full"
	// CapabilityDenied means the actor may neither read nor mutate structure.
	CapabilityDenied Capability = "denied"
)

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsTrainer() bool {
	return a.Role == RoleTrainer
}
