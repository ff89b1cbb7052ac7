package service

import (
	"alcyxob/plan-engine/internal/domain"
	"alcyxob/plan-engine/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound     = errors.New("training plan not found")
	ErrPlanAccessDenied = errors.New("access denied to modify this plan's structure")
)

// AuthorizationGate decides whether an actor may mutate a plan's structure.
// It runs before any day or exercise row is read: a denied actor learns
// nothing about what the plan contains.
type AuthorizationGate interface {
	Authorize(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (domain.Capability, error)
}

// authorizationGate implements AuthorizationGate against the plan repository.
type authorizationGate struct {
	planRepo repository.TrainingPlanRepository
}

// NewAuthorizationGate creates a new instance of authorizationGate.
func NewAuthorizationGate(planRepo repository.TrainingPlanRepository) AuthorizationGate {
	return &authorizationGate{planRepo: planRepo}
}

// Authorize resolves the actor's capability on the plan.
// Admins hold full capability on every plan. Trainers hold full capability
// only on plans they own. Every other role is denied unconditionally, without
// even looking the plan up — clients never mutate plan structure.
//
// ErrPlanNotFound is returned only for roles that could in principle mutate;
// a denied actor must not be able to probe for plan existence.
func (g *authorizationGate) Authorize(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (domain.Capability, error) {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleTrainer {
		return domain.CapabilityDenied, ErrPlanAccessDenied
	}
	if actor.ID == primitive.NilObjectID || planID == primitive.NilObjectID {
		return domain.CapabilityDenied, ErrPlanAccessDenied
	}

	trainerID, err := g.planRepo.GetOwnership(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.CapabilityDenied, ErrPlanNotFound
		}
		return domain.CapabilityDenied, err
	}

	if actor.Role == domain.RoleAdmin {
		return domain.CapabilityFull, nil
	}
	if trainerID == actor.ID {
		return domain.CapabilityFull, nil
	}
	// Existing plan, wrong trainer: denial, never "not found" — ownership
	// failures and missing entities must stay distinguishable.
	return domain.CapabilityDenied, ErrPlanAccessDenied
}
