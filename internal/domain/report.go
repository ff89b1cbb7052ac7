// internal/domain/report.go
package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplyStatus describes the overall outcome of a structural mutation.
type ApplyStatus string

const (
	// StatusApplied means every computed write landed.
	StatusApplied ApplyStatus = "applied"
	// StatusPartiallyApplied means some writes landed and some failed; the
	// store and the caller's intended state have diverged.
	StatusPartiallyApplied ApplyStatus = "partially_applied"
	// StatusRejected means the mutation was refused up front and no write
	// was issued.
	StatusRejected ApplyStatus = "rejected"
)

// RejectCode categorizes why a mutation was refused or interrupted.
type RejectCode string

const (
	// CodeForbidden: the actor has no capability on the target plan.
	// Deliberately does not reveal whether the plan's children exist.
	CodeForbidden RejectCode = "FORBIDDEN"

	// CodePlanNotFound: the target plan does not exist.
	CodePlanNotFound RejectCode = "PLAN_NOT_FOUND"

	// CodeNotFound: a referenced day or exercise does not exist.
	CodeNotFound RejectCode = "NOT_FOUND"

	// CodeInvalidPermutation: the supplied id list is not a permutation of
	// the current id set (subset, superset, or duplicates).
	CodeInvalidPermutation RejectCode = "INVALID_PERMUTATION"

	// CodeCrossPlanMoveDenied: source and destination days belong to
	// different plans.
	CodeCrossPlanMoveDenied RejectCode = "CROSS_PLAN_MOVE_DENIED"

	// CodeConflict: ground truth changed between load and commit; the
	// computed assignment was stale and nothing was written.
	CodeConflict RejectCode = "CONFLICT"

	// CodePartialWriteFailure: the adapter failed mid-batch; AppliedIDs and
	// FailedIDs say which rows landed.
	CodePartialWriteFailure RejectCode = "PARTIAL_WRITE_FAILURE"
)

// ApplyReport is the result contract of a structural mutation. For a cancelled
// or failed request it is the only record of what was applied, so partial
// outcomes enumerate entity ids rather than summarizing.
type ApplyReport struct {
	ReportID   string               `json:"reportId"` // Correlates the report with server logs
	Status     ApplyStatus          `json:"status"`
	Code       RejectCode           `json:"code,omitempty"` // Set when Status != applied
	AppliedIDs []primitive.ObjectID `json:"appliedIds,omitempty"`
	FailedIDs  []primitive.ObjectID `json:"failedIds,omitempty"`
}

// Rejected reports refuse the mutation outright; no writes occurred.
func (r ApplyReport) Rejected() bool {
	return r.Status == StatusRejected
}
