package service

import (
	"alcyxob/plan-engine/internal/domain"
	"alcyxob/plan-engine/internal/ordering"
	"alcyxob/plan-engine/internal/repository"
	"context"
	"errors"
	"log"
	"sort"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StructureService performs the structural mutations on a plan's ordered
// tree: reordering days, reordering exercises within a day, and moving an
// exercise across days. Every operation is single-shot: authorize, hydrate
// ground truth, compute the full target assignment, revalidate, write.
//
// planID accompanies every call so that authorization can run before any day
// or exercise row tied to the mutation is read.
type StructureService interface {
	ReorderDays(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, orderedDayIDs []primitive.ObjectID) (*domain.ApplyReport, error)
	ReorderExercises(ctx context.Context, actor domain.Actor, planID, dayID primitive.ObjectID, orderedExerciseIDs []primitive.ObjectID) (*domain.ApplyReport, error)
	MoveExercise(ctx context.Context, actor domain.Actor, planID, exerciseID, fromDayID, toDayID primitive.ObjectID, toIndex int) (*domain.ApplyReport, error)

	// GetPlanStructure returns the hydrated tree (ground truth). Callers use
	// it to re-sync after CONFLICT or a partial write.
	GetPlanStructure(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*PlanTree, error)
}

// --- Service Implementation ---

// structureService implements the StructureService interface.
type structureService struct {
	gate         AuthorizationGate
	loader       treeLoader
	dayRepo      repository.PlanDayRepository
	exerciseRepo repository.DayExerciseRepository
}

// NewStructureService creates a new instance of structureService.
func NewStructureService(
	planRepo repository.TrainingPlanRepository,
	dayRepo repository.PlanDayRepository,
	exerciseRepo repository.DayExerciseRepository,
) StructureService {
	return &structureService{
		gate:         NewAuthorizationGate(planRepo),
		loader:       treeLoader{dayRepo: dayRepo, exerciseRepo: exerciseRepo},
		dayRepo:      dayRepo,
		exerciseRepo: exerciseRepo,
	}
}

// === Day reordering ===

func (s *structureService) ReorderDays(ctx context.Context, actor domain.Actor, planID primitive.ObjectID, orderedDayIDs []primitive.ObjectID) (*domain.ApplyReport, error) {
	if reject, err := s.authorize(ctx, actor, planID); reject != nil || err != nil {
		return reject, err
	}

	tree, err := s.loader.loadDays(ctx, planID)
	if err != nil {
		return nil, err
	}
	currentIDs := tree.DayIDs()

	assignment, err := ordering.Reorder(currentIDs, orderedDayIDs)
	if err != nil {
		return rejected(domain.CodeInvalidPermutation), nil
	}

	// Optimistic revalidation: the permutation was computed against a
	// snapshot; re-read immediately before committing and refuse to apply it
	// over a set that has meanwhile changed.
	fresh, err := s.loader.loadDays(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !sameIDSet(currentIDs, fresh.DayIDs()) {
		return rejected(domain.CodeConflict), nil
	}

	writes := dayWrites(fresh.Days, assignment)
	if len(writes) == 0 {
		return appliedReport(nil), nil // identical order, zero writes
	}

	outcomes := s.dayRepo.UpdatePositions(ctx, writes)
	return reportFromOutcomes(outcomes, nil), nil
}

// === Exercise reordering within one day ===

func (s *structureService) ReorderExercises(ctx context.Context, actor domain.Actor, planID, dayID primitive.ObjectID, orderedExerciseIDs []primitive.ObjectID) (*domain.ApplyReport, error) {
	if reject, err := s.authorize(ctx, actor, planID); reject != nil || err != nil {
		return reject, err
	}

	if reject, err := s.dayInPlan(ctx, planID, dayID); reject != nil || err != nil {
		return reject, err
	}

	currentIDs, _, err := s.exerciseSnapshot(ctx, planID, dayID)
	if err != nil {
		return nil, err
	}

	assignment, err := ordering.Reorder(currentIDs, orderedExerciseIDs)
	if err != nil {
		return rejected(domain.CodeInvalidPermutation), nil
	}

	freshIDs, freshExercises, err := s.exerciseSnapshot(ctx, planID, dayID)
	if err != nil {
		return nil, err
	}
	if !sameIDSet(currentIDs, freshIDs) {
		return rejected(domain.CodeConflict), nil
	}

	writes := exerciseWrites(freshExercises, assignment)
	if len(writes) == 0 {
		return appliedReport(nil), nil
	}

	outcomes := s.exerciseRepo.UpdatePositions(ctx, writes)
	return reportFromOutcomes(outcomes, nil), nil
}

// === Cross-day move ===

func (s *structureService) MoveExercise(ctx context.Context, actor domain.Actor, planID, exerciseID, fromDayID, toDayID primitive.ObjectID, toIndex int) (*domain.ApplyReport, error) {
	if reject, err := s.authorize(ctx, actor, planID); reject != nil || err != nil {
		return reject, err
	}

	fromDay, err := s.dayRepo.GetByID(ctx, fromDayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return rejected(domain.CodeNotFound), nil
		}
		return nil, err
	}
	toDay := fromDay
	if toDayID != fromDayID {
		toDay, err = s.dayRepo.GetByID(ctx, toDayID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return rejected(domain.CodeNotFound), nil
			}
			return nil, err
		}
	}

	// A move never crosses a plan boundary, regardless of who asks.
	if fromDay.PlanID != toDay.PlanID {
		return rejected(domain.CodeCrossPlanMoveDenied), nil
	}
	// Both days exist but live in a plan other than the authorized one.
	if fromDay.PlanID != planID {
		return rejected(domain.CodeNotFound), nil
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return rejected(domain.CodeNotFound), nil
		}
		return nil, err
	}
	if exercise.DayID != fromDayID {
		return rejected(domain.CodeNotFound), nil
	}

	if fromDayID == toDayID {
		return s.moveWithinDay(ctx, planID, fromDayID, exerciseID, toIndex)
	}
	return s.moveAcrossDays(ctx, planID, exerciseID, fromDayID, toDayID, toIndex)
}

// moveWithinDay handles the degenerate fromDay == toDay case as one reorder of
// a single set. Running the generic remove/insert over the same collection
// twice would double-process it and corrupt positions.
func (s *structureService) moveWithinDay(ctx context.Context, planID, dayID, exerciseID primitive.ObjectID, toIndex int) (*domain.ApplyReport, error) {
	currentIDs, _, err := s.exerciseSnapshot(ctx, planID, dayID)
	if err != nil {
		return nil, err
	}

	remainder, err := ordering.Remove(currentIDs, exerciseID)
	if err != nil {
		// The exercise was verified to live here; a vanished row means a
		// concurrent mutation won.
		return rejected(domain.CodeConflict), nil
	}
	assignment, err := ordering.InsertAt(orderedIDs(remainder), exerciseID, toIndex)
	if err != nil {
		return rejected(domain.CodeConflict), nil
	}

	freshIDs, freshExercises, err := s.exerciseSnapshot(ctx, planID, dayID)
	if err != nil {
		return nil, err
	}
	if !sameIDSet(currentIDs, freshIDs) {
		return rejected(domain.CodeConflict), nil
	}

	writes := exerciseWrites(freshExercises, assignment)
	if len(writes) == 0 {
		return appliedReport(nil), nil
	}

	outcomes := s.exerciseRepo.UpdatePositions(ctx, writes)
	return reportFromOutcomes(outcomes, nil), nil
}

// moveAcrossDays re-packs the source day without the exercise, inserts it into
// the destination day, and re-parents it. Destination writes are issued first;
// until the source re-pack lands a reader may see a transient position gap in
// the source day. That window is tolerated, not hidden: a failure mid-batch
// surfaces as PARTIAL_WRITE_FAILURE with the exact row ids.
func (s *structureService) moveAcrossDays(ctx context.Context, planID, exerciseID, fromDayID, toDayID primitive.ObjectID, toIndex int) (*domain.ApplyReport, error) {
	sourceIDs, _, err := s.exerciseSnapshot(ctx, planID, fromDayID)
	if err != nil {
		return nil, err
	}
	destIDs, _, err := s.exerciseSnapshot(ctx, planID, toDayID)
	if err != nil {
		return nil, err
	}

	sourceAssign, err := ordering.Remove(sourceIDs, exerciseID)
	if err != nil {
		return rejected(domain.CodeConflict), nil
	}
	destAssign, err := ordering.InsertAt(destIDs, exerciseID, toIndex)
	if err != nil {
		return rejected(domain.CodeConflict), nil
	}

	// Revalidate both ends against ground truth before the first write.
	freshSourceIDs, freshSource, err := s.exerciseSnapshot(ctx, planID, fromDayID)
	if err != nil {
		return nil, err
	}
	freshDestIDs, freshDest, err := s.exerciseSnapshot(ctx, planID, toDayID)
	if err != nil {
		return nil, err
	}
	if !sameIDSet(sourceIDs, freshSourceIDs) || !sameIDSet(destIDs, freshDestIDs) {
		return rejected(domain.CodeConflict), nil
	}

	// Destination side: shifted residents plus the moved exercise itself,
	// which carries its new parent.
	destWrites := exerciseWrites(freshDest, destAssign)
	movedUpdate := repository.ExercisePositionUpdate{
		ID:       exerciseID,
		Position: destAssign[exerciseID],
		DayID:    &toDayID,
	}
	destWrites = append(destWrites, movedUpdate)
	sortWrites(destWrites)

	sourceWrites := exerciseWrites(freshSource, sourceAssign)

	destOutcomes := s.exerciseRepo.UpdatePositions(ctx, destWrites)
	if failedCount(destOutcomes) > 0 {
		// Source side is not attempted after a destination failure; its
		// intended writes are reported as not applied.
		return reportFromOutcomes(destOutcomes, writeIDs(sourceWrites)), nil
	}

	sourceOutcomes := s.exerciseRepo.UpdatePositions(ctx, sourceWrites)
	return reportFromOutcomes(append(destOutcomes, sourceOutcomes...), nil), nil
}

// === Structure read ===

func (s *structureService) GetPlanStructure(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*PlanTree, error) {
	if _, err := s.gate.Authorize(ctx, actor, planID); err != nil {
		return nil, err
	}
	tree, err := s.loader.loadDays(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.loader.loadExercises(ctx, tree, tree.DayIDs()...); err != nil {
		return nil, err
	}
	return tree, nil
}

// === Helpers ===

// authorize maps gate outcomes to rejection reports. A nil, nil return means
// the actor holds full capability.
func (s *structureService) authorize(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*domain.ApplyReport, error) {
	_, err := s.gate.Authorize(ctx, actor, planID)
	switch {
	case err == nil:
		return nil, nil
	case errors.Is(err, ErrPlanAccessDenied):
		return rejected(domain.CodeForbidden), nil
	case errors.Is(err, ErrPlanNotFound):
		return rejected(domain.CodePlanNotFound), nil
	default:
		return nil, err
	}
}

// dayInPlan verifies the day exists and belongs to the authorized plan.
func (s *structureService) dayInPlan(ctx context.Context, planID, dayID primitive.ObjectID) (*domain.ApplyReport, error) {
	day, err := s.dayRepo.GetByID(ctx, dayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return rejected(domain.CodeNotFound), nil
		}
		return nil, err
	}
	if day.PlanID != planID {
		return rejected(domain.CodeNotFound), nil
	}
	return nil, nil
}

// exerciseSnapshot loads one day's exercises in position order.
func (s *structureService) exerciseSnapshot(ctx context.Context, planID, dayID primitive.ObjectID) ([]primitive.ObjectID, []domain.DayExercise, error) {
	tree := &PlanTree{PlanID: planID, Exercises: map[primitive.ObjectID][]domain.DayExercise{}}
	if err := s.loader.loadExercises(ctx, tree, dayID); err != nil {
		return nil, nil, err
	}
	return tree.ExerciseIDsOf(dayID), tree.Exercises[dayID], nil
}

// dayWrites diffs the assignment against current positions; unchanged rows
// produce no write.
func dayWrites(days []domain.PlanDay, assignment map[primitive.ObjectID]int) []repository.DayPositionUpdate {
	var writes []repository.DayPositionUpdate
	for _, d := range days {
		if pos, ok := assignment[d.ID]; ok && pos != d.Position {
			writes = append(writes, repository.DayPositionUpdate{ID: d.ID, Position: pos})
		}
	}
	sort.Slice(writes, func(i, j int) bool { return writes[i].Position < writes[j].Position })
	return writes
}

// exerciseWrites diffs the assignment against current positions; unchanged
// rows produce no write. The moved exercise of a cross-day move is not in the
// diffed slice and gets its re-parenting write appended by the caller.
func exerciseWrites(exercises []domain.DayExercise, assignment map[primitive.ObjectID]int) []repository.ExercisePositionUpdate {
	var writes []repository.ExercisePositionUpdate
	for _, e := range exercises {
		if pos, ok := assignment[e.ID]; ok && pos != e.Position {
			writes = append(writes, repository.ExercisePositionUpdate{ID: e.ID, Position: pos})
		}
	}
	sortWrites(writes)
	return writes
}

func sortWrites(writes []repository.ExercisePositionUpdate) {
	sort.Slice(writes, func(i, j int) bool { return writes[i].Position < writes[j].Position })
}

func writeIDs(writes []repository.ExercisePositionUpdate) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, len(writes))
	for i, w := range writes {
		ids[i] = w.ID
	}
	return ids
}

// orderedIDs inverts a dense assignment back into an id list.
func orderedIDs(assignment map[primitive.ObjectID]int) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, len(assignment))
	for id, pos := range assignment {
		ids[pos] = id
	}
	return ids
}

func sameIDSet(a, b []primitive.ObjectID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[primitive.ObjectID]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

func failedCount(outcomes []repository.WriteOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// rejected builds a rejection report; no writes occurred.
func rejected(code domain.RejectCode) *domain.ApplyReport {
	return &domain.ApplyReport{
		ReportID: uuid.NewString(),
		Status:   domain.StatusRejected,
		Code:     code,
	}
}

func appliedReport(appliedIDs []primitive.ObjectID) *domain.ApplyReport {
	return &domain.ApplyReport{
		ReportID:   uuid.NewString(),
		Status:     domain.StatusApplied,
		AppliedIDs: appliedIDs,
	}
}

// reportFromOutcomes partitions per-row outcomes into a final report.
// notAttempted lists rows whose writes were planned but never issued (source
// side of a move after a destination failure).
func reportFromOutcomes(outcomes []repository.WriteOutcome, notAttempted []primitive.ObjectID) *domain.ApplyReport {
	report := &domain.ApplyReport{ReportID: uuid.NewString()}
	for _, o := range outcomes {
		if o.Err != nil {
			report.FailedIDs = append(report.FailedIDs, o.ID)
		} else {
			report.AppliedIDs = append(report.AppliedIDs, o.ID)
		}
	}
	report.FailedIDs = append(report.FailedIDs, notAttempted...)

	if len(report.FailedIDs) == 0 {
		report.Status = domain.StatusApplied
		return report
	}
	report.Status = domain.StatusPartiallyApplied
	report.Code = domain.CodePartialWriteFailure
	log.Printf("WARN: partial write failure report=%s applied=%d failed=%d",
		report.ReportID, len(report.AppliedIDs), len(report.FailedIDs))
	return report
}
