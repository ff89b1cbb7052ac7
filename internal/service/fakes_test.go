package service

import (
	"alcyxob/plan-engine/internal/domain"
	"alcyxob/plan-engine/internal/repository"
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the persistence adapter. They honor the same
// contract as the mongo implementations: ordered reads by parent, per-row
// position writes with per-row outcomes, no multi-row atomicity.

type fakePlanRepo struct {
	plans     map[primitive.ObjectID]*domain.TrainingPlan
	readCalls int
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[primitive.ObjectID]*domain.TrainingPlan{}}
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	r.readCalls++
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *plan
	return &cp, nil
}

func (r *fakePlanRepo) GetOwnership(_ context.Context, planID primitive.ObjectID) (primitive.ObjectID, error) {
	r.readCalls++
	plan, ok := r.plans[planID]
	if !ok {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return plan.TrainerID, nil
}

type fakeDayRepo struct {
	days      map[primitive.ObjectID]*domain.PlanDay
	failOn    map[primitive.ObjectID]error
	readCalls int
	writes    int
	// afterRead fires at the end of every GetByPlanID, with the 1-based read
	// count. Tests use it to mutate the store between the snapshot read and
	// the revalidation read.
	afterRead func(readCount int)
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{
		days:   map[primitive.ObjectID]*domain.PlanDay{},
		failOn: map[primitive.ObjectID]error{},
	}
}

func (r *fakeDayRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PlanDay, error) {
	r.readCalls++
	day, ok := r.days[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *day
	return &cp, nil
}

func (r *fakeDayRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.PlanDay, error) {
	r.readCalls++
	var days []domain.PlanDay
	for _, d := range r.days {
		if d.PlanID == planID {
			days = append(days, *d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Position < days[j].Position })
	if r.afterRead != nil {
		r.afterRead(r.readCalls)
	}
	return days, nil
}

func (r *fakeDayRepo) UpdatePositions(_ context.Context, updates []repository.DayPositionUpdate) []repository.WriteOutcome {
	outcomes := make([]repository.WriteOutcome, 0, len(updates))
	for _, u := range updates {
		r.writes++
		if err, fail := r.failOn[u.ID]; fail {
			outcomes = append(outcomes, repository.WriteOutcome{ID: u.ID, Err: err})
			continue
		}
		day, ok := r.days[u.ID]
		if !ok {
			outcomes = append(outcomes, repository.WriteOutcome{ID: u.ID, Err: repository.ErrNotFound})
			continue
		}
		day.Position = u.Position
		outcomes = append(outcomes, repository.WriteOutcome{ID: u.ID})
	}
	return outcomes
}

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.DayExercise
	failOn    map[primitive.ObjectID]error
	readCalls int
	writes    int
	afterRead func(readCount int)
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{
		exercises: map[primitive.ObjectID]*domain.DayExercise{},
		failOn:    map[primitive.ObjectID]error{},
	}
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.DayExercise, error) {
	r.readCalls++
	exercise, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *exercise
	return &cp, nil
}

func (r *fakeExerciseRepo) GetByDayID(_ context.Context, dayID primitive.ObjectID) ([]domain.DayExercise, error) {
	r.readCalls++
	var exercises []domain.DayExercise
	for _, e := range r.exercises {
		if e.DayID == dayID {
			exercises = append(exercises, *e)
		}
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].Position < exercises[j].Position })
	if r.afterRead != nil {
		r.afterRead(r.readCalls)
	}
	return exercises, nil
}

func (r *fakeExerciseRepo) UpdatePositions(_ context.Context, updates []repository.ExercisePositionUpdate) []repository.WriteOutcome {
	outcomes := make([]repository.WriteOutcome, 0, len(updates))
	for _, u := range updates {
		r.writes++
		if err, fail := r.failOn[u.ID]; fail {
			outcomes = append(outcomes, repository.WriteOutcome{ID: u.ID, Err: err})
			continue
		}
		exercise, ok := r.exercises[u.ID]
		if !ok {
			outcomes = append(outcomes, repository.WriteOutcome{ID: u.ID, Err: repository.ErrNotFound})
			continue
		}
		exercise.Position = u.Position
		if u.DayID != nil {
			exercise.DayID = *u.DayID
		}
		outcomes = append(outcomes, repository.WriteOutcome{ID: u.ID})
	}
	return outcomes
}

// fixture bundles the fakes with a wired service and seeding helpers.
type fixture struct {
	planRepo     *fakePlanRepo
	dayRepo      *fakeDayRepo
	exerciseRepo *fakeExerciseRepo
	svc          StructureService
}

func newFixture() *fixture {
	f := &fixture{
		planRepo:     newFakePlanRepo(),
		dayRepo:      newFakeDayRepo(),
		exerciseRepo: newFakeExerciseRepo(),
	}
	f.svc = NewStructureService(f.planRepo, f.dayRepo, f.exerciseRepo)
	return f
}

func (f *fixture) seedPlan(trainerID primitive.ObjectID) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.planRepo.plans[id] = &domain.TrainingPlan{ID: id, TrainerID: trainerID, Name: "plan"}
	return id
}

func (f *fixture) seedDay(planID primitive.ObjectID, title string, position int) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.dayRepo.days[id] = &domain.PlanDay{ID: id, PlanID: planID, Title: title, Position: position}
	return id
}

func (f *fixture) seedExercise(dayID primitive.ObjectID, name string, position int) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.exerciseRepo.exercises[id] = &domain.DayExercise{ID: id, DayID: dayID, Name: name, Position: position}
	return id
}

// dayOrder returns a plan's day ids sorted by stored position, reading the
// backing map directly so assertions never disturb read counters or hooks.
func (f *fixture) dayOrder(planID primitive.ObjectID) []primitive.ObjectID {
	var days []domain.PlanDay
	for _, d := range f.dayRepo.days {
		if d.PlanID == planID {
			days = append(days, *d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Position < days[j].Position })
	ids := make([]primitive.ObjectID, len(days))
	for i, d := range days {
		ids[i] = d.ID
	}
	return ids
}

// exerciseOrder returns a day's exercise ids sorted by stored position.
func (f *fixture) exerciseOrder(dayID primitive.ObjectID) []primitive.ObjectID {
	var exercises []domain.DayExercise
	for _, e := range f.exerciseRepo.exercises {
		if e.DayID == dayID {
			exercises = append(exercises, *e)
		}
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].Position < exercises[j].Position })
	ids := make([]primitive.ObjectID, len(exercises))
	for i, e := range exercises {
		ids[i] = e.ID
	}
	return ids
}

func trainerActor(id primitive.ObjectID) domain.Actor {
	return domain.Actor{ID: id, Role: domain.RoleTrainer}
}

func adminActor() domain.Actor {
	return domain.Actor{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
}
