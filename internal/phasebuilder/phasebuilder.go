// Package phasebuilder constructs and solves the boolean decision model for
// a single phase level of the course scheduling pipeline.
//
// There is no CP-SAT (or any other constraint-programming) binding anywhere
// in reach of this module, so the "model" here is not built and handed to an
// external solver — it is solved in-process by a most-constrained-first
// greedy placement pass followed by a bounded local-search repair, in the
// same spirit as a weighted CSP solver. Hard constraints (demand, instructor
// exclusivity, slot capacity, no-same-day) are never violated by an accepted
// assignment; soft constraints (student clashes, required-pair clashes,
// non-preferred slots, consecutive days) are priced into a weighted
// objective that the repair pass tries to drive down within its time
// budget, exactly mirroring the phase's CP-SAT equivalent: a FEASIBLE but
// possibly suboptimal result is accepted.
package phasebuilder

import (
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/brightpath-edu/coursesched/internal/domain"
	appErrors "github.com/brightpath-edu/coursesched/pkg/errors"
)

// Level is a phase level 1..6, cumulative per spec.
type Level int

const (
	Level1Demand Level = iota + 1
	Level2InstructorExclusivity
	Level3SlotCapacity
	Level4StudentClash
	Level5NoSameDay
	Level6NoConsecutiveDays
)

// Metrics reports the objective breakdown for a solved (or attempted) phase.
type Metrics struct {
	StudentConflicts  int
	RequiredConflicts int
	NonPreferredUses  int
	ConsecConflicts   int
	Objective         float64
}

// Result is the outcome of one phase solve attempt.
type Result struct {
	Schedule *domain.Schedule
	Feasible bool
	Metrics  Metrics
}

// Builder solves a phase's decision model. It is safe for sequential reuse
// across phases but not for concurrent calls (it carries a single rng).
type Builder struct {
	rng         *rand.Rand
	timeBudget  time.Duration
	maxAttempts int
	maxRepairs  int
	logger      *zap.Logger
}

// New constructs a Builder. seed drives tie-breaking and restart order for
// reproducible runs; timeBudget mirrors the 60s-per-phase solver contract —
// every attempt loop below checks against it.
func New(seed int64, timeBudget time.Duration, logger *zap.Logger) *Builder {
	if timeBudget <= 0 {
		timeBudget = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		rng:         rand.New(rand.NewSource(seed)),
		timeBudget:  timeBudget,
		maxAttempts: 25,
		maxRepairs:  200,
		logger:      logger,
	}
}

// activeConstraints resolves which constraint families are live at a level,
// gated by the bundle's toggles. Required-pair penalty rides on AddNoSameDay
// exactly like the source it is ported from — a quirk, not a typo (see
// DESIGN.md).
type activeConstraints struct {
	instructorExclusivity bool
	slotCapacity          bool
	studentClash          bool
	requiredClash         bool
	noSameDay             bool
	noConsecDays          bool
}

func resolveActive(level Level, t domain.Toggles) activeConstraints {
	var a activeConstraints
	if level >= Level2InstructorExclusivity {
		a.instructorExclusivity = t.AddProfConstraints
	}
	if level >= Level3SlotCapacity {
		a.slotCapacity = t.AddTimeslotCapacity
	}
	if level >= Level4StudentClash {
		a.studentClash = t.AddStudentConflicts
		a.requiredClash = t.AddNoSameDay
	}
	if level >= Level5NoSameDay {
		a.noSameDay = t.AddNoSameDay
	}
	if level >= Level6NoConsecutiveDays {
		a.noConsecDays = t.AddNoConsecDays
	}
	return a
}

// Solve attempts to build and satisfy the phase-L model. A false Feasible
// means every attempt within the time budget left at least one course short
// of its demand under the active hard constraints — the driver treats this
// identically to a solver timeout.
func (b *Builder) Solve(bundle *domain.InputBundle, level Level) Result {
	deadline := time.Now().Add(b.timeBudget)
	active := resolveActive(level, bundle.Toggles)

	// Pre-check (L1): demand must not exceed the candidate count, fast-fail
	// before any placement attempt.
	for c := range bundle.Courses {
		if bundle.ClassesFor(c) > len(bundle.CandidateSlots(c)) {
			return Result{Feasible: false}
		}
	}

	courses := orderedCourses(bundle)

	var state *placement
	var exhaustedCourse domain.CourseID
	for attempt := 0; attempt < b.maxAttempts && time.Now().Before(deadline); attempt++ {
		order := make([]domain.CourseID, len(courses))
		copy(order, courses)
		if attempt > 0 {
			b.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
			sort.SliceStable(order, func(i, j int) bool {
				return len(bundle.CandidateSlots(order[i])) < len(bundle.CandidateSlots(order[j]))
			})
		}

		p := newPlacement(bundle)
		ok := true
		for _, c := range order {
			if !p.assignCourse(bundle, c, active, b.rng) {
				ok = false
				exhaustedCourse = c
				break
			}
		}
		if ok {
			state = p
			break
		}
	}

	if state == nil {
		// Every restart ran out of attempts without placing exhaustedCourse
		// into a conflict-free slot under the active hard constraints.
		b.logger.Warn("phase exhausted candidate slots",
			zap.Int("level", int(level)),
			zap.String("course", string(exhaustedCourse)),
			zap.Error(appErrors.Clone(appErrors.ErrNoSlotsAvailable, "no remaining candidate slots for course "+string(exhaustedCourse))),
		)
		return Result{Feasible: false}
	}

	b.repair(bundle, state, active, deadline)

	schedule := state.toSchedule()
	metrics := computeMetrics(bundle, schedule, active)
	return Result{Schedule: schedule, Feasible: true, Metrics: metrics}
}

func orderedCourses(bundle *domain.InputBundle) []domain.CourseID {
	courses := make([]domain.CourseID, 0, len(bundle.Courses))
	for c := range bundle.Courses {
		courses = append(courses, c)
	}
	sort.SliceStable(courses, func(i, j int) bool {
		li, lj := len(bundle.CandidateSlots(courses[i])), len(bundle.CandidateSlots(courses[j]))
		if li != lj {
			return li < lj
		}
		return courses[i] < courses[j]
	})
	return courses
}

// repair runs a bounded hill-climbing pass over the soft objective, trying
// single-slot swaps that keep every hard constraint satisfied. Mirrors the
// teacher's repairGaps local-search loop, generalized to the weighted
// student/required/non-preferred/consecutive objective.
func (b *Builder) repair(bundle *domain.InputBundle, p *placement, active activeConstraints, deadline time.Time) {
	if !active.studentClash && !active.requiredClash && !active.noConsecDays {
		return
	}
	courses := orderedCourses(bundle)
	current := computeMetrics(bundle, p.toSchedule(), active).Objective

	for iter := 0; iter < b.maxRepairs && time.Now().Before(deadline); iter++ {
		improved := false
		for _, c := range courses {
			for _, oldSlot := range p.slotsOf(c) {
				for _, newSlot := range bundle.CandidateSlots(c) {
					if newSlot == oldSlot || p.courseHasSlot(c, newSlot) {
						continue
					}
					if !p.canSwap(bundle, c, oldSlot, newSlot, active) {
						continue
					}
					p.swap(bundle, c, oldSlot, newSlot, active)
					candidate := computeMetrics(bundle, p.toSchedule(), active).Objective
					if candidate < current {
						current = candidate
						improved = true
					} else {
						p.swap(bundle, c, newSlot, oldSlot, active)
					}
				}
			}
		}
		if !improved {
			break
		}
	}
}
