package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brightpath-edu/coursesched/internal/diagnostics"
	"github.com/brightpath-edu/coursesched/internal/domain"
	"github.com/brightpath-edu/coursesched/internal/driver"
	"github.com/brightpath-edu/coursesched/internal/dto"
	appErrors "github.com/brightpath-edu/coursesched/pkg/errors"
)

// termRun is the last bundle/schedule pair solved for a term, kept so the
// search endpoints can analyze it without re-solving.
type termRun struct {
	bundle   *domain.InputBundle
	schedule *domain.Schedule
}

// ScheduleService runs the phase pipeline for a term and caches the last
// feasible result for the analyzer to search against.
type ScheduleService struct {
	logger  *zap.Logger
	metrics *MetricsService

	mu   sync.RWMutex
	runs map[string]termRun
}

// NewScheduleService constructs a ScheduleService. logger and metrics may be
// nil; both are handled nil-safely throughout.
func NewScheduleService(logger *zap.Logger, metrics *MetricsService) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		logger:  logger,
		metrics: metrics,
		runs:    make(map[string]termRun),
	}
}

// Generate solves the phase pipeline for req and caches the outcome under
// req.TermID for subsequent search queries.
func (s *ScheduleService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	bundle := toBundle(req)

	if err := validateBundle(bundle); err != nil {
		return nil, err
	}

	outcome := s.solve(bundle, req.Seed)

	if outcome.Feasible || outcome.Schedule != nil {
		s.mu.Lock()
		s.runs[req.TermID] = termRun{bundle: bundle, schedule: outcome.Schedule}
		s.mu.Unlock()
	}

	if !outcome.Feasible {
		s.logger.Warn("phase pipeline infeasible",
			zap.String("term_id", req.TermID),
			zap.Int("failed_at", int(outcome.FailedAt)),
			zap.Error(appErrors.Clone(appErrors.ErrInfeasible, fmt.Sprintf("phase %d infeasible for term %s", outcome.FailedAt, req.TermID))),
		)
	}

	return toResponse(bundle, outcome), nil
}

// validateBundle rejects structurally malformed input and input that is
// deterministically infeasible before the pipeline ever runs: a reference to
// a course that doesn't exist, a course with no candidate offerings, or a
// course whose weekly demand cannot fit in its candidate slot count no
// matter how the solver orders its search.
func validateBundle(bundle *domain.InputBundle) error {
	if len(bundle.Courses) == 0 {
		return appErrors.Clone(appErrors.ErrMalformedInput, "bundle has no courses")
	}

	for student, courses := range bundle.StudentCourseMap {
		for _, c := range courses {
			if _, ok := bundle.Courses[c]; !ok {
				return appErrors.Clone(appErrors.ErrMalformedInput, fmt.Sprintf("student %s is enrolled in unknown course %s", student, c))
			}
		}
	}

	for c := range bundle.Courses {
		supply := len(bundle.CandidateSlots(c))
		if supply == 0 {
			return appErrors.Clone(appErrors.ErrMalformedInput, fmt.Sprintf("course %s has no candidate offerings", c))
		}
		if demand := bundle.ClassesFor(c); demand > supply {
			return appErrors.Clone(appErrors.ErrDemandExceedsSupply, fmt.Sprintf("course %s needs %d classes per week but only %d candidate slots are offered", c, demand, supply))
		}
	}

	return nil
}

// Bundle returns the last solved bundle/schedule for a term, if any.
func (s *ScheduleService) Bundle(termID string) (*domain.InputBundle, *domain.Schedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[termID]
	if !ok {
		return nil, nil, false
	}
	return run.bundle, run.schedule, true
}

func (s *ScheduleService) solve(bundle *domain.InputBundle, seed int64) driver.Outcome {
	const phaseBudget = 60 * time.Second

	start := time.Now()
	outcome := driver.Run(bundle, seed, phaseBudget, s.logger)
	elapsed := time.Since(start)

	for _, phase := range outcome.Phases {
		s.metrics.ObservePhase(int(phase.Level), phase.Feasible, phase.Metrics.Objective, elapsed)
	}
	return outcome
}

func toBundle(req dto.GenerateScheduleRequest) *domain.InputBundle {
	bundle := &domain.InputBundle{
		Courses:          make(map[domain.CourseID][]domain.CandidateOffering),
		StudentCourseMap: make(map[domain.StudentID][]domain.CourseID),
		ClassesPerWeek:   make(map[domain.CourseID]int),
		CourseTypeOf:     make(map[domain.CourseID]domain.CourseType),
		NonPreferredSlots: make(map[domain.SlotID]bool),
		Toggles: domain.Toggles{
			AddProfConstraints:  req.AddProfConstraints,
			AddTimeslotCapacity: req.AddTimeslotCapacity,
			AddStudentConflicts: req.AddStudentConflicts,
			AddNoSameDay:        req.AddNoSameDay,
			AddNoConsecDays:     req.AddNoConsecDays,
			MaxClassesPerSlot:   req.MaxClassesPerSlot,
		},
	}

	for _, c := range req.Courses {
		courseID := domain.CourseID(c.CourseID)
		if c.ClassesPerWeek > 0 {
			bundle.ClassesPerWeek[courseID] = c.ClassesPerWeek
		}
		if c.Type != "" {
			bundle.CourseTypeOf[courseID] = domain.CourseType(c.Type)
		}
		for _, o := range c.Offerings {
			slots := make([]domain.SlotID, len(o.Slots))
			for i, s := range o.Slots {
				slots[i] = domain.SlotID(s)
			}
			bundle.Courses[courseID] = append(bundle.Courses[courseID], domain.CandidateOffering{
				Instructor: domain.InstructorID(o.Instructor),
				Slots:      slots,
			})
		}
	}

	for student, courses := range req.StudentEnrollments {
		ids := make([]domain.CourseID, len(courses))
		for i, c := range courses {
			ids[i] = domain.CourseID(c)
		}
		bundle.StudentCourseMap[domain.StudentID(student)] = ids
	}

	for _, s := range req.NonPreferredSlots {
		bundle.NonPreferredSlots[domain.SlotID(s)] = true
	}

	return bundle
}

func toResponse(bundle *domain.InputBundle, outcome driver.Outcome) *dto.GenerateScheduleResponse {
	resp := &dto.GenerateScheduleResponse{
		RunID:     outcome.RunID,
		Feasible:  outcome.Feasible,
		LastPhase: int(outcome.LastPhase),
	}

	for _, phase := range outcome.Phases {
		resp.Phases = append(resp.Phases, dto.PhaseOutcomeResponse{
			Level:             int(phase.Level),
			Feasible:          phase.Feasible,
			StudentConflicts:  phase.Metrics.StudentConflicts,
			RequiredConflicts: phase.Metrics.RequiredConflicts,
			NonPreferredUses:  phase.Metrics.NonPreferredUses,
			ConsecConflicts:   phase.Metrics.ConsecConflicts,
			Objective:         phase.Metrics.Objective,
		})
	}

	if !outcome.Feasible {
		resp.FailedPhase = int(outcome.FailedAt)
		resp.Diagnosis = diagnostics.Report(outcome.FailedAt, bundle)
		return resp
	}

	for _, a := range outcome.Schedule.Assignments {
		resp.Assignments = append(resp.Assignments, dto.AssignmentResponse{
			CourseID: string(a.Course),
			Slot:     string(a.Slot),
		})
	}
	return resp
}
