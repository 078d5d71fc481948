package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/brightpath-edu/coursesched/pkg/errors"

	"github.com/brightpath-edu/coursesched/internal/analyzer"
	"github.com/brightpath-edu/coursesched/internal/dto"
)

// SearchService answers conflict-analysis queries against a term's last
// solved schedule.
type SearchService struct {
	schedules *ScheduleService
	cache     analyzer.QueryCache
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewSearchService constructs a SearchService. cache may be nil, in which
// case every query recomputes.
func NewSearchService(schedules *ScheduleService, cache analyzer.QueryCache, logger *zap.Logger, metrics *MetricsService) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{schedules: schedules, cache: cache, logger: logger, metrics: metrics}
}

// Search looks up the term's last solved schedule and analyzes it for the
// given query.
func (s *SearchService) Search(ctx context.Context, req dto.SearchRequest) (*dto.SearchResponse, error) {
	bundle, schedule, ok := s.schedules.Bundle(req.TermID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrQueryNotFound, "no solved schedule for term "+req.TermID)
	}

	a := analyzer.New(bundle, schedule)
	ignoreBusy := req.IgnoreInstructorBusySlots
	ignoreTeaching := req.IgnoreInstructorTeachingClashes
	a.SetInstructorConstraintOptions(&ignoreBusy, &ignoreTeaching)

	start := time.Now()
	var result analyzer.SearchResult
	var err error
	if s.cache != nil {
		cacheKey := fmt.Sprintf("%s:%s:%t:%t", req.TermID, req.Query, req.IgnoreInstructorBusySlots, req.IgnoreInstructorTeachingClashes)
		var hit bool
		result, hit, err = s.cache.Get(ctx, cacheKey)
		if err == nil && !hit {
			result = a.Search(req.Query)
			err = s.cache.Set(ctx, cacheKey, result, 5*time.Minute)
		}
	} else {
		result = a.Search(req.Query)
	}
	s.metrics.ObserveSearch(result.Found, time.Since(start))
	if err != nil {
		return nil, err
	}

	return toSearchResponse(result), nil
}

// Summary returns the term's full clash summary table.
func (s *SearchService) Summary(ctx context.Context, termID string) ([]dto.SummaryRowResponse, error) {
	bundle, schedule, ok := s.schedules.Bundle(termID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrQueryNotFound, "no solved schedule for term "+termID)
	}

	a := analyzer.New(bundle, schedule)
	rows := a.SummaryTable()
	out := make([]dto.SummaryRowResponse, len(rows))
	for i, r := range rows {
		slots := make([]string, len(r.Slots))
		for j, s := range r.Slots {
			slots[j] = string(s)
		}
		out[i] = dto.SummaryRowResponse{
			CourseID:           string(r.Course),
			ScheduledSlots:     slots,
			TotalStudents:      r.TotalStudents,
			ConflictedStudents: r.ConflictedStudents,
			ConflictRate:       r.ConflictRate,
			HasConflicts:       r.HasConflicts,
		}
	}
	return out, nil
}

func toSearchResponse(result analyzer.SearchResult) *dto.SearchResponse {
	resp := &dto.SearchResponse{QueryID: result.QueryID, Found: result.Found, Message: result.Message}
	for _, c := range result.Suggestions {
		resp.Suggestions = append(resp.Suggestions, string(c))
	}
	if !result.Found {
		return resp
	}

	resp.Matches = make(map[string]dto.CourseAnalysisResponse, len(result.Matches))
	for courseID, analysis := range result.Matches {
		resp.Matches[string(courseID)] = toCourseAnalysisResponse(analysis)
	}
	return resp
}

func toCourseAnalysisResponse(a analyzer.CourseAnalysis) dto.CourseAnalysisResponse {
	out := dto.CourseAnalysisResponse{
		CourseID:                string(a.Course),
		TotalEnrolledStudents:   len(a.EnrolledStudents),
		ConflictRate:            a.ConflictRate,
		HasConflicts:            a.HasConflicts,
		CurrentSlotAnalysis:     make(map[string]dto.SlotConflictsResponse, len(a.CurrentSlotAnalysis)),
		AlternativeSlotAnalysis: make(map[string]dto.SlotConflictsResponse, len(a.AlternativeSlotAnalysis)),
	}
	for _, s := range a.ScheduledSlots {
		out.ScheduledSlots = append(out.ScheduledSlots, string(s))
	}
	for _, s := range a.ConflictedStudents {
		out.ConflictedStudents = append(out.ConflictedStudents, string(s))
	}
	for slot, sc := range a.CurrentSlotAnalysis {
		out.CurrentSlotAnalysis[string(slot)] = toSlotConflictsResponse(sc)
	}
	for slot, sc := range a.AlternativeSlotAnalysis {
		out.AlternativeSlotAnalysis[string(slot)] = toSlotConflictsResponse(sc)
	}
	return out
}

func toSlotConflictsResponse(sc analyzer.SlotConflicts) dto.SlotConflictsResponse {
	out := dto.SlotConflictsResponse{
		Slot:                string(sc.Slot),
		TotalEnrolled:       sc.TotalEnrolled,
		InstructorAvailable: sc.InstructorAvailable,
		ConflictRate:        sc.ConflictRate,
	}
	for _, c := range sc.Conflicts {
		conflicting := make([]dto.ConflictingCourseResponse, len(c.Conflicting))
		for i, cc := range c.Conflicting {
			conflicting[i] = dto.ConflictingCourseResponse{CourseID: string(cc.Course), Type: string(cc.Type)}
		}
		out.Conflicts = append(out.Conflicts, dto.StudentConflictResponse{
			StudentID:   string(c.Student),
			Conflicting: conflicting,
		})
	}
	return out
}
