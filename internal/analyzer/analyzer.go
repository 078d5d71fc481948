// Package analyzer searches a solved schedule for a course and reports
// student clashes against its current slots, plus which alternative slots
// would be conflict-free, ported from the reference scheduler's
// CourseConflictSearcher. The emoji-formatted report renderer from that
// module is a legacy UI concern and is not carried over.
package analyzer

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/brightpath-edu/coursesched/internal/domain"
)

// ConflictingCourse names a course sharing a slot, with its classification.
type ConflictingCourse struct {
	Course domain.CourseID
	Type   domain.CourseType
}

// StudentConflict is one student's clash in a given slot.
type StudentConflict struct {
	Student     domain.StudentID
	Conflicting []ConflictingCourse
	AllInSlot   []domain.CourseID
}

// SlotConflicts summarizes one slot's conflicts for a course, whether that
// slot is where the course currently sits or one it could move to.
type SlotConflicts struct {
	Slot                domain.SlotID
	TotalEnrolled       int
	Conflicts           []StudentConflict
	ConflictedStudents  []domain.StudentID
	ConflictFree        bool
	InstructorAvailable bool
	ConflictRate        float64
}

// CourseAnalysis is the full report for one course.
type CourseAnalysis struct {
	Course                  domain.CourseID
	ScheduledSlots          []domain.SlotID
	EnrolledStudents        []domain.StudentID
	ConflictedStudents      []domain.StudentID
	ConflictRate            float64
	CurrentSlotAnalysis     map[domain.SlotID]SlotConflicts
	AlternativeSlotAnalysis map[domain.SlotID]SlotConflicts
	HasConflicts            bool
}

// SearchResult is the outcome of a course name search. QueryID identifies
// this particular "what-if" computation for diagnostic correlation — it is
// assigned once per Search call and carried through the cache so a cached
// hit still reports the ID of the run that originally computed it.
type SearchResult struct {
	QueryID     string
	Found       bool
	Message     string
	Suggestions []domain.CourseID
	Matches     map[domain.CourseID]CourseAnalysis
}

// CourseSummary is one row of the all-courses summary table.
type CourseSummary struct {
	Course             domain.CourseID
	ScheduledSlots     int
	Slots              []domain.SlotID
	TotalStudents      int
	ConflictedStudents int
	ConflictRate       float64
	HasConflicts       bool
}

// Analyzer answers conflict questions against one solved schedule.
type Analyzer struct {
	bundle   *domain.InputBundle
	schedule *domain.Schedule

	ignoreInstructorBusySlots       bool
	ignoreInstructorTeachingClashes bool

	scheduleLookup map[domain.CourseID][]domain.SlotID
	studentSlots   map[domain.StudentID]map[domain.SlotID][]domain.CourseID
}

// New builds an Analyzer over a bundle and its solved schedule. Both
// instructor-constraint ignore flags default to false (constraints respected).
func New(bundle *domain.InputBundle, schedule *domain.Schedule) *Analyzer {
	a := &Analyzer{
		bundle:         bundle,
		schedule:       schedule,
		scheduleLookup: schedule.ByCourse(),
	}
	a.studentSlots = make(map[domain.StudentID]map[domain.SlotID][]domain.CourseID)
	for student, courses := range bundle.StudentCourseMap {
		slots := make(map[domain.SlotID][]domain.CourseID)
		for _, c := range courses {
			for _, s := range a.scheduleLookup[c] {
				slots[s] = append(slots[s], c)
			}
		}
		a.studentSlots[student] = slots
	}
	return a
}

// SetInstructorConstraintOptions updates the two independent ignore flags.
// A nil pointer leaves the corresponding flag unchanged.
func (a *Analyzer) SetInstructorConstraintOptions(ignoreBusySlots, ignoreTeachingClashes *bool) {
	if ignoreBusySlots != nil {
		a.ignoreInstructorBusySlots = *ignoreBusySlots
	}
	if ignoreTeachingClashes != nil {
		a.ignoreInstructorTeachingClashes = *ignoreTeachingClashes
	}
}

// InstructorConstraintOptions reports the current ignore flags.
func (a *Analyzer) InstructorConstraintOptions() (ignoreBusySlots, ignoreTeachingClashes bool) {
	return a.ignoreInstructorBusySlots, a.ignoreInstructorTeachingClashes
}

// AllCourses lists every course appearing in the schedule, alphabetically.
func (a *Analyzer) AllCourses() []domain.CourseID {
	var out []domain.CourseID
	for c := range a.scheduleLookup {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Search does a case-insensitive substring match against every scheduled
// course name. A miss returns up to 5 suggestions built the same way.
func (a *Analyzer) Search(query string) SearchResult {
	needle := strings.ToLower(query)
	var matches []domain.CourseID
	for c := range a.scheduleLookup {
		if strings.Contains(strings.ToLower(string(c)), needle) {
			matches = append(matches, c)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })

	if len(matches) == 0 {
		return SearchResult{
			QueryID:     uuid.NewString(),
			Found:       false,
			Message:     "course '" + query + "' not found in the schedule",
			Suggestions: a.suggestions(query),
		}
	}

	out := SearchResult{QueryID: uuid.NewString(), Found: true, Matches: make(map[domain.CourseID]CourseAnalysis, len(matches))}
	for _, c := range matches {
		out.Matches[c] = a.AnalyzeCourse(c)
	}
	return out
}

func (a *Analyzer) suggestions(query string) []domain.CourseID {
	parts := strings.Fields(strings.ToLower(query))
	var out []domain.CourseID
	for _, c := range a.AllCourses() {
		lower := strings.ToLower(string(c))
		for _, part := range parts {
			if strings.Contains(lower, part) {
				out = append(out, c)
				break
			}
		}
		if len(out) == 5 {
			break
		}
	}
	return out
}

// AnalyzeCourse reports a course's current conflicts and, for every slot it
// is not currently in, what would happen if it moved there.
func (a *Analyzer) AnalyzeCourse(course domain.CourseID) CourseAnalysis {
	scheduled := a.scheduleLookup[course]
	scheduledSet := make(map[domain.SlotID]bool, len(scheduled))
	for _, s := range scheduled {
		scheduledSet[s] = true
	}

	enrolled := a.enrolledStudents(course)

	result := CourseAnalysis{
		Course:                  course,
		ScheduledSlots:          scheduled,
		EnrolledStudents:        enrolled,
		CurrentSlotAnalysis:     make(map[domain.SlotID]SlotConflicts),
		AlternativeSlotAnalysis: make(map[domain.SlotID]SlotConflicts),
	}

	conflictedSeen := make(map[domain.StudentID]bool)
	for _, slot := range scheduled {
		sc := a.currentSlotConflicts(course, slot)
		result.CurrentSlotAnalysis[slot] = sc
		for _, student := range sc.ConflictedStudents {
			conflictedSeen[student] = true
		}
	}
	for student := range conflictedSeen {
		result.ConflictedStudents = append(result.ConflictedStudents, student)
	}
	sort.Slice(result.ConflictedStudents, func(i, j int) bool { return result.ConflictedStudents[i] < result.ConflictedStudents[j] })

	if len(enrolled) > 0 {
		result.ConflictRate = float64(len(result.ConflictedStudents)) / float64(len(enrolled)) * 100
	}
	result.HasConflicts = len(result.ConflictedStudents) > 0

	for _, slot := range a.AllSlots() {
		if scheduledSet[slot] {
			continue
		}
		result.AlternativeSlotAnalysis[slot] = a.potentialSlotConflicts(course, slot, enrolled)
	}

	return result
}

// AlternativesRankedByConflict returns a course's alternative slots sorted by
// ascending clash count, capped at top, the way a caller picking a
// replacement slot wants them.
func (a *Analyzer) AlternativesRankedByConflict(course domain.CourseID, top int) []SlotConflicts {
	analysis := a.AnalyzeCourse(course)
	out := make([]SlotConflicts, 0, len(analysis.AlternativeSlotAnalysis))
	for _, sc := range analysis.AlternativeSlotAnalysis {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Conflicts) != len(out[j].Conflicts) {
			return len(out[i].Conflicts) < len(out[j].Conflicts)
		}
		return out[i].Slot < out[j].Slot
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}

func (a *Analyzer) enrolledStudents(course domain.CourseID) []domain.StudentID {
	var out []domain.StudentID
	for student, courses := range a.bundle.StudentCourseMap {
		for _, c := range courses {
			if c == course {
				out = append(out, student)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (a *Analyzer) currentSlotConflicts(course domain.CourseID, slot domain.SlotID) SlotConflicts {
	students := a.enrolledStudents(course)
	available := a.instructorAvailable(course, slot)

	sc := SlotConflicts{Slot: slot, TotalEnrolled: len(students), InstructorAvailable: available}
	for _, student := range students {
		inSlot := a.studentSlots[student][slot]
		if len(inSlot) < 2 {
			continue
		}
		var others []domain.CourseID
		for _, c := range inSlot {
			if c != course {
				others = append(others, c)
			}
		}
		if len(others) == 0 {
			continue
		}
		sc.Conflicts = append(sc.Conflicts, StudentConflict{
			Student:     student,
			Conflicting: a.withTypes(others),
			AllInSlot:   inSlot,
		})
		sc.ConflictedStudents = append(sc.ConflictedStudents, student)
	}
	sc.ConflictFree = len(sc.Conflicts) == 0
	if len(students) > 0 {
		sc.ConflictRate = float64(len(sc.Conflicts)) / float64(len(students))
	}
	return sc
}

func (a *Analyzer) potentialSlotConflicts(course domain.CourseID, slot domain.SlotID, enrolled []domain.StudentID) SlotConflicts {
	available := a.instructorAvailable(course, slot)
	sc := SlotConflicts{Slot: slot, TotalEnrolled: len(enrolled), InstructorAvailable: available}

	for _, student := range enrolled {
		existing := a.studentSlots[student][slot]
		if len(existing) == 0 {
			continue
		}
		sc.Conflicts = append(sc.Conflicts, StudentConflict{
			Student:     student,
			Conflicting: a.withTypes(existing),
			AllInSlot:   existing,
		})
		sc.ConflictedStudents = append(sc.ConflictedStudents, student)
	}
	sc.ConflictFree = len(sc.Conflicts) == 0 && available
	if len(enrolled) > 0 {
		sc.ConflictRate = float64(len(sc.Conflicts)) / float64(len(enrolled))
	}
	return sc
}

func (a *Analyzer) withTypes(courses []domain.CourseID) []ConflictingCourse {
	out := make([]ConflictingCourse, len(courses))
	for i, c := range courses {
		out[i] = ConflictingCourse{Course: c, Type: a.bundle.TypeOf(c)}
	}
	return out
}

// instructorAvailable checks every instructor assigned to course at slot
// against both explicit busy slots and their teaching schedule elsewhere,
// each independently toggleable.
func (a *Analyzer) instructorAvailable(course domain.CourseID, slot domain.SlotID) bool {
	instructors := a.bundle.InstructorsOf(course)
	if len(instructors) == 0 {
		return true
	}

	for _, instr := range instructors {
		if !a.ignoreInstructorBusySlots {
			for _, busy := range a.bundle.InstructorBusySlots[instr] {
				if busy == slot {
					return false
				}
			}
		}
		if !a.ignoreInstructorTeachingClashes {
			for otherCourse := range a.scheduleLookup {
				if otherCourse == course {
					continue
				}
				teaches := false
				for _, other := range a.bundle.InstructorsOf(otherCourse) {
					if other == instr {
						teaches = true
						break
					}
				}
				if !teaches {
					continue
				}
				for _, s := range a.scheduleLookup[otherCourse] {
					if s == slot {
						return false
					}
				}
			}
		}
	}
	return true
}

// AllSlots returns every slot appearing anywhere in the solved schedule,
// sorted.
func (a *Analyzer) AllSlots() []domain.SlotID {
	seen := make(map[domain.SlotID]bool)
	var out []domain.SlotID
	for _, slots := range a.scheduleLookup {
		for _, s := range slots {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SummaryTable lists every scheduled course's clash footprint, ordered by
// conflicted-student count descending.
func (a *Analyzer) SummaryTable() []CourseSummary {
	courses := a.AllCourses()
	out := make([]CourseSummary, 0, len(courses))
	for _, c := range courses {
		analysis := a.AnalyzeCourse(c)
		out = append(out, CourseSummary{
			Course:             c,
			ScheduledSlots:     len(analysis.ScheduledSlots),
			Slots:              analysis.ScheduledSlots,
			TotalStudents:      len(analysis.EnrolledStudents),
			ConflictedStudents: len(analysis.ConflictedStudents),
			ConflictRate:       analysis.ConflictRate,
			HasConflicts:       analysis.HasConflicts,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConflictedStudents > out[j].ConflictedStudents
	})
	return out
}
