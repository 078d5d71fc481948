package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/coursesched/internal/domain"
)

func testBundle() (*domain.InputBundle, *domain.Schedule) {
	bundle := &domain.InputBundle{
		Courses: map[domain.CourseID][]domain.CandidateOffering{
			"CS101": {{Instructor: "profA", Slots: []domain.SlotID{"Monday 9am-10am", "Wednesday 9am-10am"}}},
			"CS102": {{Instructor: "profB", Slots: []domain.SlotID{"Monday 9am-10am", "Tuesday 9am-10am"}}},
		},
		StudentCourseMap: map[domain.StudentID][]domain.CourseID{
			"s1": {"CS101", "CS102"},
			"s2": {"CS101"},
		},
		CourseTypeOf:        map[domain.CourseID]domain.CourseType{"CS101": domain.Required, "CS102": domain.Elective},
		InstructorBusySlots: map[domain.InstructorID][]domain.SlotID{"profB": {"Wednesday 9am-10am"}},
	}
	schedule := &domain.Schedule{Assignments: []domain.Assignment{
		{Course: "CS101", Slot: "Monday 9am-10am"},
		{Course: "CS102", Slot: "Monday 9am-10am"},
	}}
	return bundle, schedule
}

func TestSearchFindsCaseInsensitiveSubstring(t *testing.T) {
	bundle, schedule := testBundle()
	a := New(bundle, schedule)

	result := a.Search("cs101")

	require.True(t, result.Found)
	assert.Contains(t, result.Matches, domain.CourseID("CS101"))
}

func TestSearchMissReturnsSuggestions(t *testing.T) {
	bundle, schedule := testBundle()
	a := New(bundle, schedule)

	result := a.Search("CS999")

	assert.False(t, result.Found)
	assert.LessOrEqual(t, len(result.Suggestions), 5)
}

func TestAnalyzeCourseDetectsStudentClashInCurrentSlot(t *testing.T) {
	bundle, schedule := testBundle()
	a := New(bundle, schedule)

	analysis := a.AnalyzeCourse("CS101")

	require.True(t, analysis.HasConflicts)
	require.Contains(t, analysis.ConflictedStudents, domain.StudentID("s1"))
	assert.NotContains(t, analysis.ConflictedStudents, domain.StudentID("s2"))
}

func TestInstructorAvailabilityRespectsBusySlots(t *testing.T) {
	bundle, schedule := testBundle()
	a := New(bundle, schedule)

	assert.False(t, a.instructorAvailable("CS102", "Wednesday 9am-10am"))

	ignoreBusy := true
	a.SetInstructorConstraintOptions(&ignoreBusy, nil)
	assert.True(t, a.instructorAvailable("CS102", "Wednesday 9am-10am"))
}

func TestInstructorAvailabilityRespectsTeachingClashIndependentlyOfBusySlots(t *testing.T) {
	bundle, schedule := testBundle()
	// profA teaches CS101 at Monday, also offer them CS103 co-scheduled there.
	bundle.Courses["CS103"] = []domain.CandidateOffering{{Instructor: "profA", Slots: []domain.SlotID{"Monday 9am-10am"}}}
	schedule.Assignments = append(schedule.Assignments, domain.Assignment{Course: "CS103", Slot: "Tuesday 9am-10am"})
	a := New(bundle, schedule)

	assert.False(t, a.instructorAvailable("CS103", "Monday 9am-10am"))

	ignoreTeaching := true
	a.SetInstructorConstraintOptions(nil, &ignoreTeaching)
	assert.True(t, a.instructorAvailable("CS103", "Monday 9am-10am"))
}

func TestAlternativesRankedByConflictAscending(t *testing.T) {
	bundle, schedule := testBundle()
	a := New(bundle, schedule)

	alts := a.AlternativesRankedByConflict("CS101", 0)

	for i := 1; i < len(alts); i++ {
		assert.LessOrEqual(t, len(alts[i-1].Conflicts), len(alts[i].Conflicts))
	}
}

func TestSummaryTableSortedByConflictedStudentsDescending(t *testing.T) {
	bundle, schedule := testBundle()
	a := New(bundle, schedule)

	rows := a.SummaryTable()

	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].ConflictedStudents, rows[i].ConflictedStudents)
	}
}
