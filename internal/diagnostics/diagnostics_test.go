package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brightpath-edu/coursesched/internal/domain"
	"github.com/brightpath-edu/coursesched/internal/phasebuilder"
)

func TestReportLevel1FlagsInsufficientSlots(t *testing.T) {
	bundle := &domain.InputBundle{
		Courses: map[domain.CourseID][]domain.CandidateOffering{
			"CS101": {{Instructor: "profA", Slots: []domain.SlotID{"Monday 9am-10am"}}},
		},
		ClassesPerWeek: map[domain.CourseID]int{"CS101": 3},
	}

	report := Report(phasebuilder.Level1Demand, bundle)

	assert.Contains(t, report, "PHASE 1 FAILED")
	assert.Contains(t, report, "CS101")
	assert.Contains(t, report, "Insufficient time slots")
}

func TestReportLevel2UnionsAvailabilityAcrossAllCourses(t *testing.T) {
	bundle := &domain.InputBundle{
		Courses: map[domain.CourseID][]domain.CandidateOffering{
			"CS101": {{Instructor: "profA", Slots: []domain.SlotID{"Monday 9am-10am"}}},
			"CS102": {{Instructor: "profA", Slots: []domain.SlotID{"Tuesday 9am-10am"}}},
		},
		ClassesPerWeek: map[domain.CourseID]int{"CS101": 1, "CS102": 1},
	}

	report := Report(phasebuilder.Level2InstructorExclusivity, bundle)

	// profA needs 2 total, and has 2 distinct slots across both courses, so
	// this must read OK/WARNING, not CRITICAL — a first-course-only lookup
	// would only see CS101's single slot and wrongly call it CRITICAL.
	assert.Contains(t, report, "Available Time Slots: 2")
	assert.NotContains(t, report, "CRITICAL")
}

func TestReportLevel6ListsConsecutivePairs(t *testing.T) {
	bundle := &domain.InputBundle{
		Courses: map[domain.CourseID][]domain.CandidateOffering{
			"CS101": {{Instructor: "profA", Slots: []domain.SlotID{"Monday 9am-10am", "Tuesday 9am-10am"}}},
		},
		ClassesPerWeek: map[domain.CourseID]int{"CS101": 2},
	}

	report := Report(phasebuilder.Level6NoConsecutiveDays, bundle)

	assert.Contains(t, report, "Monday -> Tuesday")
}

func TestReportUnknownLevel(t *testing.T) {
	report := Report(phasebuilder.Level(99), &domain.InputBundle{})
	assert.Equal(t, "No diagnosis available for this phase.", report)
}
