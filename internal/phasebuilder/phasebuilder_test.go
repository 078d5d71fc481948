package phasebuilder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/coursesched/internal/domain"
)

func twoSlotBundle() *domain.InputBundle {
	return &domain.InputBundle{
		Courses: map[domain.CourseID][]domain.CandidateOffering{
			"CS101": {{Instructor: "profA", Slots: []domain.SlotID{"Monday 9am-10am", "Tuesday 9am-10am", "Wednesday 9am-10am"}}},
			"CS102": {{Instructor: "profB", Slots: []domain.SlotID{"Monday 9am-10am", "Tuesday 9am-10am", "Wednesday 9am-10am"}}},
		},
		StudentCourseMap: map[domain.StudentID][]domain.CourseID{
			"s1": {"CS101", "CS102"},
		},
		ClassesPerWeek: map[domain.CourseID]int{"CS101": 1, "CS102": 1},
		CourseTypeOf:   map[domain.CourseID]domain.CourseType{"CS101": domain.Required, "CS102": domain.Required},
		Toggles: domain.Toggles{
			AddProfConstraints:  true,
			AddTimeslotCapacity: true,
			AddStudentConflicts: true,
			AddNoSameDay:        true,
			AddNoConsecDays:     true,
			MaxClassesPerSlot:   24,
		},
	}
}

func TestSolveLevel1FeasibleWhenDemandFitsSupply(t *testing.T) {
	b := New(1, time.Second, nil)
	bundle := twoSlotBundle()

	res := b.Solve(bundle, Level1Demand)

	require.True(t, res.Feasible)
	assert.Len(t, res.Schedule.SlotsFor("CS101"), 1)
	assert.Len(t, res.Schedule.SlotsFor("CS102"), 1)
}

func TestSolveLevel1InfeasibleWhenDemandExceedsSupply(t *testing.T) {
	b := New(1, time.Second, nil)
	bundle := twoSlotBundle()
	bundle.ClassesPerWeek["CS101"] = 10

	res := b.Solve(bundle, Level1Demand)

	assert.False(t, res.Feasible)
}

func TestSolveLevel2RespectsInstructorExclusivity(t *testing.T) {
	b := New(1, time.Second, nil)
	bundle := &domain.InputBundle{
		Courses: map[domain.CourseID][]domain.CandidateOffering{
			"CS101": {{Instructor: "profA", Slots: []domain.SlotID{"Monday 9am-10am"}}},
			"CS102": {{Instructor: "profA", Slots: []domain.SlotID{"Monday 9am-10am"}}},
		},
		ClassesPerWeek: map[domain.CourseID]int{"CS101": 1, "CS102": 1},
		Toggles:        domain.Toggles{AddProfConstraints: true, MaxClassesPerSlot: 24},
	}

	res := b.Solve(bundle, Level2InstructorExclusivity)

	assert.False(t, res.Feasible)
}

func TestSolveLevel4PrefersNoStudentClash(t *testing.T) {
	b := New(1, time.Second, nil)
	bundle := twoSlotBundle()

	res := b.Solve(bundle, Level4StudentClash)

	require.True(t, res.Feasible)
	cs101 := res.Schedule.SlotsFor("CS101")[0]
	cs102 := res.Schedule.SlotsFor("CS102")[0]
	assert.NotEqual(t, cs101, cs102, "repair should separate a shared student's two courses when an alternative slot exists")
}

func TestSolveLevel5EnforcesNoSameDayAcrossMultipleClasses(t *testing.T) {
	b := New(1, time.Second, nil)
	bundle := &domain.InputBundle{
		Courses: map[domain.CourseID][]domain.CandidateOffering{
			"CS101": {{Instructor: "profA", Slots: []domain.SlotID{"Monday 9am-10am", "Monday 10am-11am", "Tuesday 9am-10am"}}},
		},
		ClassesPerWeek: map[domain.CourseID]int{"CS101": 2},
		Toggles:        domain.Toggles{AddNoSameDay: true, MaxClassesPerSlot: 24},
	}

	res := b.Solve(bundle, Level5NoSameDay)

	require.True(t, res.Feasible)
	slots := res.Schedule.SlotsFor("CS101")
	require.Len(t, slots, 2)
	assert.NotEqual(t, slots[0].Day(), slots[1].Day())
}

func TestResolveActiveTiesRequiredClashToNoSameDayToggle(t *testing.T) {
	active := resolveActive(Level4StudentClash, domain.Toggles{AddNoSameDay: true, AddStudentConflicts: false})
	assert.True(t, active.requiredClash)
	assert.False(t, active.studentClash)

	active = resolveActive(Level4StudentClash, domain.Toggles{AddNoSameDay: false})
	assert.False(t, active.requiredClash)
}

func TestComputeMetricsCountsNonPreferredUseRegardlessOfLevel(t *testing.T) {
	bundle := twoSlotBundle()
	bundle.NonPreferredSlots = map[domain.SlotID]bool{"Monday 9am-10am": true}
	schedule := &domain.Schedule{Assignments: []domain.Assignment{
		{Course: "CS101", Slot: "Monday 9am-10am"},
		{Course: "CS102", Slot: "Tuesday 9am-10am"},
	}}

	m := computeMetrics(bundle, schedule, activeConstraints{})

	assert.Equal(t, 1, m.NonPreferredUses)
	assert.Equal(t, float64(domain.NonPreferredSlotWeight), m.Objective)
}

func TestComputeMetricsSkipsInactiveFamilies(t *testing.T) {
	bundle := twoSlotBundle()
	schedule := &domain.Schedule{Assignments: []domain.Assignment{
		{Course: "CS101", Slot: "Monday 9am-10am"},
		{Course: "CS102", Slot: "Monday 9am-10am"},
	}}

	m := computeMetrics(bundle, schedule, activeConstraints{})

	assert.Equal(t, 0, m.StudentConflicts, "student clash family is inactive, must not be priced")
	assert.Equal(t, 0, m.RequiredConflicts)
}

func TestComputeMetricsCountsStudentAndRequiredClash(t *testing.T) {
	bundle := twoSlotBundle()
	schedule := &domain.Schedule{Assignments: []domain.Assignment{
		{Course: "CS101", Slot: "Monday 9am-10am"},
		{Course: "CS102", Slot: "Monday 9am-10am"},
	}}

	m := computeMetrics(bundle, schedule, activeConstraints{studentClash: true, requiredClash: true})

	assert.Equal(t, 1, m.StudentConflicts)
	assert.Equal(t, 1, m.RequiredConflicts)
}
