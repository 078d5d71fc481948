package domain

// Soft-objective weights. Ordering matters more than the literal values:
// student-clash >> consecutive-day >> non-preferred >> required-pair.
const (
	StudentConflictWeight  = 10000
	ConsecConflictWeight   = 100
	NonPreferredSlotWeight = 50
	RequiredConflictWeight = 10

	DefaultMaxClassesPerSlot = 24
	DefaultClassesPerWeek    = 2
)

// Toggles controls which constraint families a phase run includes, mirroring
// the external interface's add_* flags.
type Toggles struct {
	AddProfConstraints  bool
	AddTimeslotCapacity bool
	AddStudentConflicts bool
	AddNoSameDay        bool
	AddNoConsecDays     bool
	MaxClassesPerSlot   int
}

// CandidateOffering is a course's offered slots under one instructor.
// The slots are pre-filtered: an instructor's busy slots never appear here.
type CandidateOffering struct {
	Instructor InstructorID
	Slots      []SlotID
}

// InputBundle is the scheduler's complete, immutable input for a run.
type InputBundle struct {
	// Courses maps a course to its candidate offerings, one per assigned
	// instructor. A course with no assigned instructor still appears here
	// with a single offering carrying an empty InstructorID ("unassigned").
	Courses map[CourseID][]CandidateOffering

	// StudentCourseMap maps a student to their enrolled courses.
	StudentCourseMap map[StudentID][]CourseID

	// ClassesPerWeek gives each course's weekly demand. Courses absent from
	// this map fall back to DefaultClassesPerWeek — see design note on
	// silent defaults (kept for input compatibility, discouraged for new
	// callers; prefer populating it explicitly).
	ClassesPerWeek map[CourseID]int

	// CourseTypeOf classifies each course; absent entries default to Elective.
	CourseTypeOf map[CourseID]CourseType

	// NonPreferredSlots flags slots disfavored by policy but still permitted.
	NonPreferredSlots map[SlotID]bool

	// InstructorBusySlots records each instructor's explicit busy slots, as
	// supplied by the source system. Courses[*].Slots is expected to already
	// exclude these, but the analyzer needs the raw set to answer "would this
	// instructor be available here" independent of what got scheduled.
	InstructorBusySlots map[InstructorID][]SlotID

	Toggles Toggles
}

// ClassesFor returns the weekly demand for a course, defaulting when absent.
func (b *InputBundle) ClassesFor(c CourseID) int {
	if n, ok := b.ClassesPerWeek[c]; ok && n > 0 {
		return n
	}
	return DefaultClassesPerWeek
}

// TypeOf returns a course's classification, defaulting to Elective.
func (b *InputBundle) TypeOf(c CourseID) CourseType {
	if t, ok := b.CourseTypeOf[c]; ok && t != "" {
		return t
	}
	return Elective
}

// CandidateSlots returns the union of every instructor's candidate slots for
// a course, deduplicated but not sorted.
func (b *InputBundle) CandidateSlots(c CourseID) []SlotID {
	seen := make(map[SlotID]bool)
	var out []SlotID
	for _, offering := range b.Courses[c] {
		for _, s := range offering.Slots {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// InstructorsOf returns the distinct instructors assigned to a course,
// excluding the "unassigned" sentinel.
func (b *InputBundle) InstructorsOf(c CourseID) []InstructorID {
	seen := make(map[InstructorID]bool)
	var out []InstructorID
	for _, offering := range b.Courses[c] {
		if offering.Instructor == "" {
			continue
		}
		if !seen[offering.Instructor] {
			seen[offering.Instructor] = true
			out = append(out, offering.Instructor)
		}
	}
	return out
}

// AllSlots returns every distinct slot appearing in any course's candidates.
func (b *InputBundle) AllSlots() []SlotID {
	seen := make(map[SlotID]bool)
	var out []SlotID
	for c := range b.Courses {
		for _, s := range b.CandidateSlots(c) {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// MaxClassesPerSlot returns the configured capacity, defaulting when unset.
func (b *InputBundle) MaxClassesPerSlot() int {
	if b.Toggles.MaxClassesPerSlot > 0 {
		return b.Toggles.MaxClassesPerSlot
	}
	return DefaultMaxClassesPerSlot
}
