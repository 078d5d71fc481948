package dto

// CandidateOfferingRequest is one instructor's candidate slots for a course.
type CandidateOfferingRequest struct {
	Instructor string   `json:"instructor" validate:"omitempty"`
	Slots      []string `json:"slots" validate:"required,min=1,dive,required"`
}

// CourseInputRequest describes one course's demand and candidate offerings.
type CourseInputRequest struct {
	CourseID       string                     `json:"courseId" validate:"required"`
	Type           string                     `json:"type" validate:"omitempty,oneof=Required Elective"`
	ClassesPerWeek int                        `json:"classesPerWeek" validate:"omitempty,min=1"`
	Offerings      []CandidateOfferingRequest `json:"offerings" validate:"required,min=1,dive"`
}

// GenerateScheduleRequest is the full input bundle for one scheduling run.
type GenerateScheduleRequest struct {
	TermID              string               `json:"termId" validate:"required"`
	Courses             []CourseInputRequest `json:"courses" validate:"required,min=1,dive"`
	StudentEnrollments  map[string][]string  `json:"studentEnrollments"`
	NonPreferredSlots   []string             `json:"nonPreferredSlots"`
	AddProfConstraints  bool                 `json:"addProfConstraints"`
	AddTimeslotCapacity bool                 `json:"addTimeslotCapacity"`
	AddStudentConflicts bool                 `json:"addStudentConflicts"`
	AddNoSameDay        bool                 `json:"addNoSameDay"`
	AddNoConsecDays     bool                 `json:"addNoConsecDays"`
	MaxClassesPerSlot   int                  `json:"maxClassesPerSlot" validate:"omitempty,min=1"`
	Seed                int64                `json:"seed"`
}

// AssignmentResponse is one (course, slot) placement in a solved schedule.
type AssignmentResponse struct {
	CourseID string `json:"courseId"`
	Slot     string `json:"slot"`
}

// PhaseOutcomeResponse reports one phase level's solve result.
type PhaseOutcomeResponse struct {
	Level             int     `json:"level"`
	Feasible          bool    `json:"feasible"`
	StudentConflicts  int     `json:"studentConflicts"`
	RequiredConflicts int     `json:"requiredConflicts"`
	NonPreferredUses  int     `json:"nonPreferredUses"`
	ConsecConflicts   int     `json:"consecConflicts"`
	Objective         float64 `json:"objective"`
}

// GenerateScheduleResponse returns the solved schedule, or the last
// feasible phase and a diagnosis when the pipeline stalled.
type GenerateScheduleResponse struct {
	RunID       string                 `json:"runId"`
	Feasible    bool                   `json:"feasible"`
	LastPhase   int                    `json:"lastPhase"`
	FailedPhase int                    `json:"failedPhase,omitempty"`
	Assignments []AssignmentResponse   `json:"assignments,omitempty"`
	Phases      []PhaseOutcomeResponse `json:"phases"`
	Diagnosis   string                 `json:"diagnosis,omitempty"`
}

// SearchRequest queries a solved schedule for a course by name.
type SearchRequest struct {
	TermID string `form:"termId" json:"termId" validate:"required"`
	Query  string `form:"q" json:"q" validate:"required"`

	IgnoreInstructorBusySlots       bool `form:"ignoreInstructorBusySlots" json:"ignoreInstructorBusySlots"`
	IgnoreInstructorTeachingClashes bool `form:"ignoreInstructorTeachingClashes" json:"ignoreInstructorTeachingClashes"`
}

// ConflictingCourseResponse names a course sharing a slot with its type.
type ConflictingCourseResponse struct {
	CourseID string `json:"courseId"`
	Type     string `json:"type"`
}

// StudentConflictResponse is one student's clash in a slot.
type StudentConflictResponse struct {
	StudentID   string                      `json:"studentId"`
	Conflicting []ConflictingCourseResponse `json:"conflicting"`
}

// SlotConflictsResponse summarizes a slot's clashes for a course.
type SlotConflictsResponse struct {
	Slot                string                     `json:"slot"`
	TotalEnrolled       int                        `json:"totalEnrolled"`
	Conflicts           []StudentConflictResponse  `json:"conflicts"`
	InstructorAvailable bool                       `json:"instructorAvailable"`
	ConflictRate        float64                    `json:"conflictRate"`
}

// CourseAnalysisResponse is the full conflict report for one course.
type CourseAnalysisResponse struct {
	CourseID                string                            `json:"courseId"`
	ScheduledSlots          []string                          `json:"scheduledSlots"`
	TotalEnrolledStudents   int                               `json:"totalEnrolledStudents"`
	ConflictedStudents      []string                          `json:"conflictedStudents"`
	ConflictRate            float64                           `json:"conflictRate"`
	CurrentSlotAnalysis     map[string]SlotConflictsResponse  `json:"currentSlotAnalysis"`
	AlternativeSlotAnalysis map[string]SlotConflictsResponse  `json:"alternativeSlotAnalysis"`
	HasConflicts            bool                              `json:"hasConflicts"`
}

// SearchResponse is the outcome of a course name search.
type SearchResponse struct {
	QueryID     string                             `json:"queryId"`
	Found       bool                               `json:"found"`
	Message     string                             `json:"message,omitempty"`
	Suggestions []string                           `json:"suggestions,omitempty"`
	Matches     map[string]CourseAnalysisResponse `json:"matches,omitempty"`
}

// SummaryRowResponse is one row of the all-courses clash summary.
type SummaryRowResponse struct {
	CourseID           string   `json:"courseId"`
	ScheduledSlots     []string `json:"scheduledSlots"`
	TotalStudents      int      `json:"totalStudents"`
	ConflictedStudents int      `json:"conflictedStudents"`
	ConflictRate       float64  `json:"conflictRate"`
	HasConflicts       bool     `json:"hasConflicts"`
}
