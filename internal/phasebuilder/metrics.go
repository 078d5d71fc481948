package phasebuilder

import "github.com/brightpath-edu/coursesched/internal/domain"

// computeMetrics prices the currently-active soft constraints against a
// schedule, mirroring the phase's weighted objective.
func computeMetrics(bundle *domain.InputBundle, schedule *domain.Schedule, active activeConstraints) Metrics {
	var m Metrics

	byCourse := schedule.ByCourse()

	if active.studentClash || active.requiredClash {
		// slot -> student -> courses enrolled in that slot (built from the
		// schedule, not the candidate set). The required-only map is built
		// from a Required-filtered enrollment list first, mirroring
		// schedule_model.py's required_courses filter, so two Required
		// courses colliding in a slot always trip the penalty regardless of
		// any Elective the student also has there.
		slotStudentCourses := make(map[domain.SlotID]map[domain.StudentID][]domain.CourseID)
		slotStudentRequiredCourses := make(map[domain.SlotID]map[domain.StudentID][]domain.CourseID)
		for student, enrolled := range bundle.StudentCourseMap {
			for _, c := range enrolled {
				for _, s := range byCourse[c] {
					if slotStudentCourses[s] == nil {
						slotStudentCourses[s] = make(map[domain.StudentID][]domain.CourseID)
					}
					slotStudentCourses[s][student] = append(slotStudentCourses[s][student], c)

					if bundle.TypeOf(c) != domain.Required {
						continue
					}
					if slotStudentRequiredCourses[s] == nil {
						slotStudentRequiredCourses[s] = make(map[domain.StudentID][]domain.CourseID)
					}
					slotStudentRequiredCourses[s][student] = append(slotStudentRequiredCourses[s][student], c)
				}
			}
		}
		if active.studentClash {
			for _, students := range slotStudentCourses {
				for _, courses := range students {
					if len(courses) >= 2 {
						m.StudentConflicts++
					}
				}
			}
		}
		if active.requiredClash {
			for _, students := range slotStudentRequiredCourses {
				for _, courses := range students {
					if len(courses) >= 2 {
						m.RequiredConflicts++
					}
				}
			}
		}
	}

	for _, slots := range byCourse {
		for _, s := range slots {
			if bundle.NonPreferredSlots[s] {
				m.NonPreferredUses++
			}
		}
	}

	if active.noConsecDays {
		for c, slots := range byCourse {
			days := make(map[string]bool)
			for _, s := range slots {
				days[s.Day()] = true
			}
			for _, pair := range domain.ConsecutivePairs(days) {
				if days[pair[0]] && days[pair[1]] {
					m.ConsecConflicts++
				}
			}
			_ = c
		}
	}

	m.Objective = float64(m.StudentConflicts)*domain.StudentConflictWeight +
		float64(m.RequiredConflicts)*domain.RequiredConflictWeight +
		float64(m.NonPreferredUses)*domain.NonPreferredSlotWeight +
		float64(m.ConsecConflicts)*domain.ConsecConflictWeight

	return m
}
