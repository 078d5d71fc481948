// Package diagnostics produces human-readable failure reports for each
// phase level, ported from the reference scheduler's diagnose_phaseN
// functions. Report text and structure are preserved; the D2 instructor
// availability figure is computed as the union of every course the
// instructor teaches, not just the instructor's first course, which the
// reference implementation got wrong.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/brightpath-edu/coursesched/internal/domain"
	"github.com/brightpath-edu/coursesched/internal/phasebuilder"
)

// Report renders the diagnosis text for the phase level that failed.
func Report(level phasebuilder.Level, bundle *domain.InputBundle) string {
	switch level {
	case phasebuilder.Level1Demand:
		return diagnoseLevel1(bundle)
	case phasebuilder.Level2InstructorExclusivity:
		return diagnoseLevel2(bundle)
	case phasebuilder.Level3SlotCapacity:
		return diagnoseLevel3(bundle)
	case phasebuilder.Level4StudentClash:
		return diagnoseLevel4(bundle)
	case phasebuilder.Level5NoSameDay:
		return diagnoseLevel5(bundle)
	case phasebuilder.Level6NoConsecutiveDays:
		return diagnoseLevel6(bundle)
	default:
		return "No diagnosis available for this phase."
	}
}

func diagnoseLevel1(bundle *domain.InputBundle) string {
	var b strings.Builder
	b.WriteString("PHASE 1 FAILED: Basic 'classes per week' constraints cannot be satisfied\n\n")
	b.WriteString("DETAILED ANALYSIS:\n" + strings.Repeat("=", 50) + "\n")

	type problem struct {
		course    domain.CourseID
		needed    int
		available int
		issue     string
	}
	var problems []problem

	for _, c := range sortedCourses(bundle) {
		needed := bundle.ClassesFor(c)
		available := len(bundle.CandidateSlots(c))
		if _, ok := bundle.Courses[c]; !ok {
			problems = append(problems, problem{c, needed, 0, "Course not found in availability data"})
			continue
		}
		if needed > available {
			problems = append(problems, problem{c, needed, available, "Insufficient time slots"})
		}
	}

	if len(problems) > 0 {
		b.WriteString("PROBLEM COURSES:\n" + strings.Repeat("-", 20) + "\n")
		for _, p := range problems {
			fmt.Fprintf(&b, "Course: %s\n  Classes needed per week: %d\n  Maximum available slots: %d\n  Issue: %s\n\n",
				p.course, p.needed, p.available, p.issue)
		}
		b.WriteString("RECOMMENDED SOLUTIONS:\n")
		b.WriteString("1. Add more time slots to the weekly schedule\n")
		b.WriteString("2. Reduce classes per week for problematic courses\n")
		b.WriteString("3. Check instructor busy slots - may be too restrictive\n")
		b.WriteString("4. Verify course requirements are realistic for available time\n")
	} else {
		b.WriteString("No obvious course-level issues found. This may be a complex constraint interaction.\n")
	}
	return b.String()
}

func diagnoseLevel2(bundle *domain.InputBundle) string {
	var b strings.Builder
	b.WriteString("PHASE 2 FAILED: Instructor scheduling conflicts detected\n\n")
	b.WriteString("DETAILED CONFLICT ANALYSIS:\n" + strings.Repeat("=", 50) + "\n")

	instructorCourses := make(map[domain.InstructorID][]domain.CourseID)
	for _, c := range sortedCourses(bundle) {
		for _, instr := range bundle.InstructorsOf(c) {
			instructorCourses[instr] = append(instructorCourses[instr], c)
		}
	}

	var instructors []domain.InstructorID
	for instr := range instructorCourses {
		instructors = append(instructors, instr)
	}
	sort.Slice(instructors, func(i, j int) bool { return instructors[i] < instructors[j] })

	var critical []domain.InstructorID
	for _, instr := range instructors {
		courseList := instructorCourses[instr]
		needed := 0
		for _, c := range courseList {
			needed += bundle.ClassesFor(c)
		}

		// Union across every course this instructor teaches, not just the
		// first one in courseList: an instructor offering the same slots for
		// two courses isn't being double-counted, but one whose slots differ
		// per course must have all of them counted, or the figure understates
		// true availability.
		seen := make(map[domain.SlotID]bool)
		for _, c := range courseList {
			for _, offering := range bundle.Courses[c] {
				if offering.Instructor != instr {
					continue
				}
				for _, s := range offering.Slots {
					seen[s] = true
				}
			}
		}
		available := len(seen)

		status := "OK"
		if needed > available {
			status = "CRITICAL"
			critical = append(critical, instr)
		} else if needed == available {
			status = "WARNING"
		}

		names := make([]string, len(courseList))
		for i, c := range courseList {
			names[i] = string(c)
		}
		fmt.Fprintf(&b, "Instructor: %s\n  Assigned Courses: %s\n  Total Classes Needed: %d\n  Available Time Slots: %d\n  Status: %s\n\n",
			instr, strings.Join(names, ", "), needed, available, status)
	}

	if len(critical) > 0 {
		b.WriteString("CRITICAL ISSUES FOUND:\n" + strings.Repeat("-", 25) + "\n")
		for _, instr := range critical {
			fmt.Fprintf(&b, "Redistribute courses from: %s\n", instr)
		}
		b.WriteString("\nRECOMMENDED ACTIONS:\n")
		b.WriteString("1. Remove busy slots for overloaded instructors\n")
		b.WriteString("2. Reassign some courses to other instructors\n")
		b.WriteString("3. Add more time slots to the schedule\n")
		b.WriteString("4. Reduce classes per week for some courses\n")
	}

	var unassigned []domain.CourseID
	for _, c := range sortedCourses(bundle) {
		if len(bundle.InstructorsOf(c)) == 0 {
			unassigned = append(unassigned, c)
		}
	}
	if len(unassigned) > 0 {
		b.WriteString("\nCOURSES WITHOUT ASSIGNED INSTRUCTORS:\n" + strings.Repeat("-", 35) + "\n")
		for _, c := range unassigned {
			b.WriteString(string(c) + "\n")
		}
		b.WriteString("\nAction Required: Assign instructors to these courses\n")
	}

	return b.String()
}

func diagnoseLevel3(bundle *domain.InputBundle) string {
	var b strings.Builder
	b.WriteString("PHASE 3 FAILED: Time slot capacity limit exceeded\n\n")
	b.WriteString("DETAILED CAPACITY ANALYSIS:\n" + strings.Repeat("=", 50) + "\n")

	total := 0
	for _, c := range sortedCourses(bundle) {
		total += bundle.ClassesFor(c)
	}
	slots := bundle.AllSlots()
	capacity := len(slots) * bundle.MaxClassesPerSlot()

	fmt.Fprintf(&b, "Total classes needed: %d\n", total)
	fmt.Fprintf(&b, "Available time slots: %d\n", len(slots))
	fmt.Fprintf(&b, "Max classes per slot: %d\n", bundle.MaxClassesPerSlot())
	fmt.Fprintf(&b, "Total capacity: %d\n", capacity)
	fmt.Fprintf(&b, "Capacity deficit: %d\n\n", total-capacity)

	b.WriteString("COURSES REQUIRING CLASSES:\n" + strings.Repeat("-", 30) + "\n")
	for _, c := range sortedCourses(bundle) {
		fmt.Fprintf(&b, "%s: %d classes\n", c, bundle.ClassesFor(c))
	}

	b.WriteString("\nRECOMMENDED SOLUTIONS:\n")
	fmt.Fprintf(&b, "1. Increase max classes per slot from %d\n", bundle.MaxClassesPerSlot())
	b.WriteString("2. Add more time slots to the schedule\n")
	b.WriteString("3. Reduce classes per week for some courses\n")
	b.WriteString("4. Split large courses into multiple sections\n")
	return b.String()
}

func diagnoseLevel4(bundle *domain.InputBundle) string {
	var b strings.Builder
	b.WriteString("PHASE 4 FAILED: Student conflict constraints causing infeasibility\n\n")
	b.WriteString("ANALYSIS:\n" + strings.Repeat("=", 50) + "\n\n")
	b.WriteString("This is unusual since student conflict constraints are designed to be soft/flexible.\n")
	b.WriteString("The failure suggests a deeper scheduling problem or unusual enrollment patterns.\n\n")
	b.WriteString("POSSIBLE CAUSES:\n")
	b.WriteString("- Very high course overlap in student enrollments\n")
	b.WriteString("- Limited time slot availability after instructor constraints\n")
	b.WriteString("- Complex interaction between multiple constraint types\n\n")
	b.WriteString("COURSE-INSTRUCTOR ASSIGNMENTS:\n" + strings.Repeat("-", 35) + "\n")

	for _, c := range sortedCourses(bundle) {
		instrs := bundle.InstructorsOf(c)
		names := make([]string, len(instrs))
		for i, instr := range instrs {
			names[i] = string(instr)
		}
		if len(names) == 0 {
			names = []string{"No instructor assigned"}
		}
		fmt.Fprintf(&b, "%s: %s\n", c, strings.Join(names, ", "))
	}

	b.WriteString("\nRECOMMENDED ACTIONS:\n")
	b.WriteString("1. Review student enrollment patterns for unusual overlaps\n")
	b.WriteString("2. Try disabling some constraint options temporarily\n")
	b.WriteString("3. Check if instructor availability is too restrictive\n")
	b.WriteString("4. Consider splitting high-enrollment courses\n")
	b.WriteString("5. Contact system administrator for advanced troubleshooting\n")
	return b.String()
}

func diagnoseLevel5(bundle *domain.InputBundle) string {
	var b strings.Builder
	b.WriteString("PHASE 5 FAILED: 'No same course twice on the same day' constraint\n\n")
	b.WriteString("ANALYSIS:\n" + strings.Repeat("=", 50) + "\n")

	var multi []domain.CourseID
	for _, c := range sortedCourses(bundle) {
		if bundle.ClassesFor(c) > 1 {
			multi = append(multi, c)
		}
	}

	if len(multi) > 0 {
		b.WriteString("COURSES NEEDING MULTIPLE CLASSES PER WEEK:\n" + strings.Repeat("-", 45) + "\n")
		for _, c := range multi {
			days := make(map[string]bool)
			for _, s := range bundle.CandidateSlots(c) {
				days[s.Day()] = true
			}
			var dayNames []string
			for d := range days {
				dayNames = append(dayNames, d)
			}
			sort.Strings(dayNames)

			status := "OK"
			if bundle.ClassesFor(c) > len(days) {
				status = "PROBLEM"
			}
			fmt.Fprintf(&b, "Course: %s\n  Classes needed: %d\n  Available days: %d (%s)\n  Status: %s\n\n",
				c, bundle.ClassesFor(c), len(days), strings.Join(dayNames, ", "), status)
		}
	}

	b.WriteString("RECOMMENDED SOLUTIONS:\n")
	b.WriteString("1. Add time slots on different days of the week\n")
	b.WriteString("2. Review instructor busy slots - some may block entire days\n")
	b.WriteString("3. Reduce classes per week for problematic courses\n")
	b.WriteString("4. Consider disabling the 'same day' constraint if flexible scheduling is acceptable\n")
	return b.String()
}

func diagnoseLevel6(bundle *domain.InputBundle) string {
	var b strings.Builder
	b.WriteString("PHASE 6 FAILED: 'No consecutive days' constraint\n\n")
	b.WriteString("ANALYSIS:\n" + strings.Repeat("=", 50) + "\n")

	days := make(map[string]bool)
	for _, s := range bundle.AllSlots() {
		days[s.Day()] = true
	}
	var ordered []string
	for _, d := range domain.Weekday {
		if days[d] {
			ordered = append(ordered, d)
		}
	}

	multiCount := 0
	for _, c := range sortedCourses(bundle) {
		if bundle.ClassesFor(c) > 1 {
			multiCount++
		}
	}

	fmt.Fprintf(&b, "Available days in schedule: %s\n", strings.Join(ordered, ", "))
	fmt.Fprintf(&b, "Total courses needing multiple classes: %d\n\n", multiCount)
	b.WriteString("CONSECUTIVE DAY ANALYSIS:\n" + strings.Repeat("-", 30) + "\n")

	pairs := domain.ConsecutivePairs(days)
	if len(pairs) > 0 {
		b.WriteString("Consecutive day pairs available:\n")
		for _, pair := range pairs {
			fmt.Fprintf(&b, "  %s -> %s\n", pair[0], pair[1])
		}
	} else {
		b.WriteString("No consecutive days available - this may not be the issue\n")
	}

	b.WriteString("\nRECOMMENDED SOLUTIONS:\n")
	b.WriteString("1. Add time slots on non-consecutive days (e.g., Monday, Wednesday, Friday)\n")
	b.WriteString("2. Consider disabling the 'consecutive days' constraint\n")
	b.WriteString("3. Review instructor availability across different days\n")
	b.WriteString("4. Reduce classes per week requirements where possible\n")
	return b.String()
}

func sortedCourses(bundle *domain.InputBundle) []domain.CourseID {
	seen := make(map[domain.CourseID]bool)
	var out []domain.CourseID
	for c := range bundle.Courses {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for c := range bundle.ClassesPerWeek {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
