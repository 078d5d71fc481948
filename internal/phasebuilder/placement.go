package phasebuilder

import (
	"math/rand"

	"github.com/brightpath-edu/coursesched/internal/domain"
)

// placement tracks the hard-constraint bookkeeping for one in-progress
// assignment: which slots each course currently holds, and the instructor,
// capacity, and same-day usage those choices have consumed.
type placement struct {
	courseSlots     map[domain.CourseID]map[domain.SlotID]bool
	instructorUsage map[domain.InstructorID]map[domain.SlotID]bool
	slotUsage       map[domain.SlotID]int
	dayUsage        map[domain.CourseID]map[string]bool
}

func newPlacement(bundle *domain.InputBundle) *placement {
	return &placement{
		courseSlots:     make(map[domain.CourseID]map[domain.SlotID]bool),
		instructorUsage: make(map[domain.InstructorID]map[domain.SlotID]bool),
		slotUsage:       make(map[domain.SlotID]int),
		dayUsage:        make(map[domain.CourseID]map[string]bool),
	}
}

// instructorsServing returns the instructors who offer course c at slot s —
// the set whose exclusivity constraint x[c,s] participates in.
func instructorsServing(bundle *domain.InputBundle, c domain.CourseID, s domain.SlotID) []domain.InstructorID {
	var out []domain.InstructorID
	for _, offering := range bundle.Courses[c] {
		if offering.Instructor == "" {
			continue
		}
		for _, slot := range offering.Slots {
			if slot == s {
				out = append(out, offering.Instructor)
				break
			}
		}
	}
	return out
}

func (p *placement) canPlace(bundle *domain.InputBundle, c domain.CourseID, s domain.SlotID, active activeConstraints) bool {
	if p.courseHasSlot(c, s) {
		return false
	}
	if active.instructorExclusivity {
		for _, instr := range instructorsServing(bundle, c, s) {
			if p.instructorUsage[instr][s] {
				return false
			}
		}
	}
	if active.slotCapacity && p.slotUsage[s] >= bundle.MaxClassesPerSlot() {
		return false
	}
	if active.noSameDay && p.dayUsage[c][s.Day()] {
		return false
	}
	return true
}

func (p *placement) place(bundle *domain.InputBundle, c domain.CourseID, s domain.SlotID) {
	if p.courseSlots[c] == nil {
		p.courseSlots[c] = make(map[domain.SlotID]bool)
	}
	p.courseSlots[c][s] = true
	p.slotUsage[s]++
	if p.dayUsage[c] == nil {
		p.dayUsage[c] = make(map[string]bool)
	}
	p.dayUsage[c][s.Day()] = true
	for _, instr := range instructorsServing(bundle, c, s) {
		if p.instructorUsage[instr] == nil {
			p.instructorUsage[instr] = make(map[domain.SlotID]bool)
		}
		p.instructorUsage[instr][s] = true
	}
}

func (p *placement) unplace(bundle *domain.InputBundle, c domain.CourseID, s domain.SlotID) {
	delete(p.courseSlots[c], s)
	p.slotUsage[s]--
	stillOtherDay := false
	for slot := range p.courseSlots[c] {
		if slot.Day() == s.Day() {
			stillOtherDay = true
			break
		}
	}
	if !stillOtherDay {
		delete(p.dayUsage[c], s.Day())
	}
	for _, instr := range instructorsServing(bundle, c, s) {
		delete(p.instructorUsage[instr], s)
	}
}

func (p *placement) courseHasSlot(c domain.CourseID, s domain.SlotID) bool {
	return p.courseSlots[c][s]
}

func (p *placement) slotsOf(c domain.CourseID) []domain.SlotID {
	slots := make([]domain.SlotID, 0, len(p.courseSlots[c]))
	for s := range p.courseSlots[c] {
		slots = append(slots, s)
	}
	return slots
}

// assignCourse greedily fills a course's weekly demand in a single pass over
// preferredOrder's shuffled candidates, so slots outside the non-preferred
// set are tried first. It returns false when that pass cannot meet demand;
// retrying with a different ordering is left to Solve's restart loop.
func (p *placement) assignCourse(bundle *domain.InputBundle, c domain.CourseID, active activeConstraints, rng *rand.Rand) bool {
	demand := bundle.ClassesFor(c)
	ordered := preferredOrder(bundle, c, rng)

	placed := 0
	for _, s := range ordered {
		if placed >= demand {
			break
		}
		if p.canPlace(bundle, c, s, active) {
			p.place(bundle, c, s)
			placed++
		}
	}
	return placed == demand
}

func (p *placement) canSwap(bundle *domain.InputBundle, c domain.CourseID, oldSlot, newSlot domain.SlotID, active activeConstraints) bool {
	p.unplace(bundle, c, oldSlot)
	ok := p.canPlace(bundle, c, newSlot, active)
	p.place(bundle, c, oldSlot)
	return ok
}

func (p *placement) swap(bundle *domain.InputBundle, c domain.CourseID, oldSlot, newSlot domain.SlotID, active activeConstraints) {
	p.unplace(bundle, c, oldSlot)
	p.place(bundle, c, newSlot)
}

// preferredOrder lists a course's candidate slots with non-preferred ones
// pushed to the back, lightly shuffled within each group so repeated
// attempts explore different ties.
func preferredOrder(bundle *domain.InputBundle, c domain.CourseID, rng *rand.Rand) []domain.SlotID {
	candidates := bundle.CandidateSlots(c)
	var preferred, nonPreferred []domain.SlotID
	for _, s := range candidates {
		if bundle.NonPreferredSlots[s] {
			nonPreferred = append(nonPreferred, s)
		} else {
			preferred = append(preferred, s)
		}
	}
	rng.Shuffle(len(preferred), func(i, j int) { preferred[i], preferred[j] = preferred[j], preferred[i] })
	rng.Shuffle(len(nonPreferred), func(i, j int) { nonPreferred[i], nonPreferred[j] = nonPreferred[j], nonPreferred[i] })
	return append(preferred, nonPreferred...)
}

func (p *placement) toSchedule() *domain.Schedule {
	var assignments []domain.Assignment
	for c, slots := range p.courseSlots {
		for s := range slots {
			assignments = append(assignments, domain.Assignment{Course: c, Slot: s})
		}
	}
	return &domain.Schedule{Assignments: assignments}
}
