// Package driver runs the phase pipeline end to end: phase 1 through the
// highest level the bundle's toggles call for, stopping at the first
// infeasible phase and handing off to diagnostics.
package driver

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brightpath-edu/coursesched/internal/domain"
	"github.com/brightpath-edu/coursesched/internal/phasebuilder"
)

// PhaseOutcome records one phase's solve result for the run log.
type PhaseOutcome struct {
	Level    phasebuilder.Level
	Feasible bool
	Metrics  phasebuilder.Metrics
}

// Outcome is the full pipeline result.
type Outcome struct {
	RunID     string
	Schedule  *domain.Schedule
	LastPhase phasebuilder.Level
	Phases    []PhaseOutcome
	FailedAt  phasebuilder.Level
	Feasible  bool
}

// Run solves phases 1 through the highest level implied by the bundle's
// toggles, in order, keeping the last feasible schedule. It stops as soon as
// a phase comes back infeasible — the caller is expected to route that
// level to diagnostics.
func Run(bundle *domain.InputBundle, seed int64, phaseTimeBudget time.Duration, logger *zap.Logger) Outcome {
	if logger == nil {
		logger = zap.NewNop()
	}
	builder := phasebuilder.New(seed, phaseTimeBudget, logger)

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	levels := []phasebuilder.Level{
		phasebuilder.Level1Demand,
		phasebuilder.Level2InstructorExclusivity,
		phasebuilder.Level3SlotCapacity,
		phasebuilder.Level4StudentClash,
		phasebuilder.Level5NoSameDay,
	}
	if bundle.Toggles.AddNoConsecDays {
		levels = append(levels, phasebuilder.Level6NoConsecutiveDays)
	}

	outcome := Outcome{RunID: runID}
	var lastGood *domain.Schedule

	for _, level := range levels {
		res := builder.Solve(bundle, level)
		outcome.Phases = append(outcome.Phases, PhaseOutcome{Level: level, Feasible: res.Feasible, Metrics: res.Metrics})

		logger.Info("phase solved",
			zap.Int("level", int(level)),
			zap.Bool("feasible", res.Feasible),
			zap.Int("student_conflicts", res.Metrics.StudentConflicts),
			zap.Int("required_conflicts", res.Metrics.RequiredConflicts),
			zap.Int("non_preferred_uses", res.Metrics.NonPreferredUses),
			zap.Int("consec_conflicts", res.Metrics.ConsecConflicts),
			zap.Float64("objective", res.Metrics.Objective),
		)

		if !res.Feasible {
			outcome.FailedAt = level
			outcome.Feasible = false
			outcome.Schedule = lastGood
			outcome.LastPhase = lastPhase(outcome.Phases)
			return outcome
		}
		lastGood = res.Schedule
		outcome.LastPhase = level
	}

	outcome.Feasible = true
	outcome.Schedule = lastGood
	return outcome
}

func lastPhase(phases []PhaseOutcome) phasebuilder.Level {
	for i := len(phases) - 1; i >= 0; i-- {
		if phases[i].Feasible {
			return phases[i].Level
		}
	}
	return 0
}
