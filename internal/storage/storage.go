// Package storage declares the external-collaborator boundary for bundle
// and schedule persistence. Schema and a concrete Postgres adapter are
// deliberately not built here — see DESIGN.md. The interfaces are
// context-first and use only domain types, so a real (for example
// sqlx-backed) adapter can be dropped in without touching the core packages.
package storage

import (
	"context"

	"github.com/brightpath-edu/coursesched/internal/domain"
)

// BundleStore loads the scheduling input for a term.
type BundleStore interface {
	LoadBundle(ctx context.Context, termID string) (*domain.InputBundle, error)
}

// ScheduleStore persists and retrieves a solved schedule. A concrete adapter
// is expected to be typed against sqlx.ExtContext, the way the teacher's
// repositories are, so it composes with an existing *sqlx.DB or an
// in-flight *sqlx.Tx alike.
type ScheduleStore interface {
	SaveSchedule(ctx context.Context, termID string, schedule *domain.Schedule) error
	LoadSchedule(ctx context.Context, termID string) (*domain.Schedule, error)
}
