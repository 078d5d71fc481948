package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/coursesched/internal/domain"
)

// sqlxScheduleStore is a minimal ScheduleStore satisfied against sqlx, kept
// local to this test file to exercise the storage boundary's query shape
// without standing up a real adapter (see DESIGN.md).
type sqlxScheduleStore struct {
	db *sqlx.DB
}

func (s *sqlxScheduleStore) SaveSchedule(ctx context.Context, termID string, schedule *domain.Schedule) error {
	payload, err := json.Marshal(schedule.Assignments)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO term_schedules (term_id, assignments) VALUES ($1, $2)
		 ON CONFLICT (term_id) DO UPDATE SET assignments = EXCLUDED.assignments`,
		termID, payload)
	return err
}

func (s *sqlxScheduleStore) LoadSchedule(ctx context.Context, termID string) (*domain.Schedule, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload, `SELECT assignments FROM term_schedules WHERE term_id = $1`, termID)
	if err != nil {
		return nil, err
	}
	var assignments []domain.Assignment
	if err := json.Unmarshal(payload, &assignments); err != nil {
		return nil, err
	}
	return &domain.Schedule{Assignments: assignments}, nil
}

var _ ScheduleStore = (*sqlxScheduleStore)(nil)

func newMockStore(t *testing.T) (*sqlxScheduleStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return &sqlxScheduleStore{db: sqlx.NewDb(mockDB, "postgres")}, mock
}

func TestSaveScheduleExecutesUpsert(t *testing.T) {
	store, mock := newMockStore(t)
	schedule := &domain.Schedule{Assignments: []domain.Assignment{{Course: "CS101", Slot: "Monday 9am-10am"}}}

	mock.ExpectExec("INSERT INTO term_schedules").
		WithArgs("fall-2026", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.SaveSchedule(context.Background(), "fall-2026", schedule)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadScheduleReturnsDecodedAssignments(t *testing.T) {
	store, mock := newMockStore(t)
	payload, _ := json.Marshal([]domain.Assignment{{Course: "CS101", Slot: "Monday 9am-10am"}})

	mock.ExpectQuery("SELECT assignments FROM term_schedules").
		WithArgs("fall-2026").
		WillReturnRows(sqlmock.NewRows([]string{"assignments"}).AddRow(payload))

	schedule, err := store.LoadSchedule(context.Background(), "fall-2026")

	require.NoError(t, err)
	require.Len(t, schedule.Assignments, 1)
	assert.Equal(t, domain.CourseID("CS101"), schedule.Assignments[0].Course)
}

func TestLoadScheduleMissingTermReturnsError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT assignments FROM term_schedules").
		WithArgs("spring-2099").
		WillReturnError(sql.ErrNoRows)

	_, err := store.LoadSchedule(context.Background(), "spring-2099")

	assert.Error(t, err)
}
