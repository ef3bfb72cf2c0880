package attendance

import (
	"context"
	"time"
)

// Provider is the upstream attendance collaborator. Implementations must
// degrade gracefully: callers treat any error as "no data" (empty report,
// empty punch list) rather than failing the whole composition.
type Provider interface {
	// GetMonthlyReport returns the attendance aggregates for the inclusive
	// window, keyed by local calendar date.
	GetMonthlyReport(ctx context.Context, start, end time.Time) ([]Aggregate, error)

	// GetTodayAttendance returns today's raw punches, ordered by time.
	GetTodayAttendance(ctx context.Context) ([]Punch, error)

	// GetAttendanceDetailsByDate returns the raw punches of one date.
	GetAttendanceDetailsByDate(ctx context.Context, date string) ([]Punch, error)
}
