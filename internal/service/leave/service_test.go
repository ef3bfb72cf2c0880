package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveProvider struct {
	requestsByYear map[int][]leave.Request
	fetchErr       error

	applied      []leave.ApplyRequest
	appliedDays  []float64
	applyErr     error
	fetchedYears []int
}

func (f *fakeLeaveProvider) GetMyLeaves(ctx context.Context, year int) ([]leave.Request, error) {
	f.fetchedYears = append(f.fetchedYears, year)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.requestsByYear[year], nil
}

func (f *fakeLeaveProvider) ApplyLeave(ctx context.Context, req leave.ApplyRequest, totalDays float64) error {
	f.applied = append(f.applied, req)
	f.appliedDays = append(f.appliedDays, totalDays)
	return f.applyErr
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLeaveService_Apply_Success(t *testing.T) {
	provider := &fakeLeaveProvider{requestsByYear: map[int][]leave.Request{}}
	service := NewService(provider)

	req := leave.ApplyRequest{
		LeaveTypeID: "1",
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-12",
		Reason:      "family event",
	}
	resp, err := service.Apply(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 3.0, resp.TotalDays)
	require.Len(t, provider.applied, 1)
	assert.Equal(t, req, provider.applied[0])
	assert.Equal(t, []float64{3}, provider.appliedDays)
}

func TestLeaveService_Apply_SingleDay(t *testing.T) {
	provider := &fakeLeaveProvider{requestsByYear: map[int][]leave.Request{}}
	service := NewService(provider)

	resp, err := service.Apply(context.Background(), leave.ApplyRequest{
		LeaveTypeID: "1",
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-10",
		Reason:      "sick",
	})

	require.NoError(t, err)
	assert.Equal(t, 1.0, resp.TotalDays)
}

func TestLeaveService_Apply_EndBeforeStart(t *testing.T) {
	provider := &fakeLeaveProvider{}
	service := NewService(provider)

	_, err := service.Apply(context.Background(), leave.ApplyRequest{
		LeaveTypeID: "1",
		StartDate:   "2025-06-12",
		EndDate:     "2025-06-10",
		Reason:      "typo",
	})

	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
	assert.Empty(t, provider.applied)
}

func TestLeaveService_Apply_RejectedRequestStillBlocksItsDates(t *testing.T) {
	provider := &fakeLeaveProvider{
		requestsByYear: map[int][]leave.Request{
			2024: {
				{
					ID:        "9",
					StartDate: date(2024, 6, 11),
					EndDate:   date(2024, 6, 11),
					Status:    leave.RequestStatusRejected,
				},
			},
		},
	}
	service := NewService(provider)

	_, err := service.Apply(context.Background(), leave.ApplyRequest{
		LeaveTypeID: "1",
		StartDate:   "2024-06-10",
		EndDate:     "2024-06-12",
		Reason:      "retry",
	})

	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
	assert.Empty(t, provider.applied)
}

func TestLeaveService_Apply_AdjacentDatesDoNotConflict(t *testing.T) {
	provider := &fakeLeaveProvider{
		requestsByYear: map[int][]leave.Request{
			2025: {
				{StartDate: date(2025, 6, 9), EndDate: date(2025, 6, 9), Status: leave.RequestStatusApproved},
			},
		},
	}
	service := NewService(provider)

	_, err := service.Apply(context.Background(), leave.ApplyRequest{
		LeaveTypeID: "1",
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-11",
		Reason:      "trip",
	})

	assert.NoError(t, err)
}

func TestLeaveService_Apply_RangeSpanningYearsChecksBothYears(t *testing.T) {
	provider := &fakeLeaveProvider{requestsByYear: map[int][]leave.Request{}}
	service := NewService(provider)

	_, err := service.Apply(context.Background(), leave.ApplyRequest{
		LeaveTypeID: "1",
		StartDate:   "2025-12-30",
		EndDate:     "2026-01-02",
		Reason:      "holidays",
	})

	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2026}, provider.fetchedYears)
}

func TestLeaveService_Apply_ConflictCheckDegradesWhenFetchFails(t *testing.T) {
	// The upstream re-checks overlaps on submission, so a failed lookup
	// here lets the request through instead of blocking it.
	provider := &fakeLeaveProvider{fetchErr: errors.New("upstream down")}
	service := NewService(provider)

	_, err := service.Apply(context.Background(), leave.ApplyRequest{
		LeaveTypeID: "1",
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-10",
		Reason:      "sick",
	})

	assert.NoError(t, err)
	assert.Len(t, provider.applied, 1)
}

func TestLeaveService_Apply_UpstreamRejectionPropagates(t *testing.T) {
	provider := &fakeLeaveProvider{
		requestsByYear: map[int][]leave.Request{},
		applyErr:       errors.New("quota exceeded"),
	}
	service := NewService(provider)

	_, err := service.Apply(context.Background(), leave.ApplyRequest{
		LeaveTypeID: "1",
		StartDate:   "2025-06-10",
		EndDate:     "2025-06-10",
		Reason:      "sick",
	})

	assert.Error(t, err)
}

func TestLeaveService_ListMyLeaves(t *testing.T) {
	provider := &fakeLeaveProvider{
		requestsByYear: map[int][]leave.Request{
			2025: {
				{
					ID:        "11",
					TypeLabel: "Annual Leave",
					StartDate: date(2025, 6, 10),
					EndDate:   date(2025, 6, 12),
					Status:    leave.RequestStatusApproved,
					TotalDays: 3,
				},
			},
		},
	}
	service := NewService(provider)

	responses, err := service.ListMyLeaves(context.Background(), 2025)

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "11", responses[0].ID)
	assert.Equal(t, "2025-06-10", responses[0].StartDate)
	assert.Equal(t, "2025-06-12", responses[0].EndDate)
	assert.Equal(t, "APPROVED", responses[0].Status)
}

func TestLeaveService_ListMyLeaves_FetchFailure(t *testing.T) {
	provider := &fakeLeaveProvider{fetchErr: errors.New("upstream down")}
	service := NewService(provider)

	_, err := service.ListMyLeaves(context.Background(), 2025)

	assert.Error(t, err)
}
