package reconciler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProviders implements all four upstream provider contracts with
// canned data and call counters.
type fakeProviders struct {
	profile      employee.Profile
	profileErr   error
	profileCalls int

	shifts     []policy.ShiftPolicy
	shiftErr   error
	shiftCalls int

	weeklyOffs     []policy.WeeklyOffPolicy
	weeklyOffErr   error
	weeklyOffCalls int

	leavesByYear map[int][]leave.Request
	leavesErr    error
	leaveYears   []int

	aggregates    []attendance.Aggregate
	aggregatesErr error

	todayPunches []attendance.Punch
	todayErr     error
	todayCalls   int

	detailPunches []attendance.Punch
	detailErr     error
	detailCalls   int
}

func (f *fakeProviders) GetMyProfile(ctx context.Context) (employee.Profile, error) {
	f.profileCalls++
	return f.profile, f.profileErr
}

func (f *fakeProviders) GetShiftPolicies(ctx context.Context) ([]policy.ShiftPolicy, error) {
	f.shiftCalls++
	return f.shifts, f.shiftErr
}

func (f *fakeProviders) GetWeeklyOffPolicies(ctx context.Context) ([]policy.WeeklyOffPolicy, error) {
	f.weeklyOffCalls++
	return f.weeklyOffs, f.weeklyOffErr
}

func (f *fakeProviders) GetMyLeaves(ctx context.Context, year int) ([]leave.Request, error) {
	f.leaveYears = append(f.leaveYears, year)
	if f.leavesErr != nil {
		return nil, f.leavesErr
	}
	return f.leavesByYear[year], nil
}

func (f *fakeProviders) ApplyLeave(ctx context.Context, req leave.ApplyRequest, totalDays float64) error {
	return nil
}

func (f *fakeProviders) GetMonthlyReport(ctx context.Context, start, end time.Time) ([]attendance.Aggregate, error) {
	return f.aggregates, f.aggregatesErr
}

func (f *fakeProviders) GetTodayAttendance(ctx context.Context) ([]attendance.Punch, error) {
	f.todayCalls++
	return f.todayPunches, f.todayErr
}

func (f *fakeProviders) GetAttendanceDetailsByDate(ctx context.Context, date string) ([]attendance.Punch, error) {
	f.detailCalls++
	return f.detailPunches, f.detailErr
}

func newTestService(f *fakeProviders, now time.Time, ttl time.Duration) *Service {
	svc := NewService(f, f, f, f, cache.New(), ttl)
	svc.now = func() time.Time { return now }
	return svc
}

func int64Ptr(v int64) *int64 { return &v }

func TestService_MonthlyReport_EveryFetchFailingStillProducesReport(t *testing.T) {
	boom := errors.New("upstream down")
	f := &fakeProviders{
		profileErr:    boom,
		leavesErr:     boom,
		aggregatesErr: boom,
	}
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	report := svc.MonthlyReport(context.Background(), "user-1", attendance.ReportFilter{Period: attendance.Period30Days})

	require.Len(t, report.Days, 31)
	for _, d := range report.Days {
		assert.Equal(t, attendance.StatusAbsent, d.Status)
		assert.Equal(t, "Absent", d.ArrivalStatus)
	}
	// The policy lookups hang off the profile, so they were never tried.
	assert.Zero(t, f.shiftCalls)
	assert.Zero(t, f.weeklyOffCalls)
}

func TestService_MonthlyReport_ReconcilesSnapshotAndAggregates(t *testing.T) {
	lateCheckIn := time.Date(2025, 6, 18, 9, 20, 0, 0, time.UTC)
	f := &fakeProviders{
		profile: employee.Profile{
			ID:                "42",
			ShiftPolicyID:     int64Ptr(7),
			WeeklyOffPolicyID: int64Ptr(3),
		},
		shifts: []policy.ShiftPolicy{
			{ID: 7, StartTime: "09:00:00", GraceMinutes: 15},
		},
		weeklyOffs: []policy.WeeklyOffPolicy{
			{ID: 3, SaturdayOff: true, SundayOff: true},
		},
		leavesByYear: map[int][]leave.Request{
			2025: {
				{TypeLabel: "Annual Leave", StartDate: day(2025, 6, 19), EndDate: day(2025, 6, 19), Status: leave.RequestStatusApproved},
			},
		},
		aggregates: []attendance.Aggregate{
			{Date: day(2025, 6, 18), Status: attendance.StatusPresent, FirstCheckIn: &lateCheckIn},
		},
	}
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	report := svc.MonthlyReport(context.Background(), "user-42", attendance.ReportFilter{Period: attendance.Period30Days})

	byDate := make(map[string]attendance.DayResponse)
	for _, d := range report.Days {
		byDate[d.AttendanceDate] = d
	}

	onLeave := byDate["2025-06-19"]
	assert.Equal(t, attendance.StatusOnLeave, onLeave.Status)
	require.NotNil(t, onLeave.LeaveType)
	assert.Equal(t, "Annual Leave", *onLeave.LeaveType)

	// 2025-06-14 is a Saturday.
	weekOff := byDate["2025-06-14"]
	assert.Equal(t, attendance.StatusWeekend, weekOff.Status)
	assert.Equal(t, "Week Off", weekOff.ArrivalStatus)

	late := byDate["2025-06-18"]
	assert.Equal(t, "Late Arrival", late.ArrivalStatus)
	assert.Equal(t, "20:00 late", late.LateDuration)

	assert.Equal(t, []int{2025}, f.leaveYears)
}

func TestService_MonthlyReport_PreviousYearWindowFetchesThatYearsLeaves(t *testing.T) {
	f := &fakeProviders{
		profile: employee.Profile{ID: "42"},
		leavesByYear: map[int][]leave.Request{
			2024: {
				{TypeLabel: "Annual Leave", StartDate: day(2024, 12, 10), EndDate: day(2024, 12, 12), Status: leave.RequestStatusApproved},
			},
		},
	}
	// A DEC request in March resolves to December of the previous year;
	// the leave index must cover that year, not the current one.
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	report := svc.MonthlyReport(context.Background(), "user-42", attendance.ReportFilter{Period: "DEC"})

	assert.Equal(t, []int{2024}, f.leaveYears)
	assert.Equal(t, "2024-12-01", report.StartDate)

	byDate := make(map[string]attendance.DayResponse)
	for _, d := range report.Days {
		byDate[d.AttendanceDate] = d
	}
	for _, date := range []string{"2024-12-10", "2024-12-11", "2024-12-12"} {
		onLeave := byDate[date]
		assert.Equal(t, attendance.StatusOnLeave, onLeave.Status, date)
		require.NotNil(t, onLeave.LeaveType, date)
		assert.Equal(t, "Annual Leave", *onLeave.LeaveType, date)
	}
}

func TestService_MonthlyReport_WindowSpanningYearsFetchesBothYears(t *testing.T) {
	f := &fakeProviders{
		profile: employee.Profile{ID: "42"},
		leavesByYear: map[int][]leave.Request{
			2024: {
				{TypeLabel: "Annual Leave", StartDate: day(2024, 12, 30), EndDate: day(2024, 12, 31), Status: leave.RequestStatusApproved},
			},
			2025: {
				{TypeLabel: "Sick Leave", StartDate: day(2025, 1, 2), EndDate: day(2025, 1, 2), Status: leave.RequestStatusApproved},
			},
		},
	}
	// The rolling window reaches back into the previous year here.
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	report := svc.MonthlyReport(context.Background(), "user-42", attendance.ReportFilter{Period: attendance.Period30Days})

	assert.Equal(t, []int{2024, 2025}, f.leaveYears)

	byDate := make(map[string]attendance.DayResponse)
	for _, d := range report.Days {
		byDate[d.AttendanceDate] = d
	}
	assert.Equal(t, attendance.StatusOnLeave, byDate["2024-12-31"].Status)
	assert.Equal(t, attendance.StatusOnLeave, byDate["2025-01-02"].Status)
}

func TestService_MonthlyReport_SnapshotReusedWithinTTL(t *testing.T) {
	f := &fakeProviders{
		profile: employee.Profile{ID: "42"},
	}
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	svc.MonthlyReport(context.Background(), "user-42", attendance.ReportFilter{Period: attendance.Period30Days})
	svc.MonthlyReport(context.Background(), "user-42", attendance.ReportFilter{Period: attendance.Period30Days})

	assert.Equal(t, 1, f.profileCalls)
}

func TestService_MonthlyReport_DistinctUsersGetDistinctSnapshots(t *testing.T) {
	f := &fakeProviders{
		profile: employee.Profile{ID: "42"},
	}
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	svc.MonthlyReport(context.Background(), "user-a", attendance.ReportFilter{Period: attendance.Period30Days})
	svc.MonthlyReport(context.Background(), "user-b", attendance.ReportFilter{Period: attendance.Period30Days})

	assert.Equal(t, 2, f.profileCalls)
}

func TestService_MonthlyReport_WindowsInDifferentYearsGetDistinctSnapshots(t *testing.T) {
	f := &fakeProviders{
		profile: employee.Profile{ID: "42"},
	}
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	// JAN stays in 2025, DEC resolves to 2024; the cached 2025 snapshot
	// must not be reused for the 2024 window.
	svc.MonthlyReport(context.Background(), "user-42", attendance.ReportFilter{Period: "JAN"})
	svc.MonthlyReport(context.Background(), "user-42", attendance.ReportFilter{Period: "DEC"})

	assert.Equal(t, 2, f.profileCalls)
	assert.Equal(t, []int{2025, 2024}, f.leaveYears)
}

func TestService_LoadSnapshot_NilPolicyIDsSkipPolicyFetch(t *testing.T) {
	f := &fakeProviders{
		profile: employee.Profile{ID: "42"},
	}
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	snap := svc.loadSnapshot(context.Background(), "user-42", day(2025, 5, 21), day(2025, 6, 20))

	assert.Nil(t, snap.Shift)
	assert.Nil(t, snap.WeeklyOff)
	assert.Zero(t, f.shiftCalls)
	assert.Zero(t, f.weeklyOffCalls)
}

func TestService_TodayStatus_OpenSessionFlags(t *testing.T) {
	f := &fakeProviders{
		todayPunches: []attendance.Punch{
			{Type: attendance.PunchTypeIn, Time: time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC)},
		},
	}
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	status := svc.TodayStatus(context.Background())

	assert.Equal(t, "2025-06-20", status.Date)
	assert.True(t, status.HasCheckedIn)
	assert.True(t, status.HasOpenSession)
	assert.False(t, status.CanClockIn)
	assert.True(t, status.CanClockOut)
}

func TestService_TodayStatus_ClosedDayFlags(t *testing.T) {
	f := &fakeProviders{
		todayPunches: []attendance.Punch{
			{Type: attendance.PunchTypeIn, Time: time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC)},
			{Type: attendance.PunchTypeOut, Time: time.Date(2025, 6, 20, 17, 0, 0, 0, time.UTC)},
		},
	}
	now := time.Date(2025, 6, 20, 18, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	status := svc.TodayStatus(context.Background())

	assert.True(t, status.HasCheckedIn)
	assert.False(t, status.HasOpenSession)
	assert.True(t, status.CanClockIn)
	assert.False(t, status.CanClockOut)
}

func TestService_TodayStatus_FetchFailureDegradesToNeutral(t *testing.T) {
	f := &fakeProviders{todayErr: errors.New("timeout")}
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	status := svc.TodayStatus(context.Background())

	assert.False(t, status.HasCheckedIn)
	assert.False(t, status.HasOpenSession)
	assert.True(t, status.CanClockIn)
	assert.Empty(t, status.Records)
}

func TestService_LogDetails_TodayUsesLiveFeed(t *testing.T) {
	f := &fakeProviders{
		todayPunches: []attendance.Punch{
			{Type: attendance.PunchTypeIn, Time: time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC)},
		},
	}
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	details := svc.LogDetails(context.Background(), "2025-06-20")

	assert.Equal(t, 1, f.todayCalls)
	assert.Zero(t, f.detailCalls)
	require.Len(t, details.Records, 1)
	assert.Nil(t, details.Records[0].CheckOut)
}

func TestService_LogDetails_PastDateUsesHistoricalEndpoint(t *testing.T) {
	f := &fakeProviders{
		detailPunches: []attendance.Punch{
			{Type: attendance.PunchTypeIn, Time: time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)},
			{Type: attendance.PunchTypeOut, Time: time.Date(2025, 6, 12, 17, 0, 0, 0, time.UTC)},
		},
	}
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	details := svc.LogDetails(context.Background(), "2025-06-12")

	assert.Zero(t, f.todayCalls)
	assert.Equal(t, 1, f.detailCalls)
	assert.Equal(t, "2025-06-12", details.AttendanceDate)
	require.Len(t, details.Records, 1)
	require.NotNil(t, details.Records[0].CheckOut)
}

func TestService_SweepSnapshots(t *testing.T) {
	f := &fakeProviders{profile: employee.Profile{ID: "42"}}
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newTestService(f, now, time.Minute)

	start, end := day(2025, 5, 21), day(2025, 6, 20)
	svc.loadSnapshot(context.Background(), "user-42", start, end)

	require.NoError(t, svc.SweepSnapshots(context.Background()))

	// A fresh snapshot survives the sweep.
	_, _, ok := svc.snapshots.Get(snapshotKey("user-42", start, end))
	assert.True(t, ok)
}
