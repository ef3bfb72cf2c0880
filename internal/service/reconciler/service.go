package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/cache"
)

// Snapshot is the per-employee upstream state a report is composed from:
// profile, resolved policies and the approved-leave index. It is rebuilt
// wholesale on every reload, never patched.
type Snapshot struct {
	Generation uint64
	Profile    *employee.Profile
	Shift      *policy.ShiftPolicy
	WeeklyOff  *policy.WeeklyOffPolicy
	LeaveIndex map[string]string
}

// Service reconciles the four upstream collaborators into per-day statuses
// and per-punch session lists. Every fetch failure degrades to an empty or
// neutral default — there is no fatal path here, only staler output.
type Service struct {
	profiles    employee.Provider
	policies    policy.Provider
	leaves      leave.Provider
	attendances attendance.Provider

	snapshots   *cache.Store
	snapshotTTL time.Duration
	generation  atomic.Uint64

	now func() time.Time
}

func NewService(
	profiles employee.Provider,
	policies policy.Provider,
	leaves leave.Provider,
	attendances attendance.Provider,
	snapshots *cache.Store,
	snapshotTTL time.Duration,
) *Service {
	return &Service{
		profiles:    profiles,
		policies:    policies,
		leaves:      leaves,
		attendances: attendances,
		snapshots:   snapshots,
		snapshotTTL: snapshotTTL,
		now:         time.Now,
	}
}

// MonthlyReport builds the reconciled day-by-day report for the selected
// period, most recent day first.
func (s *Service) MonthlyReport(ctx context.Context, userKey string, filter attendance.ReportFilter) attendance.ReportResponse {
	now := s.now()
	start, end := ResolveWindow(filter.Period, now)
	snap := s.loadSnapshot(ctx, userKey, start, end)

	aggregates, err := s.attendances.GetMonthlyReport(ctx, start, end)
	if err != nil {
		slog.Warn("Monthly report fetch failed, composing without aggregates", "error", err)
		aggregates = nil
	}

	days := ComposeDailyStatuses(start, end, snap.LeaveIndex, WeekendSet(snap.WeeklyOff), aggregates)

	dayResponses := make([]attendance.DayResponse, 0, len(days))
	for _, day := range days {
		label, lateDuration := ClassifyArrival(day.Status, day.FirstCheckIn, snap.Shift)
		dayResponses = append(dayResponses, attendance.DayResponse{
			AttendanceDate: day.Date,
			Status:         day.Status,
			LeaveType:      day.LeaveType,
			GrossHours:     day.GrossHours,
			EffectiveHours: day.EffectiveHours,
			ArrivalStatus:  label,
			LateDuration:   lateDuration,
			Records:        toSessionResponses(day.Sessions),
			NoLogs:         day.NoLogs,
		})
	}

	return attendance.ReportResponse{
		Period:       filter.Period,
		PeriodLabel:  PeriodLabel(filter.Period, start),
		StartDate:    start.Format(attendance.DateKeyLayout),
		EndDate:      end.Format(attendance.DateKeyLayout),
		MonthButtons: MonthButtons(now),
		Days:         dayResponses,
	}
}

// LogDetails returns the session list of a single date. Today's sessions
// come from the live punch feed instead of the historical endpoint, so an
// open session shows up before the day is aggregated upstream.
func (s *Service) LogDetails(ctx context.Context, date string) attendance.LogDetailsResponse {
	today := s.now().Format(attendance.DateKeyLayout)

	var punches []attendance.Punch
	var err error
	if date == today {
		punches, err = s.attendances.GetTodayAttendance(ctx)
	} else {
		punches, err = s.attendances.GetAttendanceDetailsByDate(ctx, date)
	}
	if err != nil {
		slog.Warn("Punch fetch failed, returning empty log", "date", date, "error", err)
		punches = nil
	}

	return attendance.LogDetailsResponse{
		AttendanceDate: date,
		Records:        toSessionResponses(MapPunchesToSessions(punches)),
	}
}

// TodayStatus reports the real-time clock state for the current day.
func (s *Service) TodayStatus(ctx context.Context) attendance.TodayStatusResponse {
	punches, err := s.attendances.GetTodayAttendance(ctx)
	if err != nil {
		slog.Warn("Today attendance fetch failed, reporting neutral status", "error", err)
		punches = nil
	}

	sessions := MapPunchesToSessions(punches)
	hasOpen := len(sessions) > 0 && sessions[len(sessions)-1].CheckOut == nil

	return attendance.TodayStatusResponse{
		Date:           s.now().Format(attendance.DateKeyLayout),
		Records:        toSessionResponses(sessions),
		HasCheckedIn:   len(sessions) > 0,
		HasOpenSession: hasOpen,
		CanClockIn:     !hasOpen,
		CanClockOut:    hasOpen,
	}
}

// SweepSnapshots evicts snapshots older than the TTL. The interval
// scheduler drives this so state cannot outlive the refresh cadence.
func (s *Service) SweepSnapshots(ctx context.Context) error {
	if removed := s.snapshots.Sweep(s.snapshotTTL); removed > 0 {
		slog.Debug("Evicted stale snapshots", "count", removed)
	}
	return nil
}

// loadSnapshot returns a fresh-enough cached snapshot or rebuilds one by
// running the dependent fetch chain: profile, then the two policies the
// profile points at, then the leave index for every year the resolved
// window touches. A stage whose dependency is missing short-circuits with
// a nil value; a stage that fails degrades the same way.
func (s *Service) loadSnapshot(ctx context.Context, userKey string, start, end time.Time) Snapshot {
	key := snapshotKey(userKey, start, end)
	if cached, age, ok := s.snapshots.Get(key); ok && age < s.snapshotTTL {
		if snap, ok := cached.(Snapshot); ok {
			return snap
		}
	}

	snap := Snapshot{
		Generation: s.generation.Add(1),
		LeaveIndex: map[string]string{},
	}

	profile, err := s.profiles.GetMyProfile(ctx)
	if err != nil {
		slog.Warn("Profile fetch failed, composing without policies", "error", err)
	} else {
		snap.Profile = &profile
		snap.WeeklyOff = s.resolveWeeklyOff(ctx, profile.WeeklyOffPolicyID)
		snap.Shift = s.resolveShift(ctx, profile.ShiftPolicyID)
	}

	var requests []leave.Request
	for year := start.Year(); year <= end.Year(); year++ {
		yearRequests, err := s.leaves.GetMyLeaves(ctx, year)
		if err != nil {
			slog.Warn("Leave fetch failed, composing with partial leave index", "year", year, "error", err)
			continue
		}
		requests = append(requests, yearRequests...)
	}
	snap.LeaveIndex = BuildLeaveIndex(requests)

	// A reload that lost the race to a newer one is discarded here.
	if !s.snapshots.Put(key, snap.Generation, snap) {
		if cached, _, ok := s.snapshots.Get(key); ok {
			if current, ok := cached.(Snapshot); ok {
				return current
			}
		}
	}

	return snap
}

// snapshotKey scopes a cached snapshot to the window's years. The leave
// index only covers those years, so a window resolved elsewhere must not
// reuse it.
func snapshotKey(userKey string, start, end time.Time) string {
	return fmt.Sprintf("%s:%d-%d", userKey, start.Year(), end.Year())
}

func (s *Service) resolveWeeklyOff(ctx context.Context, policyID *int64) *policy.WeeklyOffPolicy {
	if policyID == nil {
		return nil
	}
	policies, err := s.policies.GetWeeklyOffPolicies(ctx)
	if err != nil {
		slog.Warn("Weekly-off policy fetch failed", "error", err)
		return nil
	}
	for i := range policies {
		if policies[i].ID == *policyID {
			return &policies[i]
		}
	}
	return nil
}

func (s *Service) resolveShift(ctx context.Context, policyID *int64) *policy.ShiftPolicy {
	if policyID == nil {
		return nil
	}
	policies, err := s.policies.GetShiftPolicies(ctx)
	if err != nil {
		slog.Warn("Shift policy fetch failed", "error", err)
		return nil
	}
	for i := range policies {
		if policies[i].ID == *policyID {
			return &policies[i]
		}
	}
	return nil
}

func toSessionResponses(sessions []attendance.Session) []attendance.SessionResponse {
	responses := make([]attendance.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp := attendance.SessionResponse{
			CheckIn:  session.CheckIn.Format(time.RFC3339),
			WorkMode: session.WorkMode,
			Location: session.Location,
			Notes:    session.Notes,
			Approved: session.Approved,
		}
		if session.CheckOut != nil {
			checkOut := session.CheckOut.Format(time.RFC3339)
			resp.CheckOut = &checkOut
		}
		responses = append(responses, resp)
	}
	return responses
}
