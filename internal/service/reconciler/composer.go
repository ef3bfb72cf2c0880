package reconciler

import (
	"time"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/attendance"
)

// ComposeDailyStatuses assigns exactly one status to every calendar day in
// the inclusive [start, end] window, with fixed precedence:
//
//  1. approved leave (even on a policy weekend day — intentional),
//  2. policy weekend,
//  3. the upstream aggregate's own status,
//  4. absent.
//
// The result is ordered most-recent-first. Composition is a pure function
// of its inputs; nothing carries over between days.
func ComposeDailyStatuses(
	start, end time.Time,
	leaveIndex map[string]string,
	weekend map[time.Weekday]bool,
	aggregates []attendance.Aggregate,
) []attendance.DailyStatus {
	aggregateByDate := make(map[string]attendance.Aggregate, len(aggregates))
	for _, agg := range aggregates {
		aggregateByDate[agg.Date.Format(attendance.DateKeyLayout)] = agg
	}

	var days []attendance.DailyStatus
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dateKey := d.Format(attendance.DateKeyLayout)

		if leaveType, ok := leaveIndex[dateKey]; ok {
			label := leaveType
			days = append(days, attendance.DailyStatus{
				Date:      dateKey,
				Status:    attendance.StatusOnLeave,
				LeaveType: &label,
				Sessions:  []attendance.Session{},
				NoLogs:    true,
			})
			continue
		}

		if weekend[d.Weekday()] {
			label := attendance.WeekendLeaveLabel
			days = append(days, attendance.DailyStatus{
				Date:      dateKey,
				Status:    attendance.StatusWeekend,
				LeaveType: &label,
				Sessions:  []attendance.Session{},
				NoLogs:    true,
			})
			continue
		}

		if agg, ok := aggregateByDate[dateKey]; ok {
			sessions := agg.Sessions
			if sessions == nil {
				sessions = []attendance.Session{}
			}
			days = append(days, attendance.DailyStatus{
				Date:           dateKey,
				Status:         agg.Status,
				GrossHours:     agg.GrossHours,
				EffectiveHours: agg.EffectiveHours,
				FirstCheckIn:   agg.FirstCheckIn,
				Sessions:       sessions,
				NoLogs:         false,
			})
			continue
		}

		days = append(days, attendance.DailyStatus{
			Date:     dateKey,
			Status:   attendance.StatusAbsent,
			Sessions: []attendance.Session{},
			NoLogs:   true,
		})
	}

	// Most recent first.
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}

	return days
}
