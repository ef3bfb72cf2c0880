package reconciler

import (
	"time"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/policy"
)

// BuildLeaveIndex maps every calendar day covered by an APPROVED leave
// range (both endpoints inclusive) to its leave type label. Requests are
// processed in input order, so an overlapping later request wins
// deterministically.
func BuildLeaveIndex(requests []leave.Request) map[string]string {
	index := make(map[string]string)
	for _, req := range requests {
		if req.Status != leave.RequestStatusApproved {
			continue
		}
		for d := req.StartDate; !d.After(req.EndDate); d = d.AddDate(0, 0, 1) {
			index[d.Format(attendance.DateKeyLayout)] = req.TypeLabel
		}
	}
	return index
}

// WeekendSet resolves a weekly-off policy into the set of off weekdays.
// No policy means no day is automatically a weekend.
func WeekendSet(p *policy.WeeklyOffPolicy) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool)
	if p == nil {
		return set
	}
	if p.SundayOff {
		set[time.Sunday] = true
	}
	if p.MondayOff {
		set[time.Monday] = true
	}
	if p.TuesdayOff {
		set[time.Tuesday] = true
	}
	if p.WednesdayOff {
		set[time.Wednesday] = true
	}
	if p.ThursdayOff {
		set[time.Thursday] = true
	}
	if p.FridayOff {
		set[time.Friday] = true
	}
	if p.SaturdayOff {
		set[time.Saturday] = true
	}
	return set
}
