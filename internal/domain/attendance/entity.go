package attendance

import (
	"time"
)

// Punch types as reported by the HRIS API.
const (
	PunchTypeIn  = "in"
	PunchTypeOut = "out"
)

// Work modes. Anything that looks remote is normalized to WorkModeRemote
// when punches are mapped into sessions.
const (
	WorkModeOffice = "Office"
	WorkModeWFH    = "WFH"
	WorkModeRemote = "Remote"
)

// Daily statuses. StatusOnLeave and StatusWeekend are derived locally;
// the rest come straight from the upstream monthly aggregates.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "half-day"
	StatusLate    = "late"
	StatusOnLeave = "on-leave"
	StatusWeekend = "weekend"
)

// WeekendLeaveLabel is the fixed label attached to policy week-off days.
const WeekendLeaveLabel = "Full day week off"

// DateKeyLayout is the calendar-date key format used throughout the
// reconciler. Keys are local calendar dates, never UTC instants.
const DateKeyLayout = "2006-01-02"

type Punch struct {
	Type     string
	Time     time.Time
	WorkMode string
	Location *string
	Notes    *string
	Approved *bool
}

// Session is one matched in/out pair. An "in" with no following "out"
// leaves CheckOut nil (open session).
type Session struct {
	CheckIn  time.Time
	CheckOut *time.Time
	WorkMode string
	Location *string
	Notes    *string
	Approved *bool
}

// Aggregate is one row of the upstream monthly report.
type Aggregate struct {
	Date           time.Time
	Status         string
	GrossHours     *float64
	EffectiveHours *float64
	FirstCheckIn   *time.Time
	Sessions       []Session
}

// DailyStatus is the reconciled classification of a single calendar day.
// Exactly one status applies per day.
type DailyStatus struct {
	Date           string
	Status         string
	LeaveType      *string
	GrossHours     *float64
	EffectiveHours *float64
	FirstCheckIn   *time.Time
	Sessions       []Session
	NoLogs         bool
}
