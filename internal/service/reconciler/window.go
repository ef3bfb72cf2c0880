package reconciler

import (
	"time"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/attendance"
)

var monthNames = map[string]string{
	"JAN": "January", "FEB": "February", "MAR": "March", "APR": "April",
	"MAY": "May", "JUN": "June", "JUL": "July", "AUG": "August",
	"SEP": "September", "OCT": "October", "NOV": "November", "DEC": "December",
}

// ResolveWindow maps a report period onto an inclusive [start, end] range
// of local calendar dates.
//
// "30DAYS" is the rolling window ending today. A month token resolves to
// the most recently completed occurrence of that month: a token ahead of
// the current local month belongs to the previous year. The end date is
// clamped to today in all cases — attendance is never projected forward.
func ResolveWindow(period string, now time.Time) (start, end time.Time) {
	today := truncateToDay(now)

	if period == attendance.Period30Days {
		return today.AddDate(0, 0, -30), today
	}

	monthIndex := indexOfMonthToken(period)
	if monthIndex < 0 {
		// Validation upstream should prevent this; fall back to the
		// rolling window rather than failing.
		return today.AddDate(0, 0, -30), today
	}

	year := now.Year()
	if monthIndex > int(now.Month())-1 {
		year--
	}

	start = time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, now.Location())
	end = time.Date(year, time.Month(monthIndex+2), 0, 0, 0, 0, 0, now.Location())
	if end.After(today) {
		end = today
	}

	return start, end
}

// PeriodLabel is the human label for a resolved period selection.
func PeriodLabel(period string, start time.Time) string {
	if period == attendance.Period30Days {
		return "Last 30 Days"
	}
	if name, ok := monthNames[period]; ok {
		return name + " " + start.Format("2006")
	}
	return period
}

// MonthButtons returns the six most recently completed months, newest
// first, as period tokens.
func MonthButtons(now time.Time) []string {
	buttons := make([]string, 0, 6)
	currentIndex := int(now.Month()) - 1
	for i := 1; i <= 6; i++ {
		idx := currentIndex - i
		if idx < 0 {
			idx += 12
		}
		buttons = append(buttons, attendance.MonthTokens[idx])
	}
	return buttons
}

func indexOfMonthToken(token string) int {
	for i, t := range attendance.MonthTokens {
		if t == token {
			return i
		}
	}
	return -1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
