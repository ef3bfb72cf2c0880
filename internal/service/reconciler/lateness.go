package reconciler

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/validator"
)

var arrivalLabels = map[string]string{
	attendance.StatusPresent: "On Time",
	attendance.StatusAbsent:  "Absent",
	attendance.StatusHalfDay: "Half Day",
	attendance.StatusLate:    "Late Arrival",
	attendance.StatusOnLeave: "On Leave",
	attendance.StatusWeekend: "Week Off",
}

// ClassifyArrival produces the displayed arrival label and, when the
// check-in missed the grace window, the late-duration string. The
// underlying day status is never changed — this is presentation only.
//
// The label flips to "Late Arrival" only when the first check-in is
// strictly after shift start plus the grace window. The duration itself is
// measured from shift start, not from the grace edge, and is formatted
// "H:MM:SS late" (or "MM:SS late" under an hour). An unparseable shift
// start yields no label change and no duration.
func ClassifyArrival(status string, firstCheckIn *time.Time, shift *policy.ShiftPolicy) (label, lateDuration string) {
	label = arrivalLabels[status]
	if label == "" {
		label = "Unknown"
	}

	if status != attendance.StatusPresent || firstCheckIn == nil || shift == nil {
		return label, ""
	}

	shiftStart, err := shiftStartOn(*firstCheckIn, shift)
	if err != nil {
		return label, ""
	}

	graceThreshold := shiftStart.Add(time.Duration(shift.GraceMinutes) * time.Minute)
	if !firstCheckIn.After(graceThreshold) {
		return label, ""
	}

	return "Late Arrival", formatLateDuration(firstCheckIn.Sub(shiftStart))
}

// shiftStartOn anchors the policy's wall-clock start time on the check-in's
// own calendar day.
func shiftStartOn(checkIn time.Time, shift *policy.ShiftPolicy) (time.Time, error) {
	hour, minute, second, err := validator.ParseClock(shift.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), hour, minute, second, 0, checkIn.Location()), nil
}

func formatLateDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d late", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d late", minutes, seconds)
}
