package attendance

import (
	"strings"

	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/validator"
)

// MonthTokens are the period values accepted by the report filter besides
// Period30Days, in calendar order.
var MonthTokens = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

const Period30Days = "30DAYS"

// ReportFilter selects the reporting window: the rolling last-30-days view
// or a specific month of the current (or previous, see window resolver) year.
type ReportFilter struct {
	Period string `json:"period"`
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.Period) {
		f.Period = Period30Days
	}
	f.Period = strings.ToUpper(strings.TrimSpace(f.Period))

	if f.Period != Period30Days && !validator.IsInSlice(f.Period, MonthTokens) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be 30DAYS or a month token (JAN..DEC)",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LogDetailsRequest asks for the punch sessions of a single date.
type LogDetailsRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

func (r *LogDetailsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SessionResponse struct {
	CheckIn  string  `json:"check_in"`
	CheckOut *string `json:"check_out"`
	WorkMode string  `json:"work_mode"`
	Location *string `json:"location,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Approved *bool   `json:"approved,omitempty"`
}

type DayResponse struct {
	AttendanceDate string            `json:"attendance_date"`
	Status         string            `json:"status"`
	LeaveType      *string           `json:"leave_type,omitempty"`
	GrossHours     *float64          `json:"gross_hours"`
	EffectiveHours *float64          `json:"effective_hours"`
	ArrivalStatus  string            `json:"arrival_status"`
	LateDuration   string            `json:"late_duration,omitempty"`
	Records        []SessionResponse `json:"records"`
	NoLogs         bool              `json:"no_logs"`
}

type ReportResponse struct {
	Period       string        `json:"period"`
	PeriodLabel  string        `json:"period_label"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	MonthButtons []string      `json:"month_buttons"`
	Days         []DayResponse `json:"days"`
}

type LogDetailsResponse struct {
	AttendanceDate string            `json:"attendance_date"`
	Records        []SessionResponse `json:"records"`
}

// TodayStatusResponse is the real-time clock state for the current day.
type TodayStatusResponse struct {
	Date           string            `json:"date"`
	Records        []SessionResponse `json:"records"`
	HasCheckedIn   bool              `json:"has_checked_in"`
	HasOpenSession bool              `json:"has_open_session"`
	CanClockIn     bool              `json:"can_clock_in"`
	CanClockOut    bool              `json:"can_clock_out"`
}
