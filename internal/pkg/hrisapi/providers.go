package hrisapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/validator"
)

// The upstream payloads are loosely typed (numeric ids may arrive as
// strings, dates as date-only or full timestamps, booleans as 0/1). Every
// response is decoded into an explicit wire struct and validated here, so
// malformed items surface as warnings at the boundary instead of silently
// wrong daily statuses downstream.

type wireProfile struct {
	ID                json.Number `json:"id"`
	Name              string      `json:"name"`
	Email             string      `json:"email"`
	ShiftPolicyID     *int64      `json:"shift_policy_id"`
	WeeklyOffPolicyID *int64      `json:"weekly_off_policy_id"`
	AvatarURL         *string     `json:"avatar_url"`
}

// GetMyProfile implements employee.Provider.
func (c *Client) GetMyProfile(ctx context.Context) (employee.Profile, error) {
	var wire wireProfile
	if err := c.get(ctx, "/api/v1/employees/me", nil, &wire); err != nil {
		return employee.Profile{}, err
	}

	return employee.Profile{
		ID:                wire.ID.String(),
		Name:              wire.Name,
		Email:             wire.Email,
		ShiftPolicyID:     wire.ShiftPolicyID,
		WeeklyOffPolicyID: wire.WeeklyOffPolicyID,
		AvatarURL:         wire.AvatarURL,
	}, nil
}

type wireShiftPolicy struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	GraceMinutes int    `json:"grace_minutes"`
}

// GetShiftPolicies implements half of policy.Provider.
func (c *Client) GetShiftPolicies(ctx context.Context) ([]policy.ShiftPolicy, error) {
	var wire []wireShiftPolicy
	if err := c.get(ctx, "/api/v1/admin/shift-policies", nil, &wire); err != nil {
		return nil, err
	}

	policies := make([]policy.ShiftPolicy, 0, len(wire))
	for _, p := range wire {
		grace := p.GraceMinutes
		if grace <= 0 {
			grace = policy.DefaultGraceMinutes
		}
		policies = append(policies, policy.ShiftPolicy{
			ID:           p.ID,
			Name:         p.Name,
			StartTime:    p.StartTime,
			GraceMinutes: grace,
		})
	}

	return policies, nil
}

type wireWeeklyOffPolicy struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SundayOff    int    `json:"sunday_off"`
	MondayOff    int    `json:"monday_off"`
	TuesdayOff   int    `json:"tuesday_off"`
	WednesdayOff int    `json:"wednesday_off"`
	ThursdayOff  int    `json:"thursday_off"`
	FridayOff    int    `json:"friday_off"`
	SaturdayOff  int    `json:"saturday_off"`
}

// GetWeeklyOffPolicies implements the other half of policy.Provider.
func (c *Client) GetWeeklyOffPolicies(ctx context.Context) ([]policy.WeeklyOffPolicy, error) {
	var wire []wireWeeklyOffPolicy
	if err := c.get(ctx, "/api/v1/admin/weekly-off-policies", nil, &wire); err != nil {
		return nil, err
	}

	policies := make([]policy.WeeklyOffPolicy, 0, len(wire))
	for _, p := range wire {
		policies = append(policies, policy.WeeklyOffPolicy{
			ID:           p.ID,
			Name:         p.Name,
			SundayOff:    p.SundayOff != 0,
			MondayOff:    p.MondayOff != 0,
			TuesdayOff:   p.TuesdayOff != 0,
			WednesdayOff: p.WednesdayOff != 0,
			ThursdayOff:  p.ThursdayOff != 0,
			FridayOff:    p.FridayOff != 0,
			SaturdayOff:  p.SaturdayOff != 0,
		})
	}

	return policies, nil
}

type wireLeave struct {
	ID        json.Number `json:"id"`
	TypeName  string      `json:"type_name"`
	TypeCode  string      `json:"type_code"`
	LeaveType string      `json:"leave_type"`
	StartDate string      `json:"start_date"`
	FromDate  string      `json:"from_date"`
	EndDate   string      `json:"end_date"`
	ToDate    string      `json:"to_date"`
	Status    string      `json:"status"`
	Reason    string      `json:"reason"`
	TotalDays float64     `json:"total_days"`
}

// GetMyLeaves implements leave.Provider. Items with unparseable dates are
// dropped with a warning rather than failing the whole list.
func (c *Client) GetMyLeaves(ctx context.Context, year int) ([]leave.Request, error) {
	query := url.Values{"year": {strconv.Itoa(year)}}
	var wire []wireLeave
	if err := c.get(ctx, "/api/v1/leaves/my", query, &wire); err != nil {
		return nil, err
	}

	requests := make([]leave.Request, 0, len(wire))
	for _, l := range wire {
		typeLabel := firstNonEmpty(l.TypeName, l.TypeCode, l.LeaveType, "Leave")
		fromRaw := firstNonEmpty(l.StartDate, l.FromDate)
		toRaw := firstNonEmpty(l.EndDate, l.ToDate, fromRaw)

		from, ok := parseLooseDate(fromRaw)
		if !ok {
			slog.Warn("Dropping leave with invalid start date", "id", l.ID.String(), "start_date", fromRaw)
			continue
		}
		to, ok := parseLooseDate(toRaw)
		if !ok {
			to = from
		}

		requests = append(requests, leave.Request{
			ID:        l.ID.String(),
			TypeLabel: typeLabel,
			StartDate: from,
			EndDate:   to,
			Status:    leave.RequestStatus(normalizeStatus(l.Status)),
			Reason:    l.Reason,
			TotalDays: l.TotalDays,
		})
	}

	return requests, nil
}

type wireApplyLeave struct {
	LeaveTypeID string  `json:"leave_type_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalDays   float64 `json:"total_days"`
	Reason      string  `json:"reason"`
}

// ApplyLeave implements leave.Provider.
func (c *Client) ApplyLeave(ctx context.Context, req leave.ApplyRequest, totalDays float64) error {
	body := wireApplyLeave{
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalDays:   totalDays,
		Reason:      req.Reason,
	}
	return c.post(ctx, "/api/v1/leaves", body, nil)
}

type wireSession struct {
	CheckIn  string  `json:"check_in"`
	CheckOut *string `json:"check_out"`
	WorkMode string  `json:"work_mode"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
	Approved *bool   `json:"approved"`
}

type wireAggregate struct {
	AttendanceDate string        `json:"attendance_date"`
	Status         string        `json:"status"`
	GrossHours     *float64      `json:"gross_hours"`
	EffectiveHours *float64      `json:"effective_hours"`
	FirstCheckIn   *string       `json:"first_check_in"`
	Records        []wireSession `json:"records"`
}

type wireReport struct {
	Attendance []wireAggregate `json:"attendance"`
}

// GetMonthlyReport implements part of attendance.Provider.
func (c *Client) GetMonthlyReport(ctx context.Context, start, end time.Time) ([]attendance.Aggregate, error) {
	month, year := monthYearOf(start)
	query := url.Values{
		"start_date": {start.Format(attendance.DateKeyLayout)},
		"end_date":   {end.Format(attendance.DateKeyLayout)},
		"month":      {strconv.Itoa(month)},
		"year":       {strconv.Itoa(year)},
	}

	var wire wireReport
	if err := c.get(ctx, "/api/v1/attendance/report", query, &wire); err != nil {
		return nil, err
	}

	aggregates := make([]attendance.Aggregate, 0, len(wire.Attendance))
	for _, item := range wire.Attendance {
		date, ok := parseLooseDate(item.AttendanceDate)
		if !ok {
			slog.Warn("Dropping aggregate with invalid date", "attendance_date", item.AttendanceDate)
			continue
		}

		agg := attendance.Aggregate{
			Date:           date,
			Status:         item.Status,
			GrossHours:     item.GrossHours,
			EffectiveHours: item.EffectiveHours,
			Sessions:       mapWireSessions(item.Records),
		}
		if item.FirstCheckIn != nil {
			if t, ok := validator.IsValidDateTime(*item.FirstCheckIn); ok {
				agg.FirstCheckIn = &t
			}
		}

		aggregates = append(aggregates, agg)
	}

	return aggregates, nil
}

type wirePunch struct {
	PunchType string  `json:"punch_type"`
	PunchTime string  `json:"punch_time"`
	WorkMode  string  `json:"work_mode"`
	Location  *string `json:"location"`
	Notes     *string `json:"notes"`
	Approved  *bool   `json:"approved"`
}

type wirePunchList struct {
	Punches []wirePunch `json:"punches"`
}

// GetTodayAttendance implements part of attendance.Provider.
func (c *Client) GetTodayAttendance(ctx context.Context) ([]attendance.Punch, error) {
	var wire wirePunchList
	if err := c.get(ctx, "/api/v1/attendance/today", nil, &wire); err != nil {
		return nil, err
	}
	return mapWirePunches(wire.Punches), nil
}

// GetAttendanceDetailsByDate implements part of attendance.Provider.
func (c *Client) GetAttendanceDetailsByDate(ctx context.Context, date string) ([]attendance.Punch, error) {
	query := url.Values{"date": {date}}
	var wire wirePunchList
	if err := c.get(ctx, "/api/v1/attendance/details", query, &wire); err != nil {
		return nil, err
	}
	return mapWirePunches(wire.Punches), nil
}

func mapWirePunches(wire []wirePunch) []attendance.Punch {
	punches := make([]attendance.Punch, 0, len(wire))
	for _, p := range wire {
		if p.PunchType != attendance.PunchTypeIn && p.PunchType != attendance.PunchTypeOut {
			slog.Warn("Dropping punch with unknown type", "punch_type", p.PunchType)
			continue
		}
		t, ok := validator.IsValidDateTime(p.PunchTime)
		if !ok {
			slog.Warn("Dropping punch with invalid time", "punch_time", p.PunchTime)
			continue
		}
		punches = append(punches, attendance.Punch{
			Type:     p.PunchType,
			Time:     t,
			WorkMode: p.WorkMode,
			Location: p.Location,
			Notes:    p.Notes,
			Approved: p.Approved,
		})
	}

	// The mapper depends on timestamp order; the upstream does not
	// guarantee it.
	sort.SliceStable(punches, func(i, j int) bool {
		return punches[i].Time.Before(punches[j].Time)
	})

	return punches
}

func mapWireSessions(wire []wireSession) []attendance.Session {
	sessions := make([]attendance.Session, 0, len(wire))
	for _, s := range wire {
		checkIn, ok := validator.IsValidDateTime(s.CheckIn)
		if !ok {
			slog.Warn("Dropping session with invalid check-in", "check_in", s.CheckIn)
			continue
		}
		session := attendance.Session{
			CheckIn:  checkIn,
			WorkMode: s.WorkMode,
			Location: s.Location,
			Notes:    s.Notes,
			Approved: s.Approved,
		}
		if s.CheckOut != nil {
			if t, ok := validator.IsValidDateTime(*s.CheckOut); ok {
				session.CheckOut = &t
			}
		}
		sessions = append(sessions, session)
	}
	return sessions
}

// parseLooseDate accepts a date-only string or a full timestamp and
// reduces it to a local calendar date.
func parseLooseDate(raw string) (time.Time, bool) {
	if t, ok := validator.IsValidDate(raw); ok {
		return t, true
	}
	if t, ok := validator.IsValidDateTime(raw); ok {
		local := t.Local()
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local), true
	}
	return time.Time{}, false
}

func normalizeStatus(status string) string {
	if status == "" {
		return string(leave.RequestStatusPending)
	}
	return strings.ToUpper(status)
}

func firstNonEmpty(values ...string) string {
	if len(values) == 0 {
		return ""
	}
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
