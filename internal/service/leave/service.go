package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/leave"
)

// Service guards leave submissions with the conservative collision policy:
// a proposed range is rejected if any of its calendar dates is covered by
// ANY existing request — pending, approved or rejected alike. Re-requesting
// an already-rejected date is disallowed by design.
type Service struct {
	leaves leave.Provider
}

func NewService(leaves leave.Provider) *Service {
	return &Service{leaves: leaves}
}

// Apply conflict-checks req and forwards it upstream when clear.
func (s *Service) Apply(ctx context.Context, req leave.ApplyRequest) (leave.ApplyResponse, error) {
	startDate, err := time.Parse(attendance.DateKeyLayout, req.StartDate)
	if err != nil {
		return leave.ApplyResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse(attendance.DateKeyLayout, req.EndDate)
	if err != nil {
		return leave.ApplyResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}
	if endDate.Before(startDate) {
		return leave.ApplyResponse{}, leave.ErrInvalidDateRange
	}

	existing := s.existingRequests(ctx, startDate, endDate)
	if hasDateConflict(startDate, endDate, existing) {
		return leave.ApplyResponse{}, leave.ErrOverlappingLeave
	}

	totalDays := float64(int(endDate.Sub(startDate).Hours()/24) + 1)
	if err := s.leaves.ApplyLeave(ctx, req, totalDays); err != nil {
		return leave.ApplyResponse{}, fmt.Errorf("failed to submit leave request: %w", err)
	}

	return leave.ApplyResponse{TotalDays: totalDays}, nil
}

// ListMyLeaves passes the year's requests through as response DTOs.
func (s *Service) ListMyLeaves(ctx context.Context, year int) ([]leave.RequestResponse, error) {
	requests, err := s.leaves.GetMyLeaves(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leave requests: %w", err)
	}

	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, leave.RequestResponse{
			ID:        req.ID,
			TypeLabel: req.TypeLabel,
			StartDate: req.StartDate.Format(attendance.DateKeyLayout),
			EndDate:   req.EndDate.Format(attendance.DateKeyLayout),
			Status:    string(req.Status),
			Reason:    req.Reason,
			TotalDays: req.TotalDays,
		})
	}

	return responses, nil
}

// existingRequests collects the caller's requests for every year the
// proposed range touches. A failed fetch degrades to "no known requests",
// matching the reconciler-wide degradation policy: the upstream performs
// its own overlap check as the backstop.
func (s *Service) existingRequests(ctx context.Context, startDate, endDate time.Time) []leave.Request {
	var existing []leave.Request
	for year := startDate.Year(); year <= endDate.Year(); year++ {
		requests, err := s.leaves.GetMyLeaves(ctx, year)
		if err != nil {
			slog.Warn("Leave fetch failed during conflict check", "year", year, "error", err)
			continue
		}
		existing = append(existing, requests...)
	}
	return existing
}

// hasDateConflict expands the proposed range and every existing range to
// their full calendar-date sets and reports any intersection, regardless
// of the existing request's status.
func hasDateConflict(startDate, endDate time.Time, existing []leave.Request) bool {
	proposed := make(map[string]bool)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		proposed[d.Format(attendance.DateKeyLayout)] = true
	}

	for _, req := range existing {
		for d := req.StartDate; !d.After(req.EndDate); d = d.AddDate(0, 0, 1) {
			if proposed[d.Format(attendance.DateKeyLayout)] {
				return true
			}
		}
	}

	return false
}
