package leave

import "context"

// Provider is the upstream leave collaborator.
type Provider interface {
	// GetMyLeaves returns every leave request of the calling employee for
	// the given year, any status.
	GetMyLeaves(ctx context.Context, year int) ([]Request, error)

	// ApplyLeave submits a new leave request upstream. Conflict checking
	// happens before this call; the upstream may still reject.
	ApplyLeave(ctx context.Context, req ApplyRequest, totalDays float64) error
}
