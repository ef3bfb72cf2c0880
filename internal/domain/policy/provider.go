package policy

import "context"

// Provider is the upstream policy collaborator. Policies are fetched as
// full lists and matched locally by id, mirroring the admin API shape.
type Provider interface {
	GetShiftPolicies(ctx context.Context) ([]ShiftPolicy, error)
	GetWeeklyOffPolicies(ctx context.Context) ([]WeeklyOffPolicy, error)
}
