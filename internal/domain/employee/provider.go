package employee

import "context"

// Provider is the upstream profile collaborator.
type Provider interface {
	GetMyProfile(ctx context.Context) (Profile, error)
}
