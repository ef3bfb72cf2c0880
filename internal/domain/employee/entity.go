package employee

// Profile is the calling employee's own profile, the root of the reload
// chain: it carries the policy assignments everything else hangs off.
type Profile struct {
	ID                string
	Name              string
	Email             string
	ShiftPolicyID     *int64
	WeeklyOffPolicyID *int64
	AvatarURL         *string
}
