package leave

import "errors"

// Leave domain errors
var (
	ErrOverlappingLeave = errors.New("a leave request already exists for at least one of these dates")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
)
