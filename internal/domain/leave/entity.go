package leave

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// Request is one leave request as reported by the HRIS API. StartDate and
// EndDate are inclusive local calendar dates.
type Request struct {
	ID        string
	TypeLabel string
	StartDate time.Time
	EndDate   time.Time
	Status    RequestStatus
	Reason    string
	TotalDays float64
}
