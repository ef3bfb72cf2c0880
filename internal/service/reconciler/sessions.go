package reconciler

import (
	"strings"

	"github.com/cmlabs-hris/attendance-reconciler/internal/domain/attendance"
)

// sessionState is the explicit state of the punch scan: either no session
// is open or exactly one is. Keeping the tag explicit (instead of a bare
// nullable pointer) makes the double-open case visible in the code.
type sessionState int

const (
	noOpenSession sessionState = iota
	oneOpenSession
)

// MapPunchesToSessions folds a day's punches, in timestamp order, into
// in/out sessions.
//
// An "in" punch opens a session. A second "in" with no intervening "out"
// replaces the open session — the earlier one is discarded, never emitted.
// An "out" punch closes the open session and emits it; an orphan "out"
// with nothing open is ignored. A session still open when the punches run
// out is emitted with a nil check-out.
func MapPunchesToSessions(punches []attendance.Punch) []attendance.Session {
	sessions := make([]attendance.Session, 0, len(punches)/2+1)

	state := noOpenSession
	var open attendance.Session

	for _, p := range punches {
		switch p.Type {
		case attendance.PunchTypeIn:
			open = attendance.Session{
				CheckIn:  p.Time,
				WorkMode: normalizeWorkMode(p),
				Location: p.Location,
				Notes:    p.Notes,
				Approved: p.Approved,
			}
			state = oneOpenSession
		case attendance.PunchTypeOut:
			if state != oneOpenSession {
				continue
			}
			checkOut := p.Time
			open.CheckOut = &checkOut
			sessions = append(sessions, open)
			state = noOpenSession
		}
	}

	if state == oneOpenSession {
		sessions = append(sessions, open)
	}

	return sessions
}

// normalizeWorkMode forces Remote when the punch self-reports it or when
// its location/notes mention "remote"; otherwise the reported mode stands,
// defaulting to Office.
func normalizeWorkMode(p attendance.Punch) string {
	if p.WorkMode == attendance.WorkModeRemote {
		return attendance.WorkModeRemote
	}
	if p.Location != nil && strings.Contains(strings.ToLower(*p.Location), "remote") {
		return attendance.WorkModeRemote
	}
	if p.Notes != nil && strings.Contains(strings.ToLower(*p.Notes), "remote") {
		return attendance.WorkModeRemote
	}
	if p.WorkMode == "" {
		return attendance.WorkModeOffice
	}
	return p.WorkMode
}
