package policy

// DefaultGraceMinutes is the lateness grace window applied when the shift
// policy does not carry its own.
const DefaultGraceMinutes = 15

// ShiftPolicy defines the expected start of a work day and the grace
// window within which arrival is not flagged late.
type ShiftPolicy struct {
	ID           int64
	Name         string
	StartTime    string // HH:MM:SS, local time
	GraceMinutes int
}

// WeeklyOffPolicy marks the weekdays with no work expectation.
type WeeklyOffPolicy struct {
	ID           int64
	Name         string
	SundayOff    bool
	MondayOff    bool
	TuesdayOff   bool
	WednesdayOff bool
	ThursdayOff  bool
	FridayOff    bool
	SaturdayOff  bool
}
