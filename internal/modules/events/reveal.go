package events

import "time"

// Countdown thresholds, in hours before the event start, at which each detail
// becomes visible to booked guests. Boundaries are inclusive: at exactly 48h
// the venue is already visible.
const (
	VenueRevealHours      = 48
	SnapshotRevealHours   = 24
	IcebreakerRevealHours = 0
)

type Reveal struct {
	VenueVisible       bool
	SnapshotVisible    bool
	IcebreakersVisible bool
}

// RevealAt gates the three time-dependent reveals. Every reveal requires an
// active booking; snapshot and icebreakers additionally require the content
// to exist.
func RevealAt(now, start time.Time, booked, hasSnapshot, hasIcebreakers bool) Reveal {
	hoursUntil := start.Sub(now).Hours()
	return Reveal{
		VenueVisible:       booked && hoursUntil <= VenueRevealHours,
		SnapshotVisible:    booked && hasSnapshot && hoursUntil <= SnapshotRevealHours,
		IcebreakersVisible: booked && hasIcebreakers && hoursUntil <= IcebreakerRevealHours,
	}
}
