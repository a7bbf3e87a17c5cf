package bookings

import "time"

// ModificationWindowHours is how close to the event start a booking can no
// longer be cancelled or rescheduled.
const ModificationWindowHours = 48

// CanModify reports whether a booking for an event starting at start may still
// be cancelled or rescheduled at now. Exactly 48 hours before start is still
// allowed; one minute later is not.
func CanModify(now, start time.Time) bool {
	return !start.Before(now.Add(ModificationWindowHours * time.Hour))
}

// IsActive reports whether a booking status counts toward the one active
// booking per user and event.
func IsActive(status string) bool {
	return status == StatusPending || status == StatusConfirmed
}
