package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRevealThresholds(t *testing.T) {
	now := time.Date(2026, time.August, 28, 19, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		untilStart time.Duration
		want       Reveal
	}{
		{
			name:       "exactly 48h",
			untilStart: 48 * time.Hour,
			want:       Reveal{VenueVisible: true},
		},
		{
			name:       "48h plus one minute",
			untilStart: 48*time.Hour + time.Minute,
			want:       Reveal{},
		},
		{
			name:       "exactly 24h",
			untilStart: 24 * time.Hour,
			want:       Reveal{VenueVisible: true, SnapshotVisible: true},
		},
		{
			name:       "24h plus one minute",
			untilStart: 24*time.Hour + time.Minute,
			want:       Reveal{VenueVisible: true},
		},
		{
			name:       "event start",
			untilStart: 0,
			want:       Reveal{VenueVisible: true, SnapshotVisible: true, IcebreakersVisible: true},
		},
		{
			name:       "one minute before start",
			untilStart: time.Minute,
			want:       Reveal{VenueVisible: true, SnapshotVisible: true},
		},
		{
			name:       "event underway",
			untilStart: -30 * time.Minute,
			want:       Reveal{VenueVisible: true, SnapshotVisible: true, IcebreakersVisible: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RevealAt(now, now.Add(tc.untilStart), true, true, true)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRevealRequiresBooking(t *testing.T) {
	now := time.Date(2026, time.August, 28, 19, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)

	got := RevealAt(now, start, false, true, true)
	assert.Equal(t, Reveal{}, got)
}

func TestRevealRequiresContentToExist(t *testing.T) {
	now := time.Date(2026, time.August, 28, 19, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)

	got := RevealAt(now, start, true, false, false)
	assert.True(t, got.VenueVisible)
	assert.False(t, got.SnapshotVisible)
	assert.False(t, got.IcebreakersVisible)
}
