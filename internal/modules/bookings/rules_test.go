package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanModify(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"a week out", now.Add(7 * 24 * time.Hour), true},
		{"exactly 48 hours out", now.Add(48 * time.Hour), true},
		{"one minute inside the window", now.Add(48*time.Hour - time.Minute), false},
		{"same day", now.Add(3 * time.Hour), false},
		{"already started", now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(now, tt.start))
		})
	}
}

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive(StatusPending))
	assert.True(t, IsActive(StatusConfirmed))
	assert.False(t, IsActive(StatusCancelled))
	assert.False(t, IsActive(StatusRescheduled))
}
