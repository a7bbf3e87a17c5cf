package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/modules/events"
)

// Booking statuses. A booking counts as active unless it is cancelled or
// rescheduled away.
const (
	StatusPending     = "pending"
	StatusConfirmed   = "confirmed"
	StatusCancelled   = "cancelled"
	StatusRescheduled = "rescheduled"
)

type Booking struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_bookings_user_event" json:"user_id"`
	EventID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_bookings_user_event" json:"event_id"`
	Status          string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	BookedForFriend bool       `gorm:"default:false" json:"booked_for_friend"`
	FriendName      string     `gorm:"size:200" json:"friend_name,omitempty"`
	CreditUsed      bool       `gorm:"default:false" json:"credit_used"`
	PaymentID       *uuid.UUID `gorm:"type:uuid" json:"payment_id,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`

	Event     *events.Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// --- DTOs ---

type CreateBookingRequest struct {
	EventID         uuid.UUID `json:"event_id"`
	BookedForFriend bool      `json:"booked_for_friend"`
	FriendName      string    `json:"friend_name"`
	UseCredit       bool      `json:"use_credit"`
}

type RescheduleRequest struct {
	NewEventID uuid.UUID `json:"new_event_id"`
}
