package payments

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses.
const (
	StatusInitiated = "initiated"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// Webhook event types the provider sends.
const (
	EventSucceeded = "payment.succeeded"
	EventFailed    = "payment.failed"
	EventRefunded  = "payment.refunded"
)

type Payment struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	BookingID   uuid.UUID `gorm:"type:uuid;not null;index" json:"booking_id"`
	Provider    string    `gorm:"size:50;not null;default:'card'" json:"provider"`
	ProviderRef string    `gorm:"size:100;uniqueIndex" json:"provider_ref"`
	AmountCents int       `gorm:"not null" json:"amount_cents"`
	Currency    string    `gorm:"size:3;not null" json:"currency"`
	Status      string    `gorm:"size:20;not null;default:'initiated';index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- DTOs ---

type InitiateRequest struct {
	BookingID uuid.UUID `json:"booking_id"`
	Provider  string    `json:"provider"`
}

type WebhookRequest struct {
	Type        string `json:"type"`
	ProviderRef string `json:"provider_ref"`
}
