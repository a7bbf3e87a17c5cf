package credits

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types. Positive amounts add credits, negative amounts spend them.
const (
	TypeEarned      = "earned"
	TypeUsed        = "used"
	TypeExpired     = "expired"
	TypeAdminGrant  = "admin_grant"
	TypeAdminRevoke = "admin_revoke"
)

// CreditTransaction is one append-only ledger entry. Rows are never mutated;
// BalanceAfter snapshots the running balance so readers never recompute it.
type CreditTransaction struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type         string     `gorm:"size:20;not null" json:"type"`
	Amount       int        `gorm:"not null" json:"amount"`
	BalanceAfter int        `gorm:"not null" json:"balance_after"`
	Note         string     `gorm:"size:300" json:"note"`
	BookingID    *uuid.UUID `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	ActorID      *uuid.UUID `gorm:"type:uuid" json:"actor_id,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

// --- DTOs ---

type LedgerResponse struct {
	Balance      int                 `json:"balance"`
	Transactions []CreditTransaction `json:"transactions"`
}

type AdminAdjustRequest struct {
	Amount int    `json:"amount"`
	Note   string `json:"note"`
}
