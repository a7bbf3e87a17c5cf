package pairing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Constraint types the engine understands.
const (
	ConstraintNotWith           = "not_with"
	ConstraintMustWith          = "must_with"
	ConstraintKeepGroupTogether = "keep_group_together"
	ConstraintBalanceGender     = "balance_gender"
	ConstraintMaxGroupSize      = "max_group_size"
)

// Personality categories derived from assessment scale answers.
const (
	CategoryConnector = "connector"
	CategoryExplorer  = "explorer"
	CategoryAnchor    = "anchor"
	CategoryObserver  = "observer"
)

// PairingGuest is one person to seat at an event. Guests imported from
// bookings carry a user reference; walk-ins added by hand do not.
type PairingGuest struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"event_id"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name           string     `gorm:"size:200;not null" json:"name"`
	Gender         string     `gorm:"size:20" json:"gender"`
	Category       string     `gorm:"size:20" json:"category"`
	IntrovertScale int        `json:"introvert_scale"`
	OpennessScale  int        `json:"openness_scale"`
	DietaryNotes   string     `gorm:"size:300" json:"dietary_notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type PairingRestaurant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Address   string    `gorm:"size:300" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PairingTable struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID      uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Label        string    `gorm:"size:50" json:"label"`
	Capacity     int       `gorm:"not null" json:"capacity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PairingConstraint references a set of guest IDs. Value only matters for
// max_group_size.
type PairingConstraint struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"event_id"`
	Type      string         `gorm:"size:30;not null" json:"type"`
	GuestIDs  datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"guest_ids"`
	Value     int            `json:"value"`
	Note      string         `gorm:"size:300" json:"note"`
	CreatedAt time.Time      `json:"created_at"`
}

// PairingAssignment seats one guest. Manual assignments survive a full
// rebalance; locked ones survive everything.
type PairingAssignment struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID      uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	GuestID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"guest_id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null" json:"restaurant_id"`
	TableID      uuid.UUID `gorm:"type:uuid;not null;index" json:"table_id"`
	Seat         int       `json:"seat"`
	Manual       bool      `gorm:"default:false" json:"manual"`
	Locked       bool      `gorm:"default:false" json:"locked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PairingAudit is an append-only log. Locking an event writes a full snapshot
// of its pairing state here before anything else can change.
type PairingAudit struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"event_id"`
	Action    string         `gorm:"size:30;not null" json:"action"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	ActorID   *uuid.UUID     `gorm:"type:uuid" json:"actor_id,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

// --- DTOs ---

type UpsertGuestRequest struct {
	Name           string `json:"name"`
	Gender         string `json:"gender"`
	IntrovertScale int    `json:"introvert_scale"`
	OpennessScale  int    `json:"openness_scale"`
	DietaryNotes   string `json:"dietary_notes"`
}

type UpsertRestaurantRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type UpsertTableRequest struct {
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Label        string    `json:"label"`
	Capacity     int       `json:"capacity"`
}

type CreateConstraintRequest struct {
	Type     string      `json:"type"`
	GuestIDs []uuid.UUID `json:"guest_ids"`
	Value    int         `json:"value"`
	Note     string      `json:"note"`
}

type ManualAssignRequest struct {
	GuestID uuid.UUID `json:"guest_id"`
	TableID uuid.UUID `json:"table_id"`
	Seat    int       `json:"seat"`
}

type GenerateResponse struct {
	Assignments []PairingAssignment `json:"assignments"`
	Unplaced    []uuid.UUID         `json:"unplaced"`
}

type SuggestionResponse struct {
	GuestA uuid.UUID `json:"guest_a"`
	GuestB uuid.UUID `json:"guest_b"`
	Score  int       `json:"score"`
}

type DashboardResponse struct {
	Guests      int64 `json:"guests"`
	Categorized int64 `json:"categorized"`
	Restaurants int64 `json:"restaurants"`
	Tables      int64 `json:"tables"`
	Capacity    int   `json:"capacity"`
	Constraints int64 `json:"constraints"`
	Assigned    int64 `json:"assigned"`
	Locked      bool  `json:"locked"`
}
