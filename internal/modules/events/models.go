package events

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	EventType   string     `gorm:"size:50;default:'dinner'" json:"event_type"`
	StartTime   time.Time  `gorm:"not null;index" json:"start_time"`
	PriceCents  int        `gorm:"not null;default:0" json:"price_cents"`
	Currency    string     `gorm:"size:3;default:'EUR'" json:"currency"`
	Capacity    int        `gorm:"not null" json:"capacity"`
	BookedCount int        `gorm:"not null;default:0" json:"booked_count"`
	Country     string     `gorm:"size:100;index" json:"country"`
	City        string     `gorm:"size:100;index" json:"city"`
	VenueID     *uuid.UUID `gorm:"type:uuid;index" json:"venue_id,omitempty"`
	IsVisible   bool       `gorm:"default:false;index" json:"is_visible"`

	// SnapshotText is the short attendee snapshot revealed 24h before start.
	SnapshotText string `gorm:"type:text" json:"-"`

	Venue     *Venue         `gorm:"foreignKey:VenueID" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Venue struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"size:200;not null" json:"name"`
	Address   string         `gorm:"size:300" json:"address"`
	City      string         `gorm:"size:100;index" json:"city"`
	Country   string         `gorm:"size:100" json:"country"`
	MapURL    string         `gorm:"type:text" json:"map_url"`
	Notes     string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Icebreaker is one conversation-starter question shown once the dinner begins.
type Icebreaker struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// --- DTOs ---

type EventResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventType   string    `json:"event_type"`
	StartTime   time.Time `json:"start_time"`
	PriceCents  int       `json:"price_cents"`
	Currency    string    `json:"currency"`
	Capacity    int       `json:"capacity"`
	BookedCount int       `json:"booked_count"`
	Country     string    `json:"country"`
	City        string    `json:"city"`
	IsVisible   bool      `json:"is_visible"`
}

// EventDetailResponse adds the time-gated reveals. Venue and snapshot are nil
// until their countdown windows open.
type EventDetailResponse struct {
	EventResponse
	Booked             bool          `json:"booked"`
	HoursUntilStart    float64       `json:"hours_until_start"`
	VenueVisible       bool          `json:"venue_visible"`
	SnapshotVisible    bool          `json:"snapshot_visible"`
	IcebreakersVisible bool          `json:"icebreakers_visible"`
	Venue              *Venue        `json:"venue,omitempty"`
	SnapshotText       *string       `json:"snapshot_text,omitempty"`
	Icebreakers        []Icebreaker  `json:"icebreakers,omitempty"`
}

type UpsertEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	EventType   string     `json:"event_type"`
	StartTime   time.Time  `json:"start_time"`
	PriceCents  int        `json:"price_cents"`
	Currency    string     `json:"currency"`
	Capacity    int        `json:"capacity"`
	Country     string     `json:"country"`
	City        string     `json:"city"`
	VenueID     *uuid.UUID `json:"venue_id"`
	IsVisible   *bool      `json:"is_visible"`
}

type UpsertVenueRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	MapURL  string `json:"map_url"`
	Notes   string `json:"notes"`
}

type SnapshotRequest struct {
	Text string `json:"text"`
}

type IcebreakerRequest struct {
	Question string `json:"question"`
	Position int    `json:"position"`
}
