package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Country lists the cities the platform serves there. Inactive countries stay
// out of the public listing but keep their data.
type Country struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Code      string         `gorm:"size:2;not null" json:"code"`
	Cities    datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"cities"`
	Active    bool           `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Announcement struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Body        string         `gorm:"type:text" json:"body"`
	Published   bool           `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// OutsideCityInterest records a wizard signup from a city the platform does
// not serve yet, so expansion can follow demand.
type OutsideCityInterest struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Country   string    `gorm:"size:100" json:"country"`
	City      string    `gorm:"size:100;not null;index" json:"city"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Invitation statuses.
const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteDeclined = "declined"
)

// FriendInvitation invites someone to join an event the inviter booked.
// The token is the capability: whoever presents it may answer.
type FriendInvitation struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InviterID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"inviter_id"`
	EventID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"event_id"`
	FriendName  string     `gorm:"size:200" json:"friend_name"`
	FriendEmail string     `gorm:"size:255" json:"friend_email"`
	Token       string     `gorm:"size:64;not null;uniqueIndex" json:"token"`
	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// --- DTOs ---

type UpsertCountryRequest struct {
	Name   string   `json:"name"`
	Code   string   `json:"code"`
	Cities []string `json:"cities"`
	Active *bool    `json:"active"`
}

type UpsertAnnouncementRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published *bool  `json:"published"`
}

type CreateInvitationRequest struct {
	EventID     uuid.UUID `json:"event_id"`
	FriendName  string    `json:"friend_name"`
	FriendEmail string    `json:"friend_email"`
}
