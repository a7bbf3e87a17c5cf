package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleMember     = "member"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// User carries identity plus the profile fields derived from the assessment.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	Roles        datatypes.JSON `gorm:"type:jsonb;default:'[\"member\"]'" json:"roles"`
	AppleUserID  *string        `gorm:"size:255;index" json:"-"`
	AuthProvider string         `gorm:"size:50;default:'email'" json:"-"`

	FirstName           string     `gorm:"size:100" json:"first_name"`
	LastName            string     `gorm:"size:100" json:"last_name"`
	Phone               string     `gorm:"size:30" json:"phone"`
	Country             string     `gorm:"size:100" json:"country"`
	City                string     `gorm:"size:100" json:"city"`
	Birthday            *time.Time `json:"birthday,omitempty"`
	Age                 int        `json:"age"`
	AssessmentCompleted bool       `gorm:"default:false" json:"assessment_completed"`
	EventCredits        int        `gorm:"default:0" json:"event_credits"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RoleList decodes the JSON roles column. A broken column reads as member-only.
func (u *User) RoleList() []string {
	var roles []string
	if err := json.Unmarshal(u.Roles, &roles); err != nil || len(roles) == 0 {
		return []string{RoleMember}
	}
	return roles
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.RoleList() {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin) || u.HasRole(RoleSuperAdmin)
}

func RolesJSON(roles []string) datatypes.JSON {
	b, _ := json.Marshal(roles)
	return datatypes.JSON(b)
}
