package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Progress stores a user's saved wizard state. Saves are full-state
// overwrites; once IsCompleted latches, the overwrite path is refused and
// edits go through the single-field update path.
type Progress struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Answers     datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"answers"`
	CurrentStep int            `gorm:"default:1" json:"current_step"`
	Terminal    string         `gorm:"size:30;default:''" json:"terminal"`
	IsCompleted bool           `gorm:"default:false" json:"is_completed"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// --- DTOs ---

type SaveProgressRequest struct {
	Answers     Answers `json:"answers"`
	CurrentStep int     `json:"current_step"`
}

type AdvanceRequest struct {
	// Optional fresh answers persisted before the transition runs.
	Answers Answers `json:"answers"`
}

type UpdateAnswerRequest struct {
	Value interface{} `json:"value"`
}

type ProgressResponse struct {
	Answers     Answers `json:"answers"`
	CurrentStep int     `json:"current_step"`
	Terminal    string  `json:"terminal"`
	IsCompleted bool    `json:"is_completed"`
	Found       bool    `json:"found"`
}
