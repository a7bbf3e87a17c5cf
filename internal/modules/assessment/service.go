package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCompleted    = errors.New("assessment already completed")
	ErrTerminal     = errors.New("assessment is in a terminal state")
	ErrNotCompleted = errors.New("assessment not completed")
)

// InterestRecorder captures outside-city interest when the wizard branches to
// its outside-city terminal state.
type InterestRecorder interface {
	RecordOutsideCityInterest(userID uuid.UUID, country, city string) error
}

type Service struct {
	db        *gorm.DB
	reg       *Registry
	interests InterestRecorder
	now       func() time.Time
}

func NewService(db *gorm.DB, reg *Registry, interests InterestRecorder) *Service {
	return &Service{db: db, reg: reg, interests: interests, now: time.Now}
}

// Progress loads saved wizard state. A missing row is a normal case, reported
// through Found=false rather than an error.
func (s *Service) Progress(userID uuid.UUID) (*ProgressResponse, error) {
	var p Progress
	err := s.db.Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ProgressResponse{Answers: Answers{}, CurrentStep: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return progressToResponse(&p), nil
}

// SaveProgress overwrites the full answer set (the auto-save path). Each call
// replaces what was there before, so repeated identical saves are idempotent
// and concurrent saves resolve to last-write-wins.
func (s *Service) SaveProgress(userID uuid.UUID, req *SaveProgressRequest) (*ProgressResponse, error) {
	p, err := s.loadOrInit(userID)
	if err != nil {
		return nil, err
	}
	if p.IsCompleted {
		return nil, ErrCompleted
	}

	raw, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}
	p.Answers = datatypes.JSON(raw)
	if req.CurrentStep >= 1 && req.CurrentStep <= s.reg.Last() {
		p.CurrentStep = req.CurrentStep
	}

	if err := s.db.Save(p).Error; err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return progressToResponse(p), nil
}

// Advance persists any fresh answers, validates the current step, and applies
// the Next transition including the two terminal interrupt branches.
func (s *Service) Advance(userID uuid.UUID, req *AdvanceRequest) (*ProgressResponse, error) {
	p, err := s.loadOrInit(userID)
	if err != nil {
		return nil, err
	}
	if p.IsCompleted {
		return nil, ErrCompleted
	}
	if p.Terminal != "" {
		return nil, ErrTerminal
	}

	answers, err := s.mergeAnswers(p, req.Answers)
	if err != nil {
		return nil, err
	}

	outcome, err := Advance(s.reg, answers, p.CurrentStep, s.now())
	if err != nil {
		// Validation failure: persist nothing beyond the merged answers,
		// surface the message, stay on the step.
		if saveErr := s.db.Save(p).Error; saveErr != nil {
			return nil, saveErr
		}
		return nil, err
	}

	if outcome.Terminal == TerminalOutsideCity && s.interests != nil {
		var user models.User
		country := ""
		if err := s.db.First(&user, "id = ?", userID).Error; err == nil {
			country = user.Country
		}
		if err := s.interests.RecordOutsideCityInterest(userID, country, answers.Str("specifiedCity")); err != nil {
			return nil, fmt.Errorf("failed to record outside-city interest: %w", err)
		}
	}

	p.CurrentStep = outcome.Step
	p.Terminal = outcome.Terminal
	if err := s.db.Save(p).Error; err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return progressToResponse(p), nil
}

// Back steps backwards without validation.
func (s *Service) Back(userID uuid.UUID) (*ProgressResponse, error) {
	p, err := s.loadOrInit(userID)
	if err != nil {
		return nil, err
	}
	if p.IsCompleted {
		return nil, ErrCompleted
	}
	if p.Terminal != "" {
		return nil, ErrTerminal
	}

	p.CurrentStep = Back(p.CurrentStep)
	if err := s.db.Save(p).Error; err != nil {
		return nil, err
	}
	return progressToResponse(p), nil
}

// ReturnToBirthday exits the underage terminal state back to the birthday
// question. The outside-city terminal has no return path.
func (s *Service) ReturnToBirthday(userID uuid.UUID) (*ProgressResponse, error) {
	p, err := s.loadOrInit(userID)
	if err != nil {
		return nil, err
	}
	if p.Terminal != TerminalUnderage {
		return nil, errors.New("not in the underage state")
	}

	p.Terminal = ""
	p.CurrentStep = StepBirthday
	if err := s.db.Save(p).Error; err != nil {
		return nil, err
	}
	return progressToResponse(p), nil
}

// Submit finalizes the assessment: every required step must validate, the
// completion flag latches, and the derived profile fields land on the user
// row in the same transaction.
func (s *Service) Submit(userID uuid.UUID, req *SaveProgressRequest) (*ProgressResponse, error) {
	p, err := s.loadOrInit(userID)
	if err != nil {
		return nil, err
	}
	if p.IsCompleted {
		return nil, ErrCompleted
	}

	answers, err := s.mergeAnswers(p, req.Answers)
	if err != nil {
		return nil, err
	}

	for step := 1; step <= FinalRequiredStep; step++ {
		if err := ValidateStep(s.reg, answers, step); err != nil {
			return nil, fmt.Errorf("step %d: %w", step, err)
		}
	}

	birthday, _ := answers.Date("birthday")
	if AgeAt(birthday, s.now()) < MinimumAge {
		return nil, errors.New("you must be at least 18 to join")
	}

	now := s.now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		p.IsCompleted = true
		p.Terminal = ""
		p.CompletedAt = &now
		if err := tx.Save(p).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"assessment_completed": true,
			"phone":                answers.Str("phone"),
			"city":                 ResolveCity(answers),
			"birthday":             birthday,
			"age":                  AgeAt(birthday, now),
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit assessment: %w", err)
	}
	return progressToResponse(p), nil
}

// UpdateAnswer is the single-field edit path used after completion.
func (s *Service) UpdateAnswer(userID uuid.UUID, key string, value interface{}) (*ProgressResponse, error) {
	var p Progress
	if err := s.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, ErrNotCompleted
	}
	if !p.IsCompleted {
		return nil, ErrNotCompleted
	}

	answers := decodeAnswers(p.Answers)
	answers[key] = value

	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}
	p.Answers = datatypes.JSON(raw)
	if err := s.db.Save(&p).Error; err != nil {
		return nil, err
	}
	return progressToResponse(&p), nil
}

// AnswersFor exposes a user's answers to other modules (pairing reads the
// personality scales).
func (s *Service) AnswersFor(userID uuid.UUID) (Answers, error) {
	var p Progress
	if err := s.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return decodeAnswers(p.Answers), nil
}

func (s *Service) loadOrInit(userID uuid.UUID) (*Progress, error) {
	var p Progress
	err := s.db.Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = Progress{
			ID:          uuid.New(),
			UserID:      userID,
			Answers:     datatypes.JSON([]byte("{}")),
			CurrentStep: 1,
		}
		if err := s.db.Create(&p).Error; err != nil {
			return nil, fmt.Errorf("failed to create progress: %w", err)
		}
		return &p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return &p, nil
}

// mergeAnswers overlays the request's answers onto the stored set and writes
// the result back to the progress row. Advance requests may carry only the
// current step's fields; earlier answers survive.
func (s *Service) mergeAnswers(p *Progress, incoming Answers) (Answers, error) {
	stored := decodeAnswers(p.Answers)
	if incoming == nil {
		return stored, nil
	}
	merged := stored.Merge(incoming)
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}
	p.Answers = datatypes.JSON(raw)
	return merged, nil
}

func decodeAnswers(raw datatypes.JSON) Answers {
	answers := Answers{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &answers)
	}
	return answers
}

func progressToResponse(p *Progress) *ProgressResponse {
	return &ProgressResponse{
		Answers:     decodeAnswers(p.Answers),
		CurrentStep: p.CurrentStep,
		Terminal:    p.Terminal,
		IsCompleted: p.IsCompleted,
		Found:       true,
	}
}
