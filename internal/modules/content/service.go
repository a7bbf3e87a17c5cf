package content

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrNoBooking = errors.New("no active booking for this event")
	ErrAnswered  = errors.New("invitation already answered")
	ErrDuplicate = errors.New("already exists")
)

// BookingChecker reports whether a user holds an active booking for an event.
type BookingChecker interface {
	HasActiveBooking(userID, eventID uuid.UUID) (bool, error)
}

type Service struct {
	db       *gorm.DB
	bookings BookingChecker
	now      func() time.Time
}

func NewService(db *gorm.DB, bookings BookingChecker) *Service {
	return &Service{db: db, bookings: bookings, now: time.Now}
}

// --- outside-city interest ---

// RecordOutsideCityInterest stores one interest signal per user and city.
// The assessment wizard calls this when a signup names an unserved city.
func (s *Service) RecordOutsideCityInterest(userID uuid.UUID, country, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		city = "unspecified"
	}

	var existing int64
	if err := s.db.Model(&OutsideCityInterest{}).
		Where("user_id = ? AND LOWER(city) = LOWER(?)", userID, city).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	interest := OutsideCityInterest{
		ID:      uuid.New(),
		UserID:  userID,
		Country: country,
		City:    city,
	}
	if err := s.db.Create(&interest).Error; err != nil {
		return fmt.Errorf("failed to record interest: %w", err)
	}
	return nil
}

func (s *Service) ListInterests() ([]OutsideCityInterest, error) {
	var interests []OutsideCityInterest
	err := s.db.Order("created_at DESC").Find(&interests).Error
	return interests, err
}

// --- countries ---

func (s *Service) PublicCountries() ([]Country, error) {
	var countries []Country
	err := s.db.Where("active = true").Order("name ASC").Find(&countries).Error
	return countries, err
}

func (s *Service) AllCountries() ([]Country, error) {
	var countries []Country
	err := s.db.Order("name ASC").Find(&countries).Error
	return countries, err
}

func (s *Service) CreateCountry(req UpsertCountryRequest) (*Country, error) {
	cities, err := json.Marshal(req.Cities)
	if err != nil {
		return nil, err
	}
	country := Country{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(req.Name),
		Code:   strings.ToUpper(strings.TrimSpace(req.Code)),
		Cities: cities,
		Active: true,
	}
	if req.Active != nil {
		country.Active = *req.Active
	}
	if err := s.db.Create(&country).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create country: %w", err)
	}
	return &country, nil
}

func (s *Service) UpdateCountry(id uuid.UUID, req UpsertCountryRequest) (*Country, error) {
	var country Country
	if err := s.db.First(&country, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}
	if req.Name != "" {
		country.Name = strings.TrimSpace(req.Name)
	}
	if req.Code != "" {
		country.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	}
	if req.Cities != nil {
		cities, err := json.Marshal(req.Cities)
		if err != nil {
			return nil, err
		}
		country.Cities = cities
	}
	if req.Active != nil {
		country.Active = *req.Active
	}
	if err := s.db.Save(&country).Error; err != nil {
		return nil, fmt.Errorf("failed to update country: %w", err)
	}
	return &country, nil
}

func (s *Service) DeleteCountry(id uuid.UUID) error {
	res := s.db.Delete(&Country{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- announcements ---

func (s *Service) PublicFeed() ([]Announcement, error) {
	var announcements []Announcement
	err := s.db.Where("published = true").
		Order("published_at DESC").Find(&announcements).Error
	return announcements, err
}

func (s *Service) AllAnnouncements() ([]Announcement, error) {
	var announcements []Announcement
	err := s.db.Order("created_at DESC").Find(&announcements).Error
	return announcements, err
}

func (s *Service) CreateAnnouncement(req UpsertAnnouncementRequest) (*Announcement, error) {
	a := Announcement{
		ID:    uuid.New(),
		Title: strings.TrimSpace(req.Title),
		Body:  req.Body,
	}
	if req.Published != nil && *req.Published {
		now := s.now()
		a.Published = true
		a.PublishedAt = &now
	}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	return &a, nil
}

func (s *Service) UpdateAnnouncement(id uuid.UUID, req UpsertAnnouncementRequest) (*Announcement, error) {
	var a Announcement
	if err := s.db.First(&a, "id = ?", id).Error; err != nil {
		return nil, ErrNotFound
	}
	if req.Title != "" {
		a.Title = strings.TrimSpace(req.Title)
	}
	if req.Body != "" {
		a.Body = req.Body
	}
	if req.Published != nil {
		a.Published = *req.Published
		if a.Published && a.PublishedAt == nil {
			now := s.now()
			a.PublishedAt = &now
		}
	}
	if err := s.db.Save(&a).Error; err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}
	return &a, nil
}

func (s *Service) DeleteAnnouncement(id uuid.UUID) error {
	res := s.db.Delete(&Announcement{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- friend invitations ---

// CreateInvitation issues a token a friend can accept or decline. The inviter
// must hold an active booking on the event; nothing is emailed, the client
// shares the token link itself.
func (s *Service) CreateInvitation(inviterID uuid.UUID, req CreateInvitationRequest) (*FriendInvitation, error) {
	booked, err := s.bookings.HasActiveBooking(inviterID, req.EventID)
	if err != nil {
		return nil, err
	}
	if !booked {
		return nil, ErrNoBooking
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}
	invitation := FriendInvitation{
		ID:          uuid.New(),
		InviterID:   inviterID,
		EventID:     req.EventID,
		FriendName:  strings.TrimSpace(req.FriendName),
		FriendEmail: strings.TrimSpace(req.FriendEmail),
		Token:       token,
		Status:      InvitePending,
	}
	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return &invitation, nil
}

func (s *Service) ListInvitations(inviterID uuid.UUID) ([]FriendInvitation, error) {
	var invitations []FriendInvitation
	err := s.db.Where("inviter_id = ?", inviterID).
		Order("created_at DESC").Find(&invitations).Error
	return invitations, err
}

// RespondToInvitation settles a pending invitation by token. Answering twice
// is refused, even with the same answer.
func (s *Service) RespondToInvitation(token string, accept bool) (*FriendInvitation, error) {
	var invitation FriendInvitation
	if err := s.db.First(&invitation, "token = ?", token).Error; err != nil {
		return nil, ErrNotFound
	}
	if invitation.Status != InvitePending {
		return nil, ErrAnswered
	}

	now := s.now()
	invitation.Status = InviteDeclined
	if accept {
		invitation.Status = InviteAccepted
	}
	invitation.RespondedAt = &now
	if err := s.db.Save(&invitation).Error; err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	return &invitation, nil
}

func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
