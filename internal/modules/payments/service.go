package payments

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/modules/bookings"
	"github.com/tablemates/tablemates-backend/internal/modules/events"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound    = errors.New("payment not found")
	ErrNotPayable  = errors.New("booking is not awaiting payment")
	ErrBadEvent    = errors.New("unknown webhook event type")
	ErrWrongStatus = errors.New("payment is not in a state that allows this transition")
)

type Service struct {
	db       *gorm.DB
	bookings *bookings.Service
	currency string
}

func NewService(db *gorm.DB, bookingSvc *bookings.Service, currency string) *Service {
	return &Service{db: db, bookings: bookingSvc, currency: currency}
}

// Initiate opens a payment for the user's pending booking, priced from the
// event. The provider reference is what the webhook later calls back with.
func (s *Service) Initiate(userID uuid.UUID, req InitiateRequest) (*Payment, error) {
	var booking bookings.Booking
	err := s.db.First(&booking, "id = ? AND user_id = ?", req.BookingID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if booking.Status != bookings.StatusPending {
		return nil, ErrNotPayable
	}

	var event events.Event
	if err := s.db.First(&event, "id = ?", booking.EventID).Error; err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	var open int64
	if err := s.db.Model(&Payment{}).
		Where("booking_id = ? AND status IN ?", booking.ID,
			[]string{StatusInitiated, StatusSucceeded}).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, ErrNotPayable
	}

	provider := req.Provider
	if provider == "" {
		provider = "card"
	}
	currency := event.Currency
	if currency == "" {
		currency = s.currency
	}

	payment := Payment{
		ID:          uuid.New(),
		UserID:      userID,
		BookingID:   booking.ID,
		Provider:    provider,
		ProviderRef: uuid.NewString(),
		AmountCents: event.PriceCents,
		Currency:    currency,
		Status:      StatusInitiated,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return &payment, nil
}

// List returns the user's payments newest-first.
func (s *Service) List(userID uuid.UUID) ([]Payment, error) {
	var payments []Payment
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&payments).Error
	return payments, err
}

// HandleEvent applies a provider webhook event. Replays of an event the
// payment has already absorbed are acknowledged without change, so the
// provider can retry safely.
func (s *Service) HandleEvent(eventType, providerRef string) (*Payment, error) {
	var payment Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payment, "provider_ref = ?", providerRef).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		switch eventType {
		case EventSucceeded:
			if payment.Status == StatusSucceeded {
				return nil
			}
			if payment.Status != StatusInitiated {
				return ErrWrongStatus
			}
			if err := tx.Model(&payment).Update("status", StatusSucceeded).Error; err != nil {
				return err
			}
			payment.Status = StatusSucceeded
			err := s.bookings.Confirm(tx, payment.BookingID, payment.ID)
			if errors.Is(err, bookings.ErrNotActive) {
				// booking already confirmed or gone; keep the payment
				return nil
			}
			return err

		case EventFailed:
			if payment.Status == StatusFailed {
				return nil
			}
			if payment.Status != StatusInitiated {
				return ErrWrongStatus
			}
			payment.Status = StatusFailed
			return tx.Model(&payment).Update("status", StatusFailed).Error

		case EventRefunded:
			if payment.Status == StatusRefunded {
				return nil
			}
			if payment.Status != StatusSucceeded {
				return ErrWrongStatus
			}
			payment.Status = StatusRefunded
			return tx.Model(&payment).Update("status", StatusRefunded).Error

		default:
			return ErrBadEvent
		}
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
