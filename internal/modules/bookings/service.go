package bookings

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/modules/credits"
	"github.com/tablemates/tablemates-backend/internal/modules/events"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound      = errors.New("booking not found")
	ErrAlreadyBooked = errors.New("already booked")
	ErrEventFull     = errors.New("event is full")
	ErrNotBookable   = errors.New("event is not open for booking")
	ErrNotActive     = errors.New("booking is not active")
	ErrWindowClosed  = errors.New("modification window has closed")
)

type Service struct {
	db      *gorm.DB
	credits *credits.Service
	now     func() time.Time
}

func NewService(db *gorm.DB, creditSvc *credits.Service) *Service {
	return &Service{db: db, credits: creditSvc, now: time.Now}
}

// HasActiveBooking reports whether the user holds a pending or confirmed
// booking for the event. The events module uses this to gate reveals.
func (s *Service) HasActiveBooking(userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&Booking{}).
		Where("user_id = ? AND event_id = ? AND status IN ?",
			userID, eventID, []string{StatusPending, StatusConfirmed}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check booking: %w", err)
	}
	return count > 0, nil
}

// List returns the user's bookings newest-first with their events attached.
func (s *Service) List(userID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := s.db.Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Create books a spot on an event. The event row is locked so the capacity
// check and booked_count bump cannot race; the partial duplicate check runs
// under the same lock. A credit booking is confirmed immediately, a paid one
// stays pending until the payment webhook confirms it.
func (s *Service) Create(userID uuid.UUID, req CreateBookingRequest) (*Booking, error) {
	var booking *Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var event events.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", req.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !event.IsVisible || event.StartTime.Before(s.now()) {
			return ErrNotBookable
		}
		if event.BookedCount >= event.Capacity {
			return ErrEventFull
		}

		active, err := hasActiveTx(tx, userID, req.EventID)
		if err != nil {
			return err
		}
		if active {
			return ErrAlreadyBooked
		}

		booking = &Booking{
			ID:              uuid.New(),
			UserID:          userID,
			EventID:         req.EventID,
			Status:          StatusPending,
			BookedForFriend: req.BookedForFriend,
			FriendName:      req.FriendName,
			CreditUsed:      req.UseCredit,
		}
		if req.UseCredit {
			booking.Status = StatusConfirmed
		}
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if req.UseCredit {
			if _, err := s.credits.RedeemTx(tx, userID, booking.ID); err != nil {
				return err
			}
		}

		return tx.Model(&event).
			Update("booked_count", gorm.Expr("booked_count + 1")).Error
	})
	return booking, err
}

// Cancel cancels an active booking. The 48h rule is re-checked under the row
// lock so a request that slipped past the handler gate still fails at commit.
// A redeemed credit comes back when the cancellation is inside the rules.
func (s *Service) Cancel(userID, bookingID uuid.UUID) (*Booking, error) {
	var booking Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockOwnedBooking(tx, &booking, userID, bookingID); err != nil {
			return err
		}

		var event events.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", booking.EventID).Error; err != nil {
			return err
		}
		if !CanModify(s.now(), event.StartTime) {
			return ErrWindowClosed
		}

		now := s.now()
		booking.Status = StatusCancelled
		booking.CancelledAt = &now
		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		if booking.CreditUsed {
			if _, err := s.credits.RefundTx(tx, userID, booking.ID); err != nil {
				return err
			}
		}

		return tx.Model(&event).
			Update("booked_count", gorm.Expr("booked_count - 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Reschedule moves an active booking to another event in one transaction. The
// old booking is marked rescheduled, not cancelled, and its credit or payment
// carries over to the new one.
func (s *Service) Reschedule(userID, bookingID, newEventID uuid.UUID) (*Booking, error) {
	var replacement *Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var old Booking
		if err := lockOwnedBooking(tx, &old, userID, bookingID); err != nil {
			return err
		}

		var oldEvent events.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&oldEvent, "id = ?", old.EventID).Error; err != nil {
			return err
		}
		if !CanModify(s.now(), oldEvent.StartTime) {
			return ErrWindowClosed
		}

		var newEvent events.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&newEvent, "id = ?", newEventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !newEvent.IsVisible || newEvent.StartTime.Before(s.now()) {
			return ErrNotBookable
		}
		if newEvent.BookedCount >= newEvent.Capacity {
			return ErrEventFull
		}

		active, err := hasActiveTx(tx, userID, newEventID)
		if err != nil {
			return err
		}
		if active {
			return ErrAlreadyBooked
		}

		old.Status = StatusRescheduled
		if err := tx.Save(&old).Error; err != nil {
			return fmt.Errorf("failed to close old booking: %w", err)
		}

		replacement = &Booking{
			ID:              uuid.New(),
			UserID:          userID,
			EventID:         newEventID,
			Status:          StatusPending,
			BookedForFriend: old.BookedForFriend,
			FriendName:      old.FriendName,
			CreditUsed:      old.CreditUsed,
			PaymentID:       old.PaymentID,
		}
		if old.CreditUsed || old.PaymentID != nil {
			replacement.Status = StatusConfirmed
		}
		if err := tx.Create(replacement).Error; err != nil {
			return fmt.Errorf("failed to create replacement booking: %w", err)
		}

		if err := tx.Model(&oldEvent).
			Update("booked_count", gorm.Expr("booked_count - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&newEvent).
			Update("booked_count", gorm.Expr("booked_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return replacement, nil
}

// Confirm transitions a pending booking to confirmed once its payment
// succeeds. Called from the payments webhook inside its transaction.
func (s *Service) Confirm(tx *gorm.DB, bookingID, paymentID uuid.UUID) error {
	var booking Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if booking.Status != StatusPending {
		return ErrNotActive
	}
	return tx.Model(&booking).Updates(map[string]interface{}{
		"status":     StatusConfirmed,
		"payment_id": paymentID,
	}).Error
}

func lockOwnedBooking(tx *gorm.DB, booking *Booking, userID, bookingID uuid.UUID) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(booking, "id = ? AND user_id = ?", bookingID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !IsActive(booking.Status) {
		return ErrNotActive
	}
	return nil
}

func hasActiveTx(tx *gorm.DB, userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&Booking{}).
		Where("user_id = ? AND event_id = ? AND status IN ?",
			userID, eventID, []string{StatusPending, StatusConfirmed}).
		Count(&count).Error
	return count > 0, err
}
