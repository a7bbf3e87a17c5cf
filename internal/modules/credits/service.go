package credits

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientCredits = errors.New("insufficient credits")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Append writes one ledger entry in its own transaction.
func (s *Service) Append(userID uuid.UUID, txType string, amount int, note string, bookingID, actorID *uuid.UUID) (*CreditTransaction, error) {
	var entry *CreditTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.AppendTx(tx, userID, txType, amount, note, bookingID, actorID)
		return err
	})
	return entry, err
}

// AppendTx writes one ledger entry inside an existing transaction, locking
// the user row so concurrent appends serialize and the BalanceAfter chain
// stays consistent. The denormalized event_credits on the user row is the
// same value the ledger reports.
func (s *Service) AppendTx(tx *gorm.DB, userID uuid.UUID, txType string, amount int, note string, bookingID, actorID *uuid.UUID) (*CreditTransaction, error) {
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if err := ValidateEntry(txType, amount, user.EventCredits); err != nil {
		if user.EventCredits+amount < 0 {
			return nil, ErrInsufficientCredits
		}
		return nil, err
	}

	entry := CreditTransaction{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: user.EventCredits + amount,
		Note:         note,
		BookingID:    bookingID,
		ActorID:      actorID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	if err := tx.Model(&user).Update("event_credits", entry.BalanceAfter).Error; err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	return &entry, nil
}

// RedeemTx spends one credit against a booking.
func (s *Service) RedeemTx(tx *gorm.DB, userID, bookingID uuid.UUID) (*CreditTransaction, error) {
	return s.AppendTx(tx, userID, TypeUsed, -1, "Credit redeemed for booking", &bookingID, nil)
}

// RefundTx returns a credit after an eligible cancellation.
func (s *Service) RefundTx(tx *gorm.DB, userID, bookingID uuid.UUID) (*CreditTransaction, error) {
	return s.AppendTx(tx, userID, TypeEarned, 1, "Credit refunded on cancellation", &bookingID, nil)
}

// Ledger returns the balance and transactions newest-first, as displayed.
func (s *Service) Ledger(userID uuid.UUID) (*LedgerResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	var transactions []CreditTransaction
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return &LedgerResponse{
		Balance:      user.EventCredits,
		Transactions: transactions,
	}, nil
}
