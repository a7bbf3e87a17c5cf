package credits

import "fmt"

// signFor returns the required sign of Amount for each transaction type.
func signFor(txType string) (int, error) {
	switch txType {
	case TypeEarned, TypeAdminGrant:
		return 1, nil
	case TypeUsed, TypeExpired, TypeAdminRevoke:
		return -1, nil
	default:
		return 0, fmt.Errorf("unknown transaction type %q", txType)
	}
}

// ValidateEntry checks a prospective ledger entry against the current balance:
// the amount must be non-zero, carry the sign its type requires, and must not
// drive the balance negative.
func ValidateEntry(txType string, amount, balance int) error {
	sign, err := signFor(txType)
	if err != nil {
		return err
	}
	if amount == 0 {
		return fmt.Errorf("amount must be non-zero")
	}
	if sign > 0 && amount < 0 || sign < 0 && amount > 0 {
		return fmt.Errorf("%s transactions require a %s amount", txType, signWord(sign))
	}
	if balance+amount < 0 {
		return fmt.Errorf("insufficient credits: balance %d, amount %d", balance, amount)
	}
	return nil
}

// Reconcile verifies the ledger chain invariant over transactions ordered
// oldest to newest: each BalanceAfter equals the previous one plus Amount.
func Reconcile(transactions []CreditTransaction) error {
	balance := 0
	for i, tx := range transactions {
		if tx.BalanceAfter != balance+tx.Amount {
			return fmt.Errorf("ledger broken at entry %d: balance %d + amount %d != %d",
				i, balance, tx.Amount, tx.BalanceAfter)
		}
		balance = tx.BalanceAfter
	}
	return nil
}

func signWord(sign int) string {
	if sign > 0 {
		return "positive"
	}
	return "negative"
}
