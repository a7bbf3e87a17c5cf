package credits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name    string
		txType  string
		amount  int
		balance int
		wantErr bool
	}{
		{"earn one", TypeEarned, 1, 0, false},
		{"admin grant several", TypeAdminGrant, 5, 2, false},
		{"use one with balance", TypeUsed, -1, 1, false},
		{"expire all", TypeExpired, -3, 3, false},
		{"revoke within balance", TypeAdminRevoke, -2, 4, false},

		{"zero amount", TypeEarned, 0, 5, true},
		{"earn with negative amount", TypeEarned, -1, 5, true},
		{"use with positive amount", TypeUsed, 1, 5, true},
		{"overspend", TypeUsed, -2, 1, true},
		{"revoke below zero", TypeAdminRevoke, -5, 3, true},
		{"unknown type", "bonus", 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntry(tt.txType, tt.amount, tt.balance)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	ok := []CreditTransaction{
		{Type: TypeEarned, Amount: 2, BalanceAfter: 2},
		{Type: TypeUsed, Amount: -1, BalanceAfter: 1},
		{Type: TypeAdminGrant, Amount: 3, BalanceAfter: 4},
		{Type: TypeExpired, Amount: -4, BalanceAfter: 0},
	}
	require.NoError(t, Reconcile(ok))
}

func TestReconcileEmpty(t *testing.T) {
	require.NoError(t, Reconcile(nil))
}

func TestReconcileBrokenChain(t *testing.T) {
	broken := []CreditTransaction{
		{Type: TypeEarned, Amount: 2, BalanceAfter: 2},
		{Type: TypeUsed, Amount: -1, BalanceAfter: 2},
	}
	err := Reconcile(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 1")
}
