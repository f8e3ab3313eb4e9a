// Package money defines gold quantities and the signing rules for ledger
// transaction amounts.
package money

import "errors"

var (
	// ErrNegativeGold indicates a gold quantity below zero.
	ErrNegativeGold = errors.New("gold amount must not be negative")
	// ErrGoldUnderflow indicates a subtraction below zero.
	ErrGoldUnderflow = errors.New("gold amount underflow")
	// ErrZeroPayment indicates a payment transaction with a zero amount.
	ErrZeroPayment = errors.New("payment amount must be positive")
	// ErrReversalNotNegative indicates a reversal with a non-negative amount.
	ErrReversalNotNegative = errors.New("reversal amount must be negative")
)

// Gold is a non-negative quantity of gold pieces. Construct through NewGold
// so negative quantities never enter the domain.
type Gold int64

// NewGold validates and returns a gold quantity.
func NewGold(amount int64) (Gold, error) {
	if amount < 0 {
		return 0, ErrNegativeGold
	}
	return Gold(amount), nil
}

// Add returns the sum of two gold quantities.
func (g Gold) Add(other Gold) Gold {
	return g + other
}

// Sub returns the difference, failing on underflow.
func (g Gold) Sub(other Gold) (Gold, error) {
	if other > g {
		return 0, ErrGoldUnderflow
	}
	return g - other, nil
}

// MulMonths scales a monthly quantity over a number of months.
func (g Gold) MulMonths(months int) Gold {
	if months <= 0 {
		return 0
	}
	return g * Gold(months)
}

// Int64 returns the raw quantity for persistence.
func (g Gold) Int64() int64 {
	return int64(g)
}

// IsZero reports whether the quantity is empty.
func (g Gold) IsZero() bool {
	return g == 0
}

// TransactionKind classifies a ledger transaction for amount validation.
type TransactionKind int

const (
	// TransactionPayment moves gold between personas and must be positive.
	TransactionPayment TransactionKind = iota + 1
	// TransactionReversal undoes a prior movement and must be negative.
	TransactionReversal
	// TransactionAdjustment is an operator correction; any amount is legal.
	TransactionAdjustment
)

// TransactionAmount is the signed amount of one ledger transaction. It is
// the sole monetary field permitted to be negative or zero; the sign rules
// live here at the command layer, never on the entity.
type TransactionAmount int64

// IsReversal reports whether the amount reverses a prior movement.
func (a TransactionAmount) IsReversal() bool {
	return a < 0
}

// IsZero reports whether the amount moves no gold.
func (a TransactionAmount) IsZero() bool {
	return a == 0
}

// ValidateTransactionAmount checks an amount against its transaction kind.
func ValidateTransactionAmount(kind TransactionKind, amount TransactionAmount) error {
	switch kind {
	case TransactionPayment:
		if amount <= 0 {
			return ErrZeroPayment
		}
	case TransactionReversal:
		if amount >= 0 {
			return ErrReversalNotNegative
		}
	}
	return nil
}
