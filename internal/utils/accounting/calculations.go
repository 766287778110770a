package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the absolute, currency-agnostic slack allowed between
// debit and credit totals.
var BalanceTolerance = decimal.New(1, -2)

// WithinTolerance reports whether |a - b| <= BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(BalanceTolerance)
}

// NaturalAmount applies the normal-balance convention of an account type:
// ASSET/EXPENSE -> debit - credit, LIABILITY/EQUITY/REVENUE -> credit - debit.
func NaturalAmount(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// ToTaggedAmount turns a debit/credit pair into a side and a positive amount.
// Exactly one of the two must be strictly positive and the other zero.
func ToTaggedAmount(debit, credit decimal.Decimal) (domain.Side, decimal.Decimal, error) {
	if debit.IsNegative() || credit.IsNegative() {
		return "", decimal.Zero, fmt.Errorf("%w: negative amounts are not allowed", apperrors.ErrInvalidLineAmount)
	}
	switch {
	case debit.IsPositive() && credit.IsZero():
		return domain.Debit, debit, nil
	case credit.IsPositive() && debit.IsZero():
		return domain.Credit, credit, nil
	case debit.IsZero() && credit.IsZero():
		return "", decimal.Zero, fmt.Errorf("%w: both debit and credit are zero", apperrors.ErrInvalidLineAmount)
	default:
		return "", decimal.Zero, fmt.Errorf("%w: both debit and credit are set", apperrors.ErrInvalidLineAmount)
	}
}

// Residue returns the line that makes debit and credit totals equal:
// the side to book it on and its positive amount. The amount is zero when
// the totals already match.
func Residue(debit, credit decimal.Decimal) (domain.Side, decimal.Decimal) {
	diff := debit.Sub(credit)
	switch {
	case diff.IsPositive():
		return domain.Credit, diff
	case diff.IsNegative():
		return domain.Debit, diff.Neg()
	default:
		return "", decimal.Zero
	}
}

// BaseAmount converts an original-currency amount to the base currency at rate.
func BaseAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}
