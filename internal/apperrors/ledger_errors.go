package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Ledger error taxonomy. All of these are caller-input errors and are never retried.
var (
	ErrUnbalancedEntry         = errors.New("journal entry is unbalanced")
	ErrInvalidEntryShape       = errors.New("journal entry must have at least two lines")
	ErrInvalidLineAmount       = errors.New("journal line must carry exactly one strictly positive side")
	ErrPeriodClosed            = errors.New("period is not open for postings")
	ErrInvalidPeriodTransition = errors.New("invalid period transition")
	ErrAlreadyApproved         = errors.New("journal entry already approved")
	ErrAccountTypeLocked       = errors.New("account type cannot change once lines have posted")
	ErrNoOpenPeriod            = fmt.Errorf("%w: no open period for entity", ErrNotFound)
)

// UnbalancedEntryError reports the offered totals of a rejected entry.
type UnbalancedEntryError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("%s: debits sum is %s and credits sum is %s", ErrUnbalancedEntry, e.Debit.String(), e.Credit.String())
}

func (e *UnbalancedEntryError) Unwrap() error { return ErrUnbalancedEntry }

// PeriodClosedError names the status that blocked the write.
type PeriodClosedError struct {
	PeriodID string
	Status   string
}

func (e *PeriodClosedError) Error() string {
	return fmt.Sprintf("%s: period %s is %s", ErrPeriodClosed, e.PeriodID, e.Status)
}

func (e *PeriodClosedError) Unwrap() error { return ErrPeriodClosed }

// InvalidPeriodTransitionError describes a rejected lifecycle jump.
type InvalidPeriodTransitionError struct {
	From string
	To   string
}

func (e *InvalidPeriodTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidPeriodTransition, e.From, e.To)
}

func (e *InvalidPeriodTransitionError) Unwrap() error { return ErrInvalidPeriodTransition }
