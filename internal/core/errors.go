package core

import (
	"context"
	"errors"
	"fmt"
)

// ValidationError reports an operation rejected because of its input.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

// PreconditionError reports an operation that cannot run in the current state.
type PreconditionError struct {
	Msg string
}

func (e PreconditionError) Error() string {
	return e.Msg
}

// ExternalServiceError reports a failure of an outside collaborator such as the rate source.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s: timed out", e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the collaborator did not answer in time.
func (e *ExternalServiceError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

var ErrNotImplemented = errors.New("this feature has not been implemented yet")

var (
	ErrNoAccounts          = ValidationError{Msg: "a transaction needs a source or a target account"}
	ErrInsufficientBalance = ValidationError{Msg: "there isn't enough balance on this account for this transference"}
	ErrInvalidAmount       = ValidationError{Msg: "invalid amount"}
	ErrUnknownCurrency     = ValidationError{Msg: "unknown currency"}
	ErrInvalidRate         = ValidationError{Msg: "currency rate must be a positive number"}
	ErrSameAccount         = ValidationError{Msg: "source and target must be different accounts"}
	ErrEmptyName           = ValidationError{Msg: "empty name"}
)

var (
	ErrNeedAccount     = PreconditionError{Msg: "you need at least one account to make transactions"}
	ErrNeedCategory    = PreconditionError{Msg: "you need at least one category to make transactions"}
	ErrNeedTwoAccounts = PreconditionError{Msg: "you need at least two accounts to make movements"}
	ErrNoTransactions  = PreconditionError{Msg: "there are no transactions"}
	ErrNoCurrencies    = PreconditionError{Msg: "there are no currencies, update them from the web first"}
	ErrNoItems         = PreconditionError{Msg: "there are no items"}
)

// IsUserError reports whether err should be shown to the user and the current
// action abandoned, rather than treated as a failure of the program.
func IsUserError(err error) bool {
	var ve ValidationError
	var pe PreconditionError
	var ee *ExternalServiceError
	return errors.As(err, &ve) || errors.As(err, &pe) || errors.As(err, &ee) || errors.Is(err, ErrNotImplemented)
}
