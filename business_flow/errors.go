// Package businessflow contains the core business logic for competitor
// scanning and the pricing decision lifecycle
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Provider-related errors. All three are fatal to a scan: a scan that
	// cannot see the market must fail loudly, never report an empty success.
	ErrProviderUnavailable = errors.New("inventory provider unavailable")
	ErrProviderNoOperators = errors.New("inventory provider returned no operators")
	ErrProviderNoVessels   = errors.New("inventory provider returned no vessels")

	// Workflow errors
	ErrNotAuthorized            = errors.New("actor is not authorized for this action")
	ErrInvalidTransition        = errors.New("invalid decision status transition")
	ErrRejectionCommentRequired = errors.New("rejection requires a non-empty comment")
	ErrDecisionNotEditable      = errors.New("decision is not editable in its current status")
	ErrPriceInputRequired       = errors.New("either discount percent or final price must be provided")
	ErrPriceInputOutOfRange     = errors.New("price input is out of range")

	// Lookup errors
	ErrYachtNotFound    = errors.New("yacht not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrDecisionNotFound = errors.New("pricing decision not found")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

func IsProviderNoOperators(err error) bool {
	return errors.Is(err, ErrProviderNoOperators)
}

func IsProviderNoVessels(err error) bool {
	return errors.Is(err, ErrProviderNoVessels)
}

func IsNotAuthorized(err error) bool {
	return errors.Is(err, ErrNotAuthorized)
}

func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

func IsRejectionCommentRequired(err error) bool {
	return errors.Is(err, ErrRejectionCommentRequired)
}

func IsDecisionNotEditable(err error) bool {
	return errors.Is(err, ErrDecisionNotEditable)
}

func IsPriceInputRequired(err error) bool {
	return errors.Is(err, ErrPriceInputRequired)
}

func IsPriceInputOutOfRange(err error) bool {
	return errors.Is(err, ErrPriceInputOutOfRange)
}

func IsYachtNotFound(err error) bool {
	return errors.Is(err, ErrYachtNotFound)
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsDecisionNotFound(err error) bool {
	return errors.Is(err, ErrDecisionNotFound)
}
