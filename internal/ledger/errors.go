package ledger

import "errors"

// Kind classifies ledger errors for transport mapping.
type Kind int

const (
	// KindUnknownToken means a swap leg names a token that is not registered.
	KindUnknownToken Kind = iota
	// KindBothStable means both swap legs are stablecoins.
	KindBothStable
	// KindBothVolatile means neither swap leg is a stablecoin.
	KindBothVolatile
	// KindConflict means the record collides with an existing one.
	KindConflict
)

// Error is a business rule violation. Infrastructure failures are returned
// as plain wrapped errors, never as *Error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// AsError returns the *Error inside err, or nil when err is not a business
// rule violation.
func AsError(err error) *Error {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr
	}
	return nil
}

// IsConflict reports whether err is a ledger conflict error.
func IsConflict(err error) bool {
	lerr := AsError(err)
	return lerr != nil && lerr.Kind == KindConflict
}
