// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrInvalidInput         = errors.New("invalid input provided")
	ErrGroupNotFound        = errors.New("group not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrDuplicateMember      = errors.New("member with this email already exists")
	ErrWalletAddressMissing = errors.New("member wallet address not found")
	ErrTransportFailed      = errors.New("payment transport failed")
	ErrPersistence          = errors.New("persistence failure")
	// Add more specific errors as needed
)

// IsError reports whether err matches the given sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
