package token

import "github.com/iov-one/tst/errors"

var (
	// ErrInsufficientAllowance is returned when a transfer made on behalf
	// of the owner exceeds the approved amount.
	ErrInsufficientAllowance = errors.Register(300, "insufficient allowance")

	// ErrUnsafeAllowance is returned when a nonzero allowance is changed
	// to another nonzero value. It must be reset to zero first.
	ErrUnsafeAllowance = errors.Register(301, "unsafe allowance change")
)
