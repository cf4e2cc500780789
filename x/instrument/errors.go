package instrument

import "github.com/iov-one/tst/errors"

var (
	ErrDepositTooLow              = errors.Register(400, "deposit too low")
	ErrInsufficientCollateral     = errors.Register(401, "insufficient collateral")
	ErrNotAGuarantor              = errors.Register(402, "not a guarantor")
	ErrInsufficientShare          = errors.Register(403, "insufficient share")
	ErrExceedsShare               = errors.Register(404, "exceeds share")
	ErrInsufficientFreeCollateral = errors.Register(405, "insufficient free collateral")
	ErrValidityPeriodNotComplete  = errors.Register(406, "validity period not complete")
	ErrProposalActive             = errors.Register(407, "proposal active")
	ErrNoProposal                 = errors.Register(408, "no proposal")
	// ErrInconsistentState is returned when the stored pool values
	// contradict the ledgers, for example shares exist but no collateral
	// was ever deposited.
	ErrInconsistentState = errors.Register(409, "inconsistent state")
	// ErrIncompatibleView is returned when a ledger answers a view with a
	// response that cannot be understood.
	ErrIncompatibleView = errors.Register(410, "incompatible view")
	ErrNotBootstrapped  = errors.Register(411, "not bootstrapped")
)
