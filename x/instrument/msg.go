package instrument

import (
	"fmt"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

func init() {
	tst.Codec.RegisterConcrete(&DepositMsg{}, "instrument/DepositMsg", nil)
	tst.Codec.RegisterConcrete(&RedeemMsg{}, "instrument/RedeemMsg", nil)
	tst.Codec.RegisterConcrete(&TerminateMsg{}, "instrument/TerminateMsg", nil)
	tst.Codec.RegisterConcrete(&DepositCollateralMsg{}, "instrument/DepositCollateralMsg", nil)
	tst.Codec.RegisterConcrete(&WithdrawCollateralMsg{}, "instrument/WithdrawCollateralMsg", nil)
	tst.Codec.RegisterConcrete(&ProposeDelegateMsg{}, "instrument/ProposeDelegateMsg", nil)
	tst.Codec.RegisterConcrete(&ApplyProposalMsg{}, "instrument/ApplyProposalMsg", nil)
	tst.Codec.RegisterConcrete(&BootstrapMsg{}, "instrument/BootstrapMsg", nil)
	tst.Codec.RegisterConcrete(&ReceiveRewardsMsg{}, "instrument/ReceiveRewardsMsg", nil)
}

const (
	pathDepositMsg            = "instrument/deposit"
	pathRedeemMsg             = "instrument/redeem"
	pathTerminateMsg          = "instrument/terminate"
	pathDepositCollateralMsg  = "instrument/deposit_collateral"
	pathWithdrawCollateralMsg = "instrument/withdraw_collateral"
	pathProposeDelegateMsg    = "instrument/propose_delegate"
	pathApplyProposalMsg      = "instrument/apply_proposal"
	pathBootstrapMsg          = "instrument/bootstrap"
	pathReceiveRewardsMsg     = "instrument/receive_rewards"
)

// DepositMsg sends Amount of native value in exchange for a claim.
type DepositMsg struct {
	Amount uint64
}

var _ tst.Msg = (*DepositMsg)(nil)

func (*DepositMsg) Path() string { return pathDepositMsg }

// Validate accepts any amount. A zero deposit is rejected by the
// instrument as too low.
func (m *DepositMsg) Validate() error { return nil }

func (m *DepositMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *DepositMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// RedeemMsg releases Amount of the caller claim.
type RedeemMsg struct {
	Amount uint64
}

var _ tst.Msg = (*RedeemMsg)(nil)

func (*RedeemMsg) Path() string { return pathRedeemMsg }

func (m *RedeemMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

func (m *RedeemMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *RedeemMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

const maxTerminateDepositors = 256

// TerminateMsg redeems the claims of the listed depositors after maturity.
type TerminateMsg struct {
	Depositors []tst.Address
}

var _ tst.Msg = (*TerminateMsg)(nil)

func (*TerminateMsg) Path() string { return pathTerminateMsg }

func (m *TerminateMsg) Validate() error {
	if len(m.Depositors) == 0 {
		return errors.Field("Depositors", errors.ErrEmpty, "nothing to terminate")
	}
	if len(m.Depositors) > maxTerminateDepositors {
		return errors.Field("Depositors", errors.ErrInput, "at most %d depositors", maxTerminateDepositors)
	}
	var errs error
	for i, d := range m.Depositors {
		errs = errors.AppendField(errs, fmt.Sprintf("Depositors.%d", i), d.Validate())
	}
	return errs
}

func (m *TerminateMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *TerminateMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// DepositCollateralMsg sends Amount of native value to the collateral pool
// in exchange for shares.
type DepositCollateralMsg struct {
	Amount uint64
}

var _ tst.Msg = (*DepositCollateralMsg)(nil)

func (*DepositCollateralMsg) Path() string { return pathDepositCollateralMsg }

func (m *DepositCollateralMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

func (m *DepositCollateralMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *DepositCollateralMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// WithdrawCollateralMsg withdraws Amount of the free collateral.
type WithdrawCollateralMsg struct {
	Amount uint64
}

var _ tst.Msg = (*WithdrawCollateralMsg)(nil)

func (*WithdrawCollateralMsg) Path() string { return pathWithdrawCollateralMsg }

func (m *WithdrawCollateralMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

func (m *WithdrawCollateralMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *WithdrawCollateralMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// ProposeDelegateMsg proposes a new validator to delegate to.
type ProposeDelegateMsg struct {
	Validator tst.Address
}

var _ tst.Msg = (*ProposeDelegateMsg)(nil)

func (*ProposeDelegateMsg) Path() string { return pathProposeDelegateMsg }

func (m *ProposeDelegateMsg) Validate() error {
	return errors.AppendField(nil, "Validator", m.Validator.Validate())
}

func (m *ProposeDelegateMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *ProposeDelegateMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// ApplyProposalMsg votes on the open proposal, or closes it once the voting
// period is over.
type ApplyProposalMsg struct {
	Yes bool
}

var _ tst.Msg = (*ApplyProposalMsg)(nil)

func (*ApplyProposalMsg) Path() string { return pathApplyProposalMsg }

func (m *ApplyProposalMsg) Validate() error { return nil }

func (m *ApplyProposalMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *ApplyProposalMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// BootstrapMsg sets the ledgers of the instrument.
type BootstrapMsg struct {
	BalanceLedger string
	ShareLedger   string
}

var _ tst.Msg = (*BootstrapMsg)(nil)

func (*BootstrapMsg) Path() string { return pathBootstrapMsg }

func (m *BootstrapMsg) Validate() error {
	var errs error
	if m.BalanceLedger == "" {
		errs = errors.AppendField(errs, "BalanceLedger", errors.ErrEmpty)
	}
	if m.ShareLedger == "" {
		errs = errors.AppendField(errs, "ShareLedger", errors.ErrEmpty)
	}
	return errs
}

func (m *BootstrapMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *BootstrapMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// ReceiveRewardsMsg sends Amount of native value to the instrument as
// surplus for the guarantors.
type ReceiveRewardsMsg struct {
	Amount uint64
}

var _ tst.Msg = (*ReceiveRewardsMsg)(nil)

func (*ReceiveRewardsMsg) Path() string { return pathReceiveRewardsMsg }

func (m *ReceiveRewardsMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

func (m *ReceiveRewardsMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *ReceiveRewardsMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }
