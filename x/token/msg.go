package token

import (
	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

func init() {
	tst.Codec.RegisterConcrete(&TransferMsg{}, "token/TransferMsg", nil)
	tst.Codec.RegisterConcrete(&ApproveMsg{}, "token/ApproveMsg", nil)
	tst.Codec.RegisterConcrete(&MintMsg{}, "token/MintMsg", nil)
	tst.Codec.RegisterConcrete(&BurnMsg{}, "token/BurnMsg", nil)
	tst.Codec.RegisterConcrete(&BootstrapMsg{}, "token/BootstrapMsg", nil)
}

const (
	pathTransferMsg  = "token/transfer"
	pathApproveMsg   = "token/approve"
	pathMintMsg      = "token/mint"
	pathBurnMsg      = "token/burn"
	pathBootstrapMsg = "token/bootstrap"
)

func validateLedgerName(name string) error {
	if !isLedgerName(name) {
		return errors.Wrapf(errors.ErrInput, "invalid ledger name %q", name)
	}
	return nil
}

// TransferMsg moves tokens from the source to the destination. The caller
// must be the source or hold a sufficient allowance.
type TransferMsg struct {
	Ledger      string
	Source      tst.Address
	Destination tst.Address
	Amount      uint64
}

var _ tst.Msg = (*TransferMsg)(nil)

func (*TransferMsg) Path() string { return pathTransferMsg }

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Ledger", validateLedgerName(m.Ledger))
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}

func (m *TransferMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *TransferMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// ApproveMsg sets the amount the spender can transfer on behalf of the
// caller.
type ApproveMsg struct {
	Ledger  string
	Spender tst.Address
	Amount  uint64
}

var _ tst.Msg = (*ApproveMsg)(nil)

func (*ApproveMsg) Path() string { return pathApproveMsg }

func (m *ApproveMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Ledger", validateLedgerName(m.Ledger))
	errs = errors.AppendField(errs, "Spender", m.Spender.Validate())
	return errs
}

func (m *ApproveMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *ApproveMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// MintMsg creates new tokens. Only the parent of the ledger can mint.
type MintMsg struct {
	Ledger      string
	Destination tst.Address
	Amount      uint64
}

var _ tst.Msg = (*MintMsg)(nil)

func (*MintMsg) Path() string { return pathMintMsg }

func (m *MintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Ledger", validateLedgerName(m.Ledger))
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}

func (m *MintMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *MintMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// BurnMsg destroys tokens. Only the parent of the ledger can burn.
type BurnMsg struct {
	Ledger string
	Source tst.Address
	Amount uint64
}

var _ tst.Msg = (*BurnMsg)(nil)

func (*BurnMsg) Path() string { return pathBurnMsg }

func (m *BurnMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Ledger", validateLedgerName(m.Ledger))
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	return errs
}

func (m *BurnMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *BurnMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// BootstrapMsg sets the parent of the ledger.
type BootstrapMsg struct {
	Ledger string
	Parent tst.Address
}

var _ tst.Msg = (*BootstrapMsg)(nil)

func (*BootstrapMsg) Path() string { return pathBootstrapMsg }

func (m *BootstrapMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Ledger", validateLedgerName(m.Ledger))
	errs = errors.AppendField(errs, "Parent", m.Parent.Validate())
	return errs
}

func (m *BootstrapMsg) Marshal() ([]byte, error)   { return tst.MarshalBinary(m) }
func (m *BootstrapMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }
