package cash

import (
	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

func init() {
	tst.Codec.RegisterConcrete(&SendMsg{}, "cash/SendMsg", nil)
}

const pathSendMsg = "cash/send"

const maxMemoSize = 128

// SendMsg moves native value from the caller to the destination.
type SendMsg struct {
	Destination tst.Address
	Amount      uint64
	Memo        string
}

var _ tst.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message.
func (*SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible.
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.Wrap(errors.ErrInput, "memo too long"))
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return tst.MarshalBinary(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, m)
}
