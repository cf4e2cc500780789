package app

import (
	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

func init() {
	tst.Codec.RegisterConcrete(&pingMsg{}, "app/test/ping", nil)
}

// pingMsg is a message that the codec knows how to carry in a Tx.
type pingMsg struct {
	Note string
}

var _ tst.Msg = (*pingMsg)(nil)

func (m *pingMsg) Path() string { return "test/ping" }

func (m *pingMsg) Validate() error {
	if m.Note == "" {
		return errors.Wrap(errors.ErrEmpty, "note")
	}
	return nil
}

func (m *pingMsg) Marshal() ([]byte, error) { return tst.MarshalBinary(m) }

func (m *pingMsg) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, m) }

// initFunc adapts a function to the tst.Initializer interface.
type initFunc func(tst.Options, tst.KVStore) error

func (fn initFunc) FromGenesis(opts tst.Options, db tst.KVStore) error {
	return fn(opts, db)
}
