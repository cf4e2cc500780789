package tst

import (
	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/tst/errors"
)

// Codec is the binary codec of every persisted model and every message.
// Extensions register their message types so that a transaction can carry
// any of them.
var Codec = amino.NewCodec()

func init() {
	Codec.RegisterInterface((*Msg)(nil), nil)
}

// MarshalBinary serializes given value with the shared codec.
func MarshalBinary(v interface{}) ([]byte, error) {
	raw, err := Codec.MarshalBinaryBare(v)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "marshal %T: %s", v, err)
	}
	return raw, nil
}

// UnmarshalBinary loads serialized data into given pointer.
func UnmarshalBinary(raw []byte, ptr interface{}) error {
	if err := Codec.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrapf(errors.ErrInput, "unmarshal %T: %s", ptr, err)
	}
	return nil
}
