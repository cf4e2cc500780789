package app

import (
	"context"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/x"
)

// Tx is the transaction format accepted by the Application. The host
// environment is responsible for establishing the caller identity; the
// engine trusts the declared caller.
type Tx struct {
	Msg    tst.Msg
	Caller tst.Condition
}

var _ tst.Tx = (*Tx)(nil)

// GetMsg returns the carried message.
func (tx *Tx) GetMsg() (tst.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return tx.Msg, nil
}

// GetCaller returns the condition of the account that made the call.
func (tx *Tx) GetCaller() tst.Condition {
	return tx.Caller
}

func (tx *Tx) Marshal() ([]byte, error) {
	return tst.MarshalBinary(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, tx)
}

// DecodeTx parses the binary representation of a Tx. Only messages
// registered with tst.Codec can be decoded.
func DecodeTx(raw []byte) (tst.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

// CallerTx is implemented by transactions that declare their caller.
type CallerTx interface {
	tst.Tx
	GetCaller() tst.Condition
}

type callerCtxKey struct{}

// CallerDecorator moves the caller declared by the transaction into the
// context, where the CallerAuth can find it.
type CallerDecorator struct{}

var _ tst.Decorator = CallerDecorator{}

// NewCallerDecorator returns a decorator that authenticates the caller.
func NewCallerDecorator() CallerDecorator {
	return CallerDecorator{}
}

func (CallerDecorator) Check(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Checker) (*tst.CheckResult, error) {
	ctx, err := withCaller(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (CallerDecorator) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx, next tst.Deliverer) (*tst.DeliverResult, error) {
	ctx, err := withCaller(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func withCaller(ctx context.Context, tx tst.Tx) (context.Context, error) {
	callerTx, ok := tx.(CallerTx)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%T does not declare a caller", tx)
	}
	caller := callerTx.GetCaller()
	if err := caller.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid caller")
	}
	return context.WithValue(ctx, callerCtxKey{}, caller), nil
}

// CallerAuth authenticates the caller set by the CallerDecorator.
type CallerAuth struct{}

var _ x.Authenticator = CallerAuth{}

func (CallerAuth) GetConditions(ctx context.Context) []tst.Condition {
	c, _ := ctx.Value(callerCtxKey{}).(tst.Condition)
	if c == nil {
		return nil
	}
	return []tst.Condition{c}
}

func (a CallerAuth) HasAddress(ctx context.Context, addr tst.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
