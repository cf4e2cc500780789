package cash

import (
	"context"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r tst.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
}

// RegisterQuery registers the "cash/balance" query. The request is the raw
// account address, the response an encoded Wallet.
func RegisterQuery(qr tst.QueryRegistry, control Controller) {
	qr.RegisterQuery("cash/balance", balanceQuery{control: control})
}

// SendHandler will handle sending value.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ tst.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg.
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed.
func (h SendHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &tst.CheckResult{}, nil
}

// Deliver moves the value from the caller to the destination if all
// preconditions are met.
func (h SendHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	caller, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, caller, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	tst.GetLogger(ctx).Info("value sent",
		"from", caller, "to", msg.Destination, "amount", msg.Amount)
	return &tst.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx context.Context, tx tst.Tx) (tst.Address, *SendMsg, error) {
	var msg SendMsg
	if err := tst.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return caller, &msg, nil
}

type balanceQuery struct {
	control Controller
}

func (q balanceQuery) Query(ctx context.Context, db tst.ReadOnlyKVStore, data []byte) ([]byte, error) {
	addr := tst.Address(data)
	balance, err := q.control.Balance(db, addr)
	if err != nil {
		return nil, err
	}
	w := Wallet{Balance: balance}
	return w.Marshal()
}
