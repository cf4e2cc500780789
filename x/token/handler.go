package token

import (
	"context"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/x"
)

// RegisterRoutes registers handlers for all ledger messages.
func RegisterRoutes(r tst.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(pathTransferMsg, &transferHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathApproveMsg, &approveHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathMintMsg, &mintHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathBurnMsg, &burnHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathBootstrapMsg, &bootstrapHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery registers the "token/view" query. The request is an
// encoded ViewRequest, the response an encoded ViewResult.
func RegisterQuery(qr tst.QueryRegistry, v Viewer) {
	qr.RegisterQuery("token/view", viewQuery{viewer: v})
}

// ViewRequest selects a ledger view and its arguments.
type ViewRequest struct {
	Ledger string
	View   string
	Args   []tst.Address
}

func (r *ViewRequest) Marshal() ([]byte, error) {
	return tst.MarshalBinary(r)
}

func (r *ViewRequest) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, r)
}

type viewQuery struct {
	viewer Viewer
}

func (q viewQuery) Query(ctx context.Context, db tst.ReadOnlyKVStore, data []byte) ([]byte, error) {
	var req ViewRequest
	if err := req.Unmarshal(data); err != nil {
		return nil, err
	}
	return q.viewer.View(db, req.Ledger, req.View, req.Args...)
}

// loadCaller loads the message and authenticates the caller. It is shared
// by the check and deliver phase of every ledger handler.
func loadCaller(ctx context.Context, auth x.Authenticator, tx tst.Tx, msg interface{}) (tst.Address, error) {
	if err := tst.LoadMsg(tx, msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return x.Caller(ctx, auth)
}

type transferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *transferHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	var msg TransferMsg
	if _, err := loadCaller(ctx, h.auth, tx, &msg); err != nil {
		return nil, err
	}
	return &tst.CheckResult{}, nil
}

func (h *transferHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg TransferMsg
	caller, err := loadCaller(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(db, msg.Ledger, caller, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &tst.DeliverResult{}, nil
}

type approveHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *approveHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	var msg ApproveMsg
	if _, err := loadCaller(ctx, h.auth, tx, &msg); err != nil {
		return nil, err
	}
	return &tst.CheckResult{}, nil
}

func (h *approveHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg ApproveMsg
	caller, err := loadCaller(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Approve(db, msg.Ledger, caller, msg.Spender, msg.Amount); err != nil {
		return nil, err
	}
	return &tst.DeliverResult{}, nil
}

type mintHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *mintHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	var msg MintMsg
	if _, err := loadCaller(ctx, h.auth, tx, &msg); err != nil {
		return nil, err
	}
	return &tst.CheckResult{}, nil
}

func (h *mintHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg MintMsg
	caller, err := loadCaller(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Mint(db, msg.Ledger, caller, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &tst.DeliverResult{}, nil
}

type burnHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *burnHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	var msg BurnMsg
	if _, err := loadCaller(ctx, h.auth, tx, &msg); err != nil {
		return nil, err
	}
	return &tst.CheckResult{}, nil
}

func (h *burnHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg BurnMsg
	caller, err := loadCaller(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Burn(db, msg.Ledger, caller, msg.Source, msg.Amount); err != nil {
		return nil, err
	}
	return &tst.DeliverResult{}, nil
}

type bootstrapHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *bootstrapHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	var msg BootstrapMsg
	if _, err := loadCaller(ctx, h.auth, tx, &msg); err != nil {
		return nil, err
	}
	return &tst.CheckResult{}, nil
}

func (h *bootstrapHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg BootstrapMsg
	caller, err := loadCaller(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Bootstrap(db, msg.Ledger, caller, msg.Parent); err != nil {
		return nil, err
	}
	tst.GetLogger(ctx).Info("ledger bootstrapped", "ledger", msg.Ledger, "parent", msg.Parent)
	return &tst.DeliverResult{}, nil
}
