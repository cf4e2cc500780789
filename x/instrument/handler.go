package instrument

import (
	"context"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/x"
)

// RegisterRoutes registers handlers for all instrument messages.
func RegisterRoutes(r tst.Registry, auth x.Authenticator, k Keeper) {
	r.Handle(pathDepositMsg, &depositHandler{auth: auth, k: k})
	r.Handle(pathRedeemMsg, &redeemHandler{auth: auth, k: k})
	r.Handle(pathTerminateMsg, &terminateHandler{auth: auth, k: k})
	r.Handle(pathDepositCollateralMsg, &depositCollateralHandler{auth: auth, k: k})
	r.Handle(pathWithdrawCollateralMsg, &withdrawCollateralHandler{auth: auth, k: k})
	r.Handle(pathProposeDelegateMsg, &proposeDelegateHandler{auth: auth, k: k})
	r.Handle(pathApplyProposalMsg, &applyProposalHandler{auth: auth, k: k})
	r.Handle(pathBootstrapMsg, &bootstrapHandler{auth: auth, k: k})
	r.Handle(pathReceiveRewardsMsg, &receiveRewardsHandler{auth: auth, k: k})
}

// Result is returned in the data of every delivered instrument message.
// Its meaning depends on the message: the minted claim, the payout, the
// issued or burned shares, or the governance outcome.
type Result struct {
	Value uint64
}

func (r *Result) Marshal() ([]byte, error) {
	return tst.MarshalBinary(r)
}

func (r *Result) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, r)
}

func deliverResult(value uint64, log string) (*tst.DeliverResult, error) {
	res := Result{Value: value}
	raw, err := res.Marshal()
	if err != nil {
		return nil, err
	}
	return &tst.DeliverResult{Data: raw, Log: log}, nil
}

// load loads the message and authenticates the caller.
func load(ctx context.Context, auth x.Authenticator, tx tst.Tx, msg interface{}) (tst.Address, error) {
	if err := tst.LoadMsg(tx, msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return x.Caller(ctx, auth)
}

func checkOnly(ctx context.Context, auth x.Authenticator, tx tst.Tx, msg interface{}) (*tst.CheckResult, error) {
	if _, err := load(ctx, auth, tx, msg); err != nil {
		return nil, err
	}
	return &tst.CheckResult{}, nil
}

type depositHandler struct {
	auth x.Authenticator
	k    Keeper
}

func (h *depositHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	return checkOnly(ctx, h.auth, tx, &DepositMsg{})
}

func (h *depositHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg DepositMsg
	caller, err := load(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	claim, err := h.k.Deposit(ctx, db, caller, msg.Amount)
	if err != nil {
		return nil, err
	}
	tst.GetLogger(ctx).Info("deposit", "depositor", caller, "value", msg.Amount, "claim", claim)
	return deliverResult(claim, "claim minted")
}

type redeemHandler struct {
	auth x.Authenticator
	k    Keeper
}

func (h *redeemHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	return checkOnly(ctx, h.auth, tx, &RedeemMsg{})
}

func (h *redeemHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg RedeemMsg
	caller, err := load(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	payout, err := h.k.Redeem(ctx, db, caller, msg.Amount)
	if err != nil {
		return nil, err
	}
	tst.GetLogger(ctx).Info("redeem", "depositor", caller, "claim", msg.Amount, "payout", payout)
	return deliverResult(payout, "claim redeemed")
}

type terminateHandler struct {
	auth x.Authenticator
	k    Keeper
}

func (h *terminateHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	return checkOnly(ctx, h.auth, tx, &TerminateMsg{})
}

func (h *terminateHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg TerminateMsg
	caller, err := load(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	paid, err := h.k.Terminate(ctx, db, caller, msg.Depositors)
	if err != nil {
		return nil, err
	}
	tst.GetLogger(ctx).Info("terminate", "guarantor", caller, "depositors", len(msg.Depositors), "payout", paid)
	return deliverResult(paid, "claims terminated")
}

type depositCollateralHandler struct {
	auth x.Authenticator
	k    Keeper
}

func (h *depositCollateralHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	return checkOnly(ctx, h.auth, tx, &DepositCollateralMsg{})
}

func (h *depositCollateralHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg DepositCollateralMsg
	caller, err := load(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	issued, err := h.k.DepositCollateral(db, caller, msg.Amount)
	if err != nil {
		return nil, err
	}
	tst.GetLogger(ctx).Info("collateral deposited", "guarantor", caller, "value", msg.Amount, "shares", issued)
	return deliverResult(issued, "shares issued")
}

type withdrawCollateralHandler struct {
	auth x.Authenticator
	k    Keeper
}

func (h *withdrawCollateralHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	return checkOnly(ctx, h.auth, tx, &WithdrawCollateralMsg{})
}

func (h *withdrawCollateralHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg WithdrawCollateralMsg
	caller, err := load(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	burned, err := h.k.WithdrawCollateral(db, caller, msg.Amount)
	if err != nil {
		return nil, err
	}
	tst.GetLogger(ctx).Info("collateral withdrawn", "guarantor", caller, "value", msg.Amount, "shares", burned)
	return deliverResult(burned, "shares burned")
}

type proposeDelegateHandler struct {
	auth x.Authenticator
	k    Keeper
}

func (h *proposeDelegateHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	return checkOnly(ctx, h.auth, tx, &ProposeDelegateMsg{})
}

func (h *proposeDelegateHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg ProposeDelegateMsg
	caller, err := load(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	outcome, err := h.k.ProposeDelegate(ctx, db, caller, msg.Validator)
	if err != nil {
		return nil, err
	}
	tst.GetLogger(ctx).Info("delegate proposed", "guarantor", caller, "validator", msg.Validator, "outcome", outcome)
	return deliverResult(uint64(outcome), outcome.String())
}

type applyProposalHandler struct {
	auth x.Authenticator
	k    Keeper
}

func (h *applyProposalHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	return checkOnly(ctx, h.auth, tx, &ApplyProposalMsg{})
}

func (h *applyProposalHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg ApplyProposalMsg
	caller, err := load(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	outcome, err := h.k.ApplyProposal(ctx, db, caller, msg.Yes)
	if err != nil {
		return nil, err
	}
	if outcome == Voted {
		tst.GetLogger(ctx).Debug("vote recorded", "guarantor", caller, "yes", msg.Yes)
	} else {
		tst.GetLogger(ctx).Info("proposal resolved", "outcome", outcome)
	}
	return deliverResult(uint64(outcome), outcome.String())
}

type bootstrapHandler struct {
	auth x.Authenticator
	k    Keeper
}

func (h *bootstrapHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	return checkOnly(ctx, h.auth, tx, &BootstrapMsg{})
}

func (h *bootstrapHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg BootstrapMsg
	caller, err := load(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	if err := h.k.Bootstrap(db, caller, msg.BalanceLedger, msg.ShareLedger); err != nil {
		return nil, err
	}
	tst.GetLogger(ctx).Info("instrument bootstrapped",
		"balance_ledger", msg.BalanceLedger, "share_ledger", msg.ShareLedger)
	return &tst.DeliverResult{}, nil
}

type receiveRewardsHandler struct {
	auth x.Authenticator
	k    Keeper
}

func (h *receiveRewardsHandler) Check(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.CheckResult, error) {
	return checkOnly(ctx, h.auth, tx, &ReceiveRewardsMsg{})
}

func (h *receiveRewardsHandler) Deliver(ctx context.Context, db tst.KVStore, tx tst.Tx) (*tst.DeliverResult, error) {
	var msg ReceiveRewardsMsg
	caller, err := load(ctx, h.auth, tx, &msg)
	if err != nil {
		return nil, err
	}
	if err := h.k.ReceiveRewards(db, caller, msg.Amount); err != nil {
		return nil, err
	}
	tst.GetLogger(ctx).Info("rewards received", "from", caller, "value", msg.Amount)
	return deliverResult(msg.Amount, "rewards received")
}
