package instrument

import (
	"context"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

// Names of the read only views.
const (
	ViewGuarantorRedeemableValue = "guarantorRedeemableValue"
	ViewGuaranteeRedeemableValue = "guaranteeRedeemableValue"
	ViewDepositorRedeemableValue = "depositorRedeemableValue"
	ViewDepositRedeemableValue   = "depositRedeemableValue"
)

// RegisterQuery registers "instrument/state" and "instrument/config",
// returning the encoded State and Configuration, and "instrument/view",
// answering a ViewRequest with a ViewResult.
func RegisterQuery(qr tst.QueryRegistry, k Keeper) {
	qr.RegisterQuery("instrument/state", stateQuery{k: k})
	qr.RegisterQuery("instrument/config", configQuery{k: k})
	qr.RegisterQuery("instrument/view", viewQuery{k: k})
}

// ViewRequest selects a view. Views about an account use Address, views
// about a number of tokens use Amount.
type ViewRequest struct {
	View    string
	Address tst.Address
	Amount  uint64
}

func (r *ViewRequest) Marshal() ([]byte, error) {
	return tst.MarshalBinary(r)
}

func (r *ViewRequest) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, r)
}

// ViewResult is the value in base units returned by a view.
type ViewResult struct {
	Value uint64
}

func (r *ViewResult) Marshal() ([]byte, error) {
	return tst.MarshalBinary(r)
}

func (r *ViewResult) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, r)
}

type stateQuery struct {
	k Keeper
}

func (q stateQuery) Query(ctx context.Context, db tst.ReadOnlyKVStore, data []byte) ([]byte, error) {
	s, err := q.k.State(db)
	if err != nil {
		return nil, err
	}
	return s.Marshal()
}

type configQuery struct {
	k Keeper
}

func (q configQuery) Query(ctx context.Context, db tst.ReadOnlyKVStore, data []byte) ([]byte, error) {
	c, err := q.k.Config(db)
	if err != nil {
		return nil, err
	}
	return c.Marshal()
}

type viewQuery struct {
	k Keeper
}

func (q viewQuery) Query(ctx context.Context, db tst.ReadOnlyKVStore, data []byte) ([]byte, error) {
	var req ViewRequest
	if err := req.Unmarshal(data); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	value, err := q.k.View(ctx, db, req)
	if err != nil {
		return nil, err
	}
	res := ViewResult{Value: value}
	return res.Marshal()
}

// View dispatches the request to the named view.
func (k Keeper) View(ctx context.Context, db tst.ReadOnlyKVStore, req ViewRequest) (uint64, error) {
	switch req.View {
	case ViewGuarantorRedeemableValue:
		if err := req.Address.Validate(); err != nil {
			return 0, errors.Wrap(err, "guarantor")
		}
		return k.GuarantorRedeemableValue(db, req.Address)
	case ViewGuaranteeRedeemableValue:
		return k.GuaranteeRedeemableValue(db, req.Amount)
	case ViewDepositorRedeemableValue:
		if err := req.Address.Validate(); err != nil {
			return 0, errors.Wrap(err, "depositor")
		}
		return k.DepositorRedeemableValue(ctx, db, req.Address)
	case ViewDepositRedeemableValue:
		return k.DepositRedeemableValue(ctx, db, req.Amount)
	}
	return 0, errors.Wrapf(errors.ErrNotFound, "view %q", req.View)
}
