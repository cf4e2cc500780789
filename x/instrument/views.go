package instrument

import (
	"context"

	"github.com/iov-one/tst"
)

// GuarantorRedeemableValue returns the part of the free collateral owned by
// the shares of given guarantor.
func (k Keeper) GuarantorRedeemableValue(db tst.ReadOnlyKVStore, guarantor tst.Address) (uint64, error) {
	in, err := k.load(db)
	if err != nil {
		return 0, err
	}
	held, err := in.share.Balance(db, guarantor)
	if err != nil {
		return 0, err
	}
	return in.shareValue(db, held)
}

// GuaranteeRedeemableValue returns the part of the free collateral owned by
// given number of shares.
func (k Keeper) GuaranteeRedeemableValue(db tst.ReadOnlyKVStore, shares uint64) (uint64, error) {
	in, err := k.load(db)
	if err != nil {
		return 0, err
	}
	return in.shareValue(db, shares)
}

func (in *instance) shareValue(db tst.ReadOnlyKVStore, shares uint64) (uint64, error) {
	total, err := in.share.TotalSupply(db)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return mulDiv(in.state.FreeCollateral, shares, total)
}

// DepositorRedeemableValue returns the payout the depositor would receive
// for the whole claim in the current period.
func (k Keeper) DepositorRedeemableValue(ctx context.Context, db tst.ReadOnlyKVStore, depositor tst.Address) (uint64, error) {
	in, err := k.load(db)
	if err != nil {
		return 0, err
	}
	balance, err := in.balance.Balance(db, depositor)
	if err != nil {
		return 0, err
	}
	return in.claimValue(ctx, balance)
}

// DepositRedeemableValue returns the payout for a claim of given size in
// the current period.
func (k Keeper) DepositRedeemableValue(ctx context.Context, db tst.ReadOnlyKVStore, amount uint64) (uint64, error) {
	in, err := k.load(db)
	if err != nil {
		return 0, err
	}
	return in.claimValue(ctx, amount)
}

func (in *instance) claimValue(ctx context.Context, amount uint64) (uint64, error) {
	period, err := in.period(ctx)
	if err != nil {
		return 0, err
	}
	return mul(in.schedule.Rate(period), amount)
}
