package instrument

import (
	"context"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/x/cash"
	"github.com/iov-one/tst/x/token"
	"github.com/iov-one/tst/x/validators"
)

// Keeper implements all instrument operations. Every state changing method
// acts on behalf of the caller and must run inside a savepoint, so that a
// failure at any step leaves no trace.
type Keeper struct {
	cash       cash.Controller
	tokens     token.Controller
	validators validators.Controller
}

// NewKeeper returns a keeper that moves value with given cash controller,
// calls the ledgers of given token controller and changes the delegate
// with given validators controller.
func NewKeeper(c cash.Controller, t token.Controller, v validators.Controller) Keeper {
	return Keeper{cash: c, tokens: t, validators: v}
}

// instance groups everything an operation needs.
type instance struct {
	conf     *Configuration
	schedule *Schedule
	state    *State
	balance  Ledger
	share    Ledger
}

func (k Keeper) load(db tst.ReadOnlyKVStore) (*instance, error) {
	conf, err := loadConfig(db)
	if err != nil {
		return nil, err
	}
	schedule, err := NewSchedule(conf)
	if err != nil {
		return nil, err
	}
	state, err := loadState(db)
	if err != nil {
		return nil, err
	}
	if !state.Bootstrapped() {
		return nil, errors.Wrap(ErrNotBootstrapped, "ledgers unknown")
	}
	return &instance{
		conf:     conf,
		schedule: schedule,
		state:    state,
		balance:  tokenLedger{ctrl: k.tokens, name: state.BalanceLedger},
		share:    tokenLedger{ctrl: k.tokens, name: state.ShareLedger},
	}, nil
}

func (in *instance) period(ctx context.Context) (uint32, error) {
	now, err := tst.BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	return in.schedule.CurrentPeriod(tst.AsUnixTime(now))
}

// Bootstrap sets the ledgers of the instrument. Only the deployer can do
// it, and only once.
func (k Keeper) Bootstrap(db tst.KVStore, caller tst.Address, balanceLedger, shareLedger string) error {
	conf, err := loadConfig(db)
	if err != nil {
		return err
	}
	if !caller.Equals(conf.Deployer) {
		return errors.Wrap(errors.ErrPrivileged, "only the deployer can bootstrap")
	}
	state, err := loadState(db)
	if err != nil {
		return err
	}
	if state.Bootstrapped() {
		return errors.Wrap(errors.ErrAlreadyBootstrapped, "instrument")
	}
	if balanceLedger == shareLedger {
		return errors.Wrap(errors.ErrInput, "balance and share ledger must differ")
	}
	state.BalanceLedger = balanceLedger
	state.ShareLedger = shareLedger
	return saveState(db, state)
}

// ReceiveRewards accepts value that is not a deposit. It is surplus owned
// by the guarantors.
func (k Keeper) ReceiveRewards(db tst.KVStore, caller tst.Address, value uint64) error {
	state, err := loadState(db)
	if err != nil {
		return err
	}
	if err := k.cash.MoveCoins(db, caller, Address, value); err != nil {
		return errors.Wrap(err, "rewards")
	}
	if state.FreeCollateral, err = add(state.FreeCollateral, value); err != nil {
		return err
	}
	if state.DepositedCollateral, err = add(state.DepositedCollateral, value); err != nil {
		return err
	}
	return saveState(db, state)
}

// Deposit converts value into a claim on the balance ledger, at the rate of
// the current period. The discount is reserved from the free collateral.
// It returns the size of the claim.
func (k Keeper) Deposit(ctx context.Context, db tst.KVStore, caller tst.Address, value uint64) (uint64, error) {
	in, err := k.load(db)
	if err != nil {
		return 0, err
	}
	period, err := in.period(ctx)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, errors.Wrap(ErrDepositTooLow, "nothing deposited")
	}
	claim := value / in.schedule.Rate(period)
	whole := value / in.schedule.Unit()
	if claim <= whole {
		return 0, errors.Wrapf(ErrDepositTooLow, "claim %d for %d whole units", claim, whole)
	}
	required, err := mul(claim-whole, in.schedule.Unit())
	if err != nil {
		return 0, err
	}
	if required > in.state.FreeCollateral {
		return 0, errors.Wrapf(ErrInsufficientCollateral, "required %d, free %d", required, in.state.FreeCollateral)
	}

	if err := k.cash.MoveCoins(db, caller, Address, value); err != nil {
		return 0, errors.Wrap(err, "deposit value")
	}
	in.state.FreeCollateral -= required
	if err := saveState(db, in.state); err != nil {
		return 0, err
	}
	if err := in.balance.Mint(db, caller, claim); err != nil {
		return 0, errors.Wrap(err, "mint claim")
	}
	return claim, nil
}

// Redeem converts part of the caller claim back into value, at the rate of
// the current period. It returns the payout.
func (k Keeper) Redeem(ctx context.Context, db tst.KVStore, caller tst.Address, amount uint64) (uint64, error) {
	in, err := k.load(db)
	if err != nil {
		return 0, err
	}
	period, err := in.period(ctx)
	if err != nil {
		return 0, err
	}
	return k.redeemBalance(db, in, caller, period, amount)
}

// redeemBalance releases amount of the account claim at given period. The
// payout goes to the account and the discount returns to the pool.
func (k Keeper) redeemBalance(db tst.KVStore, in *instance, account tst.Address, period uint32, amount uint64) (uint64, error) {
	balance, err := in.balance.Balance(db, account)
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, errors.Wrapf(errors.ErrInsufficientBalance, "balance %d, required %d", balance, amount)
	}
	payout, err := mul(in.schedule.Rate(period), amount)
	if err != nil {
		return 0, err
	}
	released, err := mul(in.schedule.Released(period), amount)
	if err != nil {
		return 0, err
	}

	if in.state.FreeCollateral, err = add(in.state.FreeCollateral, released); err != nil {
		return 0, err
	}
	if in.state.FreeCollateral > in.state.DepositedCollateral {
		in.state.DepositedCollateral = in.state.FreeCollateral
	}
	if err := saveState(db, in.state); err != nil {
		return 0, err
	}
	if err := in.balance.Burn(db, account, amount); err != nil {
		return 0, errors.Wrap(err, "burn claim")
	}
	if err := k.cash.MoveCoins(db, Address, account, payout); err != nil {
		return 0, errors.Wrap(err, "payout")
	}
	return payout, nil
}

// Terminate redeems the whole claim of every listed depositor at par. It
// can be called by any guarantor once the instrument matured. Depositors
// without a claim are skipped, so it can be called many times with
// different lists.
func (k Keeper) Terminate(ctx context.Context, db tst.KVStore, caller tst.Address, depositors []tst.Address) (uint64, error) {
	in, err := k.load(db)
	if err != nil {
		return 0, err
	}
	period, err := in.period(ctx)
	if err != nil {
		return 0, err
	}
	if period != in.schedule.Periods() {
		return 0, errors.Wrapf(ErrValidityPeriodNotComplete, "period %d of %d", period, in.schedule.Periods())
	}
	if err := k.requireGuarantor(db, in, caller); err != nil {
		return 0, err
	}
	var total uint64
	for _, d := range depositors {
		balance, err := in.balance.Balance(db, d)
		if err != nil {
			return 0, err
		}
		if balance == 0 {
			continue
		}
		payout, err := k.redeemBalance(db, in, d, period, balance)
		if err != nil {
			return 0, errors.Wrapf(err, "depositor %s", d)
		}
		if total, err = add(total, payout); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// DepositCollateral adds value to the collateral pool and issues shares to
// the caller. Shares are issued so that the value of the existing shares
// does not change. It returns the number of issued shares.
func (k Keeper) DepositCollateral(db tst.KVStore, caller tst.Address, value uint64) (uint64, error) {
	in, err := k.load(db)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, errors.Wrap(errors.ErrAmount, "nothing deposited")
	}
	total, err := in.share.TotalSupply(db)
	if err != nil {
		return 0, err
	}
	issue := value
	if total > 0 {
		if in.state.DepositedCollateral == 0 {
			return 0, errors.Wrapf(ErrInconsistentState, "%d shares without collateral", total)
		}
		if issue, err = dilutedIssue(in.state.DepositedCollateral, value, total); err != nil {
			return 0, err
		}
	}

	if err := k.cash.MoveCoins(db, caller, Address, value); err != nil {
		return 0, errors.Wrap(err, "collateral value")
	}
	if in.state.FreeCollateral, err = add(in.state.FreeCollateral, value); err != nil {
		return 0, err
	}
	if in.state.DepositedCollateral, err = add(in.state.DepositedCollateral, value); err != nil {
		return 0, err
	}
	if err := saveState(db, in.state); err != nil {
		return 0, err
	}
	if issue > 0 {
		if err := in.share.Mint(db, caller, issue); err != nil {
			return 0, errors.Wrap(err, "mint shares")
		}
	}
	return issue, nil
}

// WithdrawCollateral pays out amount of the free collateral to the caller
// in exchange for a proportional part of the caller shares. It returns the
// number of burned shares.
func (k Keeper) WithdrawCollateral(db tst.KVStore, caller tst.Address, amount uint64) (uint64, error) {
	in, err := k.load(db)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, errors.Wrap(errors.ErrAmount, "nothing to withdraw")
	}
	// free is the divisor of the share ratio below.
	free := in.state.FreeCollateral
	if amount > free {
		return 0, errors.Wrapf(ErrInsufficientFreeCollateral, "requested %d, free %d", amount, free)
	}
	total, err := in.share.TotalSupply(db)
	if err != nil {
		return 0, err
	}
	required, err := mulDiv(amount, total, free)
	if err != nil {
		return 0, err
	}
	held, err := in.share.Balance(db, caller)
	if err != nil {
		return 0, err
	}
	if held == 0 {
		return 0, errors.Wrap(ErrNotAGuarantor, "no shares")
	}
	if required > held {
		return 0, errors.Wrapf(ErrInsufficientShare, "required %d, held %d", required, held)
	}
	// Withdrawing without burning any share would drain the pool one
	// tolerance at a time.
	if required == 0 {
		return 0, errors.Wrapf(ErrExceedsShare, "%d is worth less than a share", amount)
	}
	worth, err := mulDiv(free, required, total)
	if err != nil {
		return 0, err
	}
	if amount > worth && amount-worth > in.conf.WithdrawTolerance {
		return 0, errors.Wrapf(ErrExceedsShare, "requested %d, shares worth %d", amount, worth)
	}

	in.state.FreeCollateral -= amount
	in.state.DepositedCollateral -= amount
	if err := saveState(db, in.state); err != nil {
		return 0, err
	}
	if err := in.share.Burn(db, caller, required); err != nil {
		return 0, errors.Wrap(err, "burn shares")
	}
	if err := k.cash.MoveCoins(db, Address, caller, amount); err != nil {
		return 0, errors.Wrap(err, "withdrawal")
	}
	return required, nil
}

// requireGuarantor returns ErrNotAGuarantor unless the account holds
// shares.
func (k Keeper) requireGuarantor(db tst.ReadOnlyKVStore, in *instance, account tst.Address) error {
	held, err := in.share.Balance(db, account)
	if err != nil {
		return err
	}
	if held == 0 {
		return errors.Wrap(ErrNotAGuarantor, "no shares")
	}
	return nil
}

// State returns the current instrument state.
func (k Keeper) State(db tst.ReadOnlyKVStore) (*State, error) {
	return loadState(db)
}

// Config returns the instrument configuration.
func (k Keeper) Config(db tst.ReadOnlyKVStore) (*Configuration, error) {
	return loadConfig(db)
}
