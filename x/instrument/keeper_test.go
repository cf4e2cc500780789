package instrument

import (
	"testing"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/gconf"
	"github.com/iov-one/tst/weavetest"
	"github.com/stretchr/testify/require"
)

func TestDepositAndRedeemOverTime(t *testing.T) {
	f := newFixture(t, true)

	issuer := f.account(t, 1000*whole)
	alice := f.account(t, 1000*whole)
	bob := f.account(t, 42000*whole)
	cindy := f.account(t, 0)

	// Period 0
	ctx := at(0*day+1, 1)
	_, err := f.keeper.Deposit(ctx, f.db, alice, 1000*whole)
	require.True(t, ErrInsufficientCollateral.Is(err), "%+v", err)
	require.Equal(t, uint64(1000*whole), f.cashOf(t, alice))

	require.NoError(t, f.keeper.ReceiveRewards(f.db, issuer, 1000*whole))
	s := f.state(t)
	require.Equal(t, uint64(1000*whole), s.FreeCollateral)
	require.Equal(t, uint64(1000*whole), s.DepositedCollateral)

	_, err = f.keeper.Deposit(ctx, f.db, bob, 40000*whole)
	require.True(t, ErrInsufficientCollateral.Is(err), "%+v", err)

	claim, err := f.keeper.Deposit(ctx, f.db, bob, 2000*whole)
	require.NoError(t, err)
	require.Equal(t, uint64(2100), claim)
	require.Equal(t, uint64(2100), f.claimOf(t, bob))
	require.Equal(t, uint64(900*whole), f.state(t).FreeCollateral)

	// Period 1
	ctx = at(1*day+1, 2)
	_, err = f.keeper.Redeem(ctx, f.db, cindy, 100)
	require.True(t, errors.ErrInsufficientBalance.Is(err), "%+v", err)

	// Period 2
	ctx = at(2*day+1, 3)
	claim, err = f.keeper.Deposit(ctx, f.db, bob, 1000*whole)
	require.NoError(t, err)
	require.Equal(t, uint64(1038), claim)
	require.Equal(t, uint64(862*whole), f.state(t).FreeCollateral)

	// Period 3
	ctx = at(3*day+1, 4)
	payout, err := f.keeper.Redeem(ctx, f.db, bob, 1050)
	require.NoError(t, err)
	require.Equal(t, uint64(1050*967996), payout)
	require.Equal(t, uint64(3138-1050), f.claimOf(t, bob))

	s = f.state(t)
	require.Equal(t, uint64(862*whole+1050*(whole-967996)), s.FreeCollateral)
	require.Equal(t, uint64(1000*whole), s.DepositedCollateral)
	require.Equal(t, uint64(39000*whole+1050*967996), f.cashOf(t, bob))
	require.Equal(t, uint64(4000*whole-1050*967996), f.cashOf(t, Address))
}

func TestDepositTooLow(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.keeper.ReceiveRewards(f.db, f.account(t, 100*whole), 100*whole))
	alice := f.account(t, 100*whole)

	cases := map[string]struct {
		time  int64
		value uint64
	}{
		"nothing":                  {time: 1, value: 0},
		"less than a claim":        {time: 1, value: 952379},
		"at par after maturity":    {time: 10*day + 1, value: 5 * whole},
		"during the last period":   {time: 10 * day, value: 3 * whole},
		"par rate below one claim": {time: 10*day + 1, value: whole - 1},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := f.keeper.Deposit(at(tc.time, 1), f.db, alice, tc.value)
			require.True(t, ErrDepositTooLow.Is(err), "%+v", err)
		})
	}
	require.Equal(t, uint64(100*whole), f.cashOf(t, alice))
}

func TestRedeemNeverFavorsDepositor(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.keeper.ReceiveRewards(f.db, f.account(t, 10000*whole), 10000*whole))

	values := []uint64{2 * whole, 7*whole + 13, 1000*whole + 999999, 123456789}
	for p := int64(0); p < 10; p++ {
		ctx := at(p*day+1, p+1)
		for _, v := range values {
			depositor := f.account(t, v)
			claim, err := f.keeper.Deposit(ctx, f.db, depositor, v)
			if ErrDepositTooLow.Is(err) {
				continue
			}
			require.NoError(t, err)
			payout, err := f.keeper.Redeem(ctx, f.db, depositor, claim)
			require.NoError(t, err)
			require.True(t, payout <= v, "period %d: paid %d for %d", p, payout, v)
			require.True(t, v-payout < whole, "period %d: lost %d of %d", p, v-payout, v)
			require.Equal(t, uint64(0), f.claimOf(t, depositor))
		}
		s := f.state(t)
		require.True(t, s.FreeCollateral <= s.DepositedCollateral)
	}
}

func TestTerminate(t *testing.T) {
	f := newFixture(t, true)
	g := f.guarantor(t, 1000*whole)
	alice := f.account(t, 100*whole)
	bob := f.account(t, 300*whole)
	carol := f.account(t, 0)

	a, err := f.keeper.Deposit(at(1, 1), f.db, alice, 100*whole)
	require.NoError(t, err)
	b, err := f.keeper.Deposit(at(5*day, 2), f.db, bob, 300*whole)
	require.NoError(t, err)

	_, err = f.keeper.Terminate(at(10*day, 3), f.db, g, []tst.Address{alice})
	require.True(t, ErrValidityPeriodNotComplete.Is(err), "%+v", err)
	_, err = f.keeper.Terminate(at(1, 3), f.db, carol, []tst.Address{alice})
	require.True(t, ErrValidityPeriodNotComplete.Is(err), "%+v", err)

	_, err = f.keeper.Terminate(at(11*day, 3), f.db, alice, []tst.Address{alice})
	require.True(t, ErrNotAGuarantor.Is(err), "%+v", err)

	paid, err := f.keeper.Terminate(at(11*day, 4), f.db, g, []tst.Address{alice, carol, bob})
	require.NoError(t, err)
	require.Equal(t, (a+b)*whole, paid)
	require.Equal(t, a*whole, f.cashOf(t, alice))
	require.Equal(t, b*whole, f.cashOf(t, bob))
	require.Equal(t, uint64(0), f.claimOf(t, alice))
	require.Equal(t, uint64(0), f.claimOf(t, bob))

	paid, err = f.keeper.Terminate(at(12*day, 5), f.db, g, []tst.Address{alice, bob})
	require.NoError(t, err)
	require.Equal(t, uint64(0), paid)

	// Everything not paid to depositors is free collateral again.
	s := f.state(t)
	require.Equal(t, f.cashOf(t, Address), s.FreeCollateral)
}

func TestBootstrap(t *testing.T) {
	f := newFixture(t, false)
	stranger := f.account(t, 10*whole)

	_, err := f.keeper.Deposit(at(1, 1), f.db, stranger, 10*whole)
	require.True(t, ErrNotBootstrapped.Is(err), "%+v", err)
	_, err = f.keeper.DepositCollateral(f.db, stranger, 10*whole)
	require.True(t, ErrNotBootstrapped.Is(err), "%+v", err)

	// Rewards can arrive at any time.
	require.NoError(t, f.keeper.ReceiveRewards(f.db, stranger, whole))

	err = f.keeper.Bootstrap(f.db, stranger, "balance", "share")
	require.True(t, errors.ErrPrivileged.Is(err), "%+v", err)
	err = f.keeper.Bootstrap(f.db, f.deployer, "balance", "balance")
	require.True(t, errors.ErrInput.Is(err), "%+v", err)

	require.NoError(t, f.keeper.Bootstrap(f.db, f.deployer, "balance", "share"))
	err = f.keeper.Bootstrap(f.db, f.deployer, "balance", "share")
	require.True(t, errors.ErrAlreadyBootstrapped.Is(err), "%+v", err)

	s := f.state(t)
	require.Equal(t, "balance", s.BalanceLedger)
	require.Equal(t, "share", s.ShareLedger)
	require.Equal(t, uint64(whole), s.FreeCollateral)
}

func TestDepositCollateralDilution(t *testing.T) {
	f := newFixture(t, true)

	g1 := f.guarantor(t, 1000*whole)
	require.Equal(t, uint64(1000*whole), f.sharesOf(t, g1))

	require.NoError(t, f.keeper.ReceiveRewards(f.db, f.account(t, 100*whole), 100*whole))
	before, err := f.keeper.GuarantorRedeemableValue(f.db, g1)
	require.NoError(t, err)
	require.Equal(t, uint64(1100*whole), before)

	g2 := f.account(t, 550*whole)
	issued, err := f.keeper.DepositCollateral(f.db, g2, 550*whole)
	require.NoError(t, err)
	require.Equal(t, uint64(500*whole), issued)

	after, err := f.keeper.GuarantorRedeemableValue(f.db, g1)
	require.NoError(t, err)
	require.Equal(t, before, after)
	v2, err := f.keeper.GuarantorRedeemableValue(f.db, g2)
	require.NoError(t, err)
	require.Equal(t, uint64(550*whole), v2)

	_, err = f.keeper.DepositCollateral(f.db, g2, 0)
	require.True(t, errors.ErrAmount.Is(err), "%+v", err)
}

func TestDepositCollateralWithoutCollateral(t *testing.T) {
	f := newFixture(t, true)
	g := f.account(t, whole)
	require.NoError(t, f.tokens.Mint(f.db, "share", Address, g, 10))

	_, err := f.keeper.DepositCollateral(f.db, g, whole)
	require.True(t, ErrInconsistentState.Is(err), "%+v", err)
	require.Equal(t, uint64(whole), f.cashOf(t, g))
}

func TestWithdrawCollateral(t *testing.T) {
	f := newFixture(t, true)
	g1 := f.guarantor(t, 1000*whole)
	require.NoError(t, f.keeper.ReceiveRewards(f.db, f.account(t, 100*whole), 100*whole))
	g2 := f.guarantor(t, 550*whole)
	stranger := f.account(t, 0)

	_, err := f.keeper.WithdrawCollateral(f.db, g2, 0)
	require.True(t, errors.ErrAmount.Is(err), "%+v", err)
	_, err = f.keeper.WithdrawCollateral(f.db, g2, 1651*whole)
	require.True(t, ErrInsufficientFreeCollateral.Is(err), "%+v", err)
	_, err = f.keeper.WithdrawCollateral(f.db, stranger, whole)
	require.True(t, ErrNotAGuarantor.Is(err), "%+v", err)
	_, err = f.keeper.WithdrawCollateral(f.db, g2, 600*whole)
	require.True(t, ErrInsufficientShare.Is(err), "%+v", err)

	burned, err := f.keeper.WithdrawCollateral(f.db, g2, 550*whole)
	require.NoError(t, err)
	require.Equal(t, uint64(500*whole), burned)
	require.Equal(t, uint64(550*whole), f.cashOf(t, g2))
	require.Equal(t, uint64(0), f.sharesOf(t, g2))

	s := f.state(t)
	require.Equal(t, uint64(1100*whole), s.FreeCollateral)
	require.Equal(t, uint64(1100*whole), s.DepositedCollateral)

	v1, err := f.keeper.GuarantorRedeemableValue(f.db, g1)
	require.NoError(t, err)
	require.Equal(t, uint64(1100*whole), v1)
}

func TestWithdrawCollateralRounding(t *testing.T) {
	cases := map[string]struct {
		tolerance uint64
		amount    uint64
		wantErr   *errors.Error
		wantBurn  uint64
	}{
		"worth of one share": {
			tolerance: 1000,
			amount:    500000001,
			wantBurn:  1,
		},
		"within the tolerance": {
			tolerance: 1000,
			amount:    500000001 + 1000,
			wantBurn:  1,
		},
		"above the tolerance": {
			tolerance: 1000,
			amount:    500000001 + 1001,
			wantErr:   ErrExceedsShare,
		},
		"no tolerance": {
			tolerance: 0,
			amount:    500000002,
			wantErr:   ErrExceedsShare,
		},
		"less than a share": {
			tolerance: 1000,
			amount:    400000000,
			wantErr:   ErrExceedsShare,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, true)
			g := f.guarantor(t, 2)
			require.NoError(t, f.keeper.ReceiveRewards(f.db, f.account(t, 1000*whole), 1000*whole))

			// The zero tolerance is replaced by the default on load from
			// a genesis only.
			conf, err := loadConfig(f.db)
			require.NoError(t, err)
			conf.WithdrawTolerance = tc.tolerance
			require.NoError(t, gconf.Save(f.db, confPkg, conf))

			burned, err := f.keeper.WithdrawCollateral(f.db, g, tc.amount)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "%+v", err)
				require.Equal(t, uint64(2), f.sharesOf(t, g))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantBurn, burned)
			require.Equal(t, tc.amount, f.cashOf(t, g))
			f.state(t)
		})
	}
}

func TestGuaranteeViews(t *testing.T) {
	f := newFixture(t, true)

	v, err := f.keeper.GuaranteeRedeemableValue(f.db, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(0), v)

	f.guarantor(t, 400*whole)
	require.NoError(t, f.keeper.ReceiveRewards(f.db, f.account(t, 100*whole), 100*whole))
	v, err = f.keeper.GuaranteeRedeemableValue(f.db, 100*whole)
	require.NoError(t, err)
	require.Equal(t, uint64(125*whole), v)

	depositor := f.account(t, 100*whole)
	claim, err := f.keeper.Deposit(at(1, 1), f.db, depositor, 100*whole)
	require.NoError(t, err)

	v, err = f.keeper.DepositorRedeemableValue(at(day+1, 2), f.db, depositor)
	require.NoError(t, err)
	require.Equal(t, claim*957557, v)
	v, err = f.keeper.DepositRedeemableValue(at(20*day, 3), f.db, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(10*whole), v)

	_, err = f.keeper.DepositorRedeemableValue(at(1, 1), f.db, weavetest.NewCondition().Address())
	require.NoError(t, err)
}
