package instrument

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/iov-one/tst"
	"github.com/stretchr/testify/require"
)

// TestRandomSequences runs random mixes of all value moving operations
// over the whole life of the instrument and checks the pool after every
// step.
func TestRandomSequences(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			runSequence(t, rand.New(rand.NewSource(seed)), 200)
		})
	}
}

func runSequence(t *testing.T, r *rand.Rand, steps int) {
	f := newFixture(t, true)
	actors := make([]tst.Address, 6)
	for i := range actors {
		actors[i] = f.account(t, 100000*whole)
	}
	shares := tokenLedger{ctrl: f.tokens, name: "share"}
	claims := tokenLedger{ctrl: f.tokens, name: "balance"}

	// apply runs the operation in a cache wrap, so that a failed call
	// leaves no trace, as it does behind the savepoint decorator.
	apply := func(op func(db tst.KVStore) error) error {
		cw := f.db.(tst.CacheableKVStore).CacheWrap()
		if err := op(cw); err != nil {
			cw.Discard()
			return err
		}
		require.NoError(t, cw.Write())
		return nil
	}

	var now int64 = 1
	for step := 0; step < steps; step++ {
		now += r.Int63n(day / 2)
		ctx := at(now, int64(step+1))
		who := actors[r.Intn(len(actors))]

		before := make(map[int]uint64)
		op := r.Intn(5)
		if op == 0 {
			for i, a := range actors {
				v, err := f.keeper.GuarantorRedeemableValue(f.db, a)
				require.NoError(t, err)
				before[i] = v
			}
		}

		callErr := apply(func(db tst.KVStore) error {
			switch op {
			case 0:
				_, err := f.keeper.DepositCollateral(db, who, uint64(r.Int63n(500*whole))+1)
				return err
			case 1:
				held, err := f.keeper.GuarantorRedeemableValue(db, who)
				if err != nil {
					return err
				}
				_, err = f.keeper.WithdrawCollateral(db, who, uint64(r.Int63n(int64(held)+whole))+1)
				return err
			case 2:
				_, err := f.keeper.Deposit(ctx, db, who, uint64(r.Int63n(300*whole))+1)
				return err
			case 3:
				held, err := claims.Balance(db, who)
				if err != nil {
					return err
				}
				_, err = f.keeper.Redeem(ctx, db, who, uint64(r.Int63n(int64(held)+1)))
				return err
			default:
				return f.keeper.ReceiveRewards(db, who, uint64(r.Int63n(50*whole))+1)
			}
		})
		if callErr != nil {
			require.False(t, ErrInconsistentState.Is(callErr), "step %d: %+v", step, callErr)
		}

		s := f.state(t)
		require.True(t, s.FreeCollateral <= s.DepositedCollateral, "step %d", step)

		var held, claimed uint64
		for i, a := range actors {
			n, err := shares.Balance(f.db, a)
			require.NoError(t, err)
			held += n
			c, err := claims.Balance(f.db, a)
			require.NoError(t, err)
			claimed += c

			if op == 0 && callErr == nil && !a.Equals(who) {
				v, err := f.keeper.GuarantorRedeemableValue(f.db, a)
				require.NoError(t, err)
				require.True(t, v >= before[i], "step %d: value of %d fell from %d to %d", step, i, before[i], v)
			}
		}
		totalShares, err := shares.TotalSupply(f.db)
		require.NoError(t, err)
		require.Equal(t, totalShares, held, "step %d", step)
		totalClaims, err := claims.TotalSupply(f.db)
		require.NoError(t, err)
		require.Equal(t, totalClaims, claimed, "step %d", step)

		// Every outstanding claim is backed at par on top of the free
		// collateral.
		require.True(t, f.cashOf(t, Address) >= s.FreeCollateral+claimed*whole,
			"step %d: cash %d, free %d, claims %d", step, f.cashOf(t, Address), s.FreeCollateral, claimed)
	}
}
