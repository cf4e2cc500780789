package instrument

import (
	"testing"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/x/token"
	"github.com/stretchr/testify/require"
)

// foreignLedger answers every view with a payload that is not a view
// result.
type foreignLedger struct {
	token.BaseController
}

func (foreignLedger) View(db tst.ReadOnlyKVStore, name, view string, args ...tst.Address) ([]byte, error) {
	return []byte{0x0a, 0x01, 'x'}, nil
}

func TestIncompatibleLedger(t *testing.T) {
	f := newFixture(t, true)
	f.keeper = NewKeeper(f.cash, foreignLedger{f.tokens}, f.validators)
	g := f.account(t, whole)

	_, err := f.keeper.DepositCollateral(f.db, g, whole)
	require.True(t, ErrIncompatibleView.Is(err), "%+v", err)
	_, err = f.keeper.Redeem(at(1, 1), f.db, g, 1)
	require.True(t, ErrIncompatibleView.Is(err), "%+v", err)
	_, err = f.keeper.GuarantorRedeemableValue(f.db, g)
	require.True(t, ErrIncompatibleView.Is(err), "%+v", err)

	require.Equal(t, uint64(whole), f.cashOf(t, g))
}

func TestMath(t *testing.T) {
	max := ^uint64(0)

	got, err := mulDiv(max, max, max)
	require.NoError(t, err)
	require.Equal(t, max, got)

	_, err = mulDiv(max, 2, 1)
	require.Error(t, err)
	_, err = mulDiv(1, 1, 0)
	require.Error(t, err)

	_, err = mul(max/2+1, 2)
	require.Error(t, err)
	_, err = add(max, 1)
	require.Error(t, err)

	require.Equal(t, max, average(max, max))
	require.Equal(t, uint64(2), average(1, 3))
	require.Equal(t, uint64(1), average(1, 2))

	issue, err := dilutedIssue(3, 1, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(3), issue)
}
