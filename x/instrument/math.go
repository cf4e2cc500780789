package instrument

import (
	"math"
	"math/big"

	"github.com/iov-one/tst/errors"
)

var maxUint64 = new(big.Int).SetUint64(math.MaxUint64)

func toUint64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 || v.Cmp(maxUint64) > 0 {
		return 0, errors.Wrapf(errors.ErrOverflow, "%s", v)
	}
	return v.Uint64(), nil
}

// mulDiv returns floor(a * b / c) without intermediate overflow.
func mulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, errors.Wrap(errors.ErrHuman, "division by zero")
	}
	r := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	r.Quo(r, new(big.Int).SetUint64(c))
	return toUint64(r)
}

func mul(a, b uint64) (uint64, error) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d", a, b)
	}
	return a * b, nil
}

func add(a, b uint64) (uint64, error) {
	if b > math.MaxUint64-a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}

// dilutedIssue returns the number of shares to issue for value deposited
// into a pool holding deposited collateral with total shares outstanding:
// floor((deposited + value) * total / deposited) - total.
func dilutedIssue(deposited, value, total uint64) (uint64, error) {
	if deposited == 0 {
		return 0, errors.Wrap(errors.ErrHuman, "division by zero")
	}
	t := new(big.Int).SetUint64(total)
	r := new(big.Int).Add(new(big.Int).SetUint64(deposited), new(big.Int).SetUint64(value))
	r.Mul(r, t)
	r.Quo(r, new(big.Int).SetUint64(deposited))
	r.Sub(r, t)
	return toUint64(r)
}

// average returns floor((a + b) / 2) without overflow.
func average(a, b uint64) uint64 {
	return a/2 + b/2 + (a%2+b%2)/2
}
