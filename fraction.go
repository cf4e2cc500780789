package tst

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/iov-one/tst/errors"
)

// Fraction is a ratio of two unsigned integers. It is used to express
// thresholds, for example the share of the total supply required for a
// proposal to pass.
type Fraction struct {
	Numerator   uint32 `json:"numerator"`
	Denominator uint32 `json:"denominator"`
}

func (f Fraction) String() string {
	if f.Numerator == 0 {
		return "0"
	}
	if f.Denominator == 1 {
		return fmt.Sprint(f.Numerator)
	}
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

// UnmarshalJSON accepts either the human readable "a/b" string or the
// structure form.
func (f *Fraction) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		frac, err := ParseFractionString(human)
		if err != nil {
			return err
		}
		*f = frac
		return nil
	}

	var frac struct {
		Numerator   uint32
		Denominator uint32
	}
	if err := json.Unmarshal(raw, &frac); err != nil {
		return errors.Wrapf(errors.ErrInput, "fraction: %s", err)
	}
	f.Numerator = frac.Numerator
	f.Denominator = frac.Denominator
	return nil
}

// Validate returns an error if this fraction represents an invalid value.
func (f Fraction) Validate() error {
	if f.Denominator == 0 {
		return errors.Wrap(errors.ErrState, "zero division")
	}
	if f.Numerator > f.Denominator {
		return errors.Wrap(errors.ErrState, "greater than one")
	}
	return nil
}

// Reached returns true if part is at least this fraction of the whole. The
// comparison is done without precision loss: part * den >= whole * num.
func (f Fraction) Reached(part, whole uint64) bool {
	l := new(big.Int).Mul(new(big.Int).SetUint64(part), big.NewInt(int64(f.Denominator)))
	r := new(big.Int).Mul(new(big.Int).SetUint64(whole), big.NewInt(int64(f.Numerator)))
	return l.Cmp(r) >= 0
}

// Exceeded returns true if part is strictly more than this fraction of the
// whole.
func (f Fraction) Exceeded(part, whole uint64) bool {
	l := new(big.Int).Mul(new(big.Int).SetUint64(part), big.NewInt(int64(f.Denominator)))
	r := new(big.Int).Mul(new(big.Int).SetUint64(whole), big.NewInt(int64(f.Numerator)))
	return l.Cmp(r) > 0
}

// ParseFractionString returns a fraction value that is represented by given
// string. String must be in the "a/b" format, for example "51/100", or a
// single integer.
func ParseFractionString(s string) (Fraction, error) {
	chunks := strings.Split(strings.TrimSpace(s), "/")
	var f Fraction
	switch len(chunks) {
	case 1:
		n, err := strconv.ParseUint(chunks[0], 10, 32)
		if err != nil {
			return f, errors.Wrapf(errors.ErrInput, "numerator: %s", err)
		}
		f.Numerator, f.Denominator = uint32(n), 1
	case 2:
		n, err := strconv.ParseUint(chunks[0], 10, 32)
		if err != nil {
			return f, errors.Wrapf(errors.ErrInput, "numerator: %s", err)
		}
		d, err := strconv.ParseUint(chunks[1], 10, 32)
		if err != nil {
			return f, errors.Wrapf(errors.ErrInput, "denominator: %s", err)
		}
		f.Numerator, f.Denominator = uint32(n), uint32(d)
	default:
		return f, errors.Wrapf(errors.ErrInput, "invalid fraction %q", s)
	}
	return f, nil
}
