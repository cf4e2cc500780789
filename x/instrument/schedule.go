package instrument

import (
	"fmt"
	"math"
	"math/big"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/shopspring/decimal"
)

// Schedule maps time to a period index and each period to its redemption
// rate. Rates are expressed in base units per whole unit, so that a claim
// of n tokens at period p is worth Rate(p) * n base units.
type Schedule struct {
	unit     uint64
	start    tst.UnixTime
	duration int64
	interval int64
	periods  uint32
	rates    []uint64
}

// NewSchedule builds the schedule described by given configuration.
func NewSchedule(c *Configuration) (*Schedule, error) {
	if c.Duration <= 0 {
		return nil, errors.Field("Duration", errors.ErrState, "must be positive")
	}
	if c.Interval <= 0 {
		return nil, errors.Field("Interval", errors.ErrState, "must be positive")
	}
	if c.Unit == 0 || c.Periods == 0 {
		return nil, errors.Wrap(errors.ErrState, "unit and periods must be positive")
	}
	rates, err := parseRates(c.Schedule, c.Unit, c.Periods)
	if err != nil {
		return nil, err
	}
	return &Schedule{
		unit:     c.Unit,
		start:    c.Start,
		duration: int64(c.Duration),
		interval: int64(c.Interval),
		periods:  c.Periods,
		rates:    rates,
	}, nil
}

// Periods returns the number of periods. It is also the index of the par
// rate, used once the instrument matured.
func (s *Schedule) Periods() uint32 {
	return s.periods
}

// Unit returns the number of base units in a whole unit.
func (s *Schedule) Unit() uint64 {
	return s.unit
}

// CurrentPeriod returns the period index at given time. After the end of
// the validity period it returns Periods. Asking for a time before the
// start is a configuration error.
func (s *Schedule) CurrentPeriod(now tst.UnixTime) (uint32, error) {
	if now < s.start {
		return 0, errors.Wrapf(errors.ErrState, "instrument starts at %s", s.start)
	}
	elapsed := int64(now - s.start)
	if elapsed > s.duration {
		return s.periods, nil
	}
	toMaturity := s.duration - elapsed
	p := int64(s.periods) - toMaturity/s.interval - 1
	switch {
	case p < 0:
		p = 0
	case p > int64(s.periods)-1:
		p = int64(s.periods) - 1
	}
	return uint32(p), nil
}

// Rate returns the redemption rate of given period. Periods beyond the
// schedule use the par rate.
func (s *Schedule) Rate(period uint32) uint64 {
	if period > s.periods {
		period = s.periods
	}
	return s.rates[period]
}

// Released returns the part of a whole unit that is released back to the
// collateral pool when a claim is redeemed at given period.
func (s *Schedule) Released(period uint32) uint64 {
	return s.unit - s.Rate(period)
}

// Rates returns the schedule rendered as decimal fractions of a whole unit.
func (s *Schedule) Rates() []string {
	return FormatRates(s.rates, s.unit)
}

// FormatRates renders rates expressed in base units as decimal fractions of
// a whole unit.
func FormatRates(rates []uint64, unit uint64) []string {
	u := decimal.NewFromBigInt(new(big.Int).SetUint64(unit), 0)
	res := make([]string, len(rates))
	for i, r := range rates {
		res[i] = decimal.NewFromBigInt(new(big.Int).SetUint64(r), 0).DivRound(u, 18).String()
	}
	return res
}

// parseRates converts the decimal rates into base units. Every rate must be
// exactly representable, positive, not greater than par and not lower than
// the previous one. The last rate must be par.
func parseRates(schedule []string, unit uint64, periods uint32) ([]uint64, error) {
	if len(schedule) != int(periods)+1 {
		return nil, errors.Field("Schedule", errors.ErrState,
			"want %d rates, got %d", int(periods)+1, len(schedule))
	}
	if unit > math.MaxInt64 {
		return nil, errors.Field("Unit", errors.ErrOverflow, "unit too big")
	}
	u := decimal.New(int64(unit), 0)
	rates := make([]uint64, len(schedule))
	var errs error
	for i, raw := range schedule {
		field := fmt.Sprintf("Schedule.%d", i)
		d, err := decimal.NewFromString(raw)
		if err != nil {
			errs = errors.AppendField(errs, field, errors.Wrap(errors.ErrInput, err.Error()))
			continue
		}
		v := d.Mul(u)
		if !v.Equal(v.Truncate(0)) {
			errs = errors.AppendField(errs, field, errors.Wrapf(errors.ErrInput, "%s is finer than a base unit", raw))
			continue
		}
		if v.Sign() <= 0 || v.Cmp(u) > 0 {
			errs = errors.AppendField(errs, field, errors.Wrapf(errors.ErrState, "%s not in (0, 1]", raw))
			continue
		}
		rates[i] = uint64(v.IntPart())
		if i > 0 && rates[i] < rates[i-1] {
			errs = errors.AppendField(errs, field, errors.Wrap(errors.ErrState, "schedule must not decrease"))
		}
	}
	if errs != nil {
		return nil, errs
	}
	if rates[len(rates)-1] != unit {
		return nil, errors.Field(fmt.Sprintf("Schedule.%d", periods), errors.ErrState, "last rate must be par")
	}
	return rates, nil
}
