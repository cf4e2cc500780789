package instrument

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/gconf"
)

const confPkg = "instrument"

// Default values used when the genesis does not declare them.
const (
	DefaultUnit              = 1000000
	DefaultWithdrawTolerance = 1000
	DefaultVotingPeriod      = 1000
	DefaultApplicationWindow = 500
)

var (
	DefaultMajorityThreshold = tst.Fraction{Numerator: 51, Denominator: 100}
	DefaultQuorum            = tst.Fraction{Numerator: 51, Denominator: 100}
	DefaultMinMargin         = tst.Fraction{Numerator: 2, Denominator: 100}
)

// Configuration holds the immutable parameters of the instrument. It is
// set by the genesis and never changed afterwards.
type Configuration struct {
	// Unit is the number of base units in one whole unit of value. A
	// redemption rate of Unit is par.
	Unit     uint64           `json:"unit"`
	Start    tst.UnixTime     `json:"start"`
	Duration tst.UnixDuration `json:"duration"`
	Interval tst.UnixDuration `json:"interval"`
	Periods  uint32           `json:"periods"`
	// Schedule holds Periods + 1 redemption rates, as decimal fractions
	// of a whole unit, for example "0.952380". The last rate is par.
	Schedule []string `json:"schedule"`
	// WithdrawTolerance is the largest amount, in base units, by which a
	// collateral withdrawal may exceed the value of the burned shares.
	WithdrawTolerance uint64 `json:"withdraw_tolerance"`
	// MajorityThreshold is the share of the total supply that allows a
	// guarantor to change the delegate without a vote.
	MajorityThreshold tst.Fraction `json:"majority_threshold"`
	// Quorum must be exceeded by the weight of all votes.
	Quorum tst.Fraction `json:"quorum"`
	// MinMargin must be reached by the weight of yes votes over no votes.
	MinMargin tst.Fraction `json:"min_margin"`
	// VotingPeriod is the number of blocks a proposal accepts votes.
	VotingPeriod int64 `json:"voting_period"`
	// ApplicationWindow is the number of blocks after the voting period
	// during which no new proposal can be made.
	ApplicationWindow int64 `json:"application_window"`
	// Deployer is the only account allowed to bootstrap the instrument.
	Deployer tst.Address `json:"deployer"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return tst.MarshalBinary(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, c)
}

// Validate checks all parameters, including the schedule.
func (c *Configuration) Validate() error {
	var errs error
	if c.Unit == 0 {
		errs = errors.AppendField(errs, "Unit", errors.Wrap(errors.ErrState, "must be positive"))
	}
	if c.Duration <= 0 {
		errs = errors.AppendField(errs, "Duration", errors.Wrap(errors.ErrState, "must be positive"))
	}
	if c.Interval <= 0 {
		errs = errors.AppendField(errs, "Interval", errors.Wrap(errors.ErrState, "must be positive"))
	}
	if c.Periods == 0 {
		errs = errors.AppendField(errs, "Periods", errors.Wrap(errors.ErrState, "must be positive"))
	}
	errs = errors.AppendField(errs, "Start", c.Start.Validate())
	if c.Unit != 0 && c.Periods != 0 {
		if _, err := parseRates(c.Schedule, c.Unit, c.Periods); err != nil {
			errs = errors.Append(errs, err)
		}
	}
	errs = errors.AppendField(errs, "MajorityThreshold", c.MajorityThreshold.Validate())
	errs = errors.AppendField(errs, "Quorum", c.Quorum.Validate())
	errs = errors.AppendField(errs, "MinMargin", c.MinMargin.Validate())
	if c.VotingPeriod <= 0 {
		errs = errors.AppendField(errs, "VotingPeriod", errors.Wrap(errors.ErrState, "must be positive"))
	}
	if c.ApplicationWindow < 0 {
		errs = errors.AppendField(errs, "ApplicationWindow", errors.Wrap(errors.ErrState, "must not be negative"))
	}
	errs = errors.AppendField(errs, "Deployer", c.Deployer.Validate())
	return errs
}

// NewConfiguration returns a configuration with every optional parameter
// set to its default value.
func NewConfiguration() Configuration {
	return Configuration{
		Unit:              DefaultUnit,
		WithdrawTolerance: DefaultWithdrawTolerance,
		MajorityThreshold: DefaultMajorityThreshold,
		Quorum:            DefaultQuorum,
		MinMargin:         DefaultMinMargin,
		VotingPeriod:      DefaultVotingPeriod,
		ApplicationWindow: DefaultApplicationWindow,
	}
}

// UnmarshalJSON decodes the genesis form of the configuration. Optional
// parameters that are not declared keep their default value. A declared
// zero is kept as zero.
func (c *Configuration) UnmarshalJSON(raw []byte) error {
	type plain Configuration
	p := plain(NewConfiguration())
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	*c = Configuration(p)
	return nil
}

// loadConfig returns the stored configuration. It is an error if the
// instrument was not initialized by the genesis.
func loadConfig(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "instrument configuration")
	}
	return &conf, nil
}

func (c *Configuration) String() string {
	return fmt.Sprintf("instrument(start=%s, duration=%s, interval=%s, periods=%d)",
		c.Start, c.Duration.Duration(), c.Interval.Duration(), c.Periods)
}
