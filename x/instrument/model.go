package instrument

import (
	"fmt"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/orm"
)

func init() {
	tst.Codec.RegisterInterface((*Proposal)(nil), nil)
	tst.Codec.RegisterConcrete(&NoProposal{}, "instrument/NoProposal", nil)
	tst.Codec.RegisterConcrete(&Voting{}, "instrument/Voting", nil)
}

// Address is the account of the instrument. It holds all value deposited
// by depositors and guarantors, and is the parent of both ledgers.
var Address = tst.NewCondition("instrument", "account", []byte("tst")).Address()

// State is the mutable state of the instrument.
type State struct {
	// FreeCollateral is the collateral not reserved for any claim. It is
	// owned by the guarantors.
	FreeCollateral uint64
	// DepositedCollateral is all collateral the guarantors provided,
	// including rewards.
	DepositedCollateral uint64
	// BalanceLedger and ShareLedger are names of the token ledgers. Both
	// are empty until the instrument is bootstrapped.
	BalanceLedger string
	ShareLedger   string
	Proposal      Proposal
}

var _ orm.Model = (*State)(nil)

func (s *State) Marshal() ([]byte, error) {
	return tst.MarshalBinary(s)
}

func (s *State) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, s)
}

// Validate checks the solvency of the pool.
func (s *State) Validate() error {
	var errs error
	if s.FreeCollateral > s.DepositedCollateral {
		errs = errors.AppendField(errs, "FreeCollateral", errors.Wrapf(ErrInconsistentState,
			"free %d exceeds deposited %d", s.FreeCollateral, s.DepositedCollateral))
	}
	if (s.BalanceLedger == "") != (s.ShareLedger == "") {
		errs = errors.AppendField(errs, "ShareLedger", errors.Wrap(errors.ErrState, "both ledgers must be set"))
	}
	if s.Proposal == nil {
		errs = errors.AppendField(errs, "Proposal", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Proposal", s.Proposal.Validate())
	}
	return errs
}

// Bootstrapped returns true once both ledgers are known.
func (s *State) Bootstrapped() bool {
	return s.BalanceLedger != "" && s.ShareLedger != ""
}

// Proposal is the governance slot. It holds either NoProposal or Voting.
type Proposal interface {
	// Window returns the block height at which the last proposal was
	// made and the number of blocks it accepted votes. A zero level
	// means that there never was a proposal.
	Window() (level, duration int64)
	Validate() error
}

// NoProposal is the state of the governance when no vote is open. It
// remembers the window of the last proposal.
type NoProposal struct {
	Level    int64
	Duration int64
}

func (p *NoProposal) Window() (int64, int64) {
	return p.Level, p.Duration
}

func (p *NoProposal) Validate() error {
	if p.Level < 0 || p.Duration < 0 {
		return errors.Wrap(errors.ErrState, "negative window")
	}
	return nil
}

// Voting is an open proposal to change the delegate to Validator.
type Voting struct {
	Level     int64
	Duration  int64
	Validator tst.Address
	Votes     []Vote
}

func (p *Voting) Window() (int64, int64) {
	return p.Level, p.Duration
}

func (p *Voting) Validate() error {
	var errs error
	if p.Level <= 0 {
		errs = errors.AppendField(errs, "Level", errors.Wrap(errors.ErrState, "must be positive"))
	}
	if p.Duration <= 0 {
		errs = errors.AppendField(errs, "Duration", errors.Wrap(errors.ErrState, "must be positive"))
	}
	errs = errors.AppendField(errs, "Validator", p.Validator.Validate())
	for i, v := range p.Votes {
		errs = errors.AppendField(errs, fmt.Sprintf("Votes.%d.Voter", i), v.Voter.Validate())
	}
	return errs
}

// Vote records the decision of a single guarantor and the share balance
// held when the vote was cast.
type Vote struct {
	Voter  tst.Address
	Weight uint64
	Yes    bool
}

// vote records the vote of given voter, replacing a previous one.
func (p *Voting) vote(v Vote) {
	for i := range p.Votes {
		if p.Votes[i].Voter.Equals(v.Voter) {
			p.Votes[i] = v
			return
		}
	}
	p.Votes = append(p.Votes, v)
}

var stateBucket = orm.NewModelBucket("instrument")

var stateKey = []byte("state")

func loadState(db tst.ReadOnlyKVStore) (*State, error) {
	var s State
	if err := stateBucket.One(db, stateKey, &s); err != nil {
		return nil, errors.Wrap(err, "instrument state")
	}
	return &s, nil
}

func saveState(db tst.KVStore, s *State) error {
	return stateBucket.Put(db, stateKey, s)
}
