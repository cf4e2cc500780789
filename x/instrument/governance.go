package instrument

import (
	"context"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

// Outcome describes what a governance call did.
type Outcome int

const (
	// Voted means that a vote was recorded.
	Voted Outcome = iota
	// Proposed means that a new proposal was opened.
	Proposed
	// DelegateChanged means that the delegate was changed, either by a
	// majority holder or by a successful vote.
	DelegateChanged
	// Rejected means that a closed proposal did not pass.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Voted:
		return "voted"
	case Proposed:
		return "proposed"
	case DelegateChanged:
		return "delegate changed"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

func height(ctx context.Context) (int64, error) {
	h, ok := tst.GetHeight(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "block height not present in the context")
	}
	return h, nil
}

// ProposeDelegate proposes to delegate to given validator. A guarantor
// holding the majority of shares changes the delegate right away. Anyone
// else opens a vote, with the proposer voting yes.
//
// A new proposal cannot be made while the last one accepts votes or can
// still be applied. A proposal that was never applied is dropped once its
// application window passed.
func (k Keeper) ProposeDelegate(ctx context.Context, db tst.KVStore, caller, validator tst.Address) (Outcome, error) {
	in, err := k.load(db)
	if err != nil {
		return 0, err
	}
	h, err := height(ctx)
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
	level, duration := in.state.Proposal.Window()
	if level != 0 && h >= level && h < level+duration+in.conf.ApplicationWindow {
		return 0, errors.Wrapf(ErrProposalActive, "proposal made at %d", level)
	}
	total, err := in.share.TotalSupply(db)
	if err != nil {
		return 0, err
	}

	if in.conf.MajorityThreshold.Reached(held, total) {
		if err := k.validators.SetDelegate(db, Address, validator, h); err != nil {
			return 0, errors.Wrap(err, "set delegate")
		}
		// A stale proposal cannot be applied anymore.
		in.state.Proposal = &NoProposal{Level: level, Duration: duration}
		if err := saveState(db, in.state); err != nil {
			return 0, err
		}
		return DelegateChanged, nil
	}

	in.state.Proposal = &Voting{
		Level:     h,
		Duration:  in.conf.VotingPeriod,
		Validator: validator,
		Votes:     []Vote{{Voter: caller, Weight: held, Yes: true}},
	}
	if err := saveState(db, in.state); err != nil {
		return 0, err
	}
	return Proposed, nil
}

// ApplyProposal votes on the open proposal. The first call made after the
// voting period closes the proposal instead: votes are counted and the
// delegate is changed if the proposal passed.
//
// Each vote counts with the average of the share balance held when voting
// and the balance held when counting.
func (k Keeper) ApplyProposal(ctx context.Context, db tst.KVStore, caller tst.Address, yes bool) (Outcome, error) {
	in, err := k.load(db)
	if err != nil {
		return 0, err
	}
	h, err := height(ctx)
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
	voting, ok := in.state.Proposal.(*Voting)
	if !ok {
		return 0, errors.Wrap(ErrNoProposal, "nothing to vote on")
	}

	if h < voting.Level+voting.Duration {
		voting.vote(Vote{Voter: caller, Weight: held, Yes: yes})
		if err := saveState(db, in.state); err != nil {
			return 0, err
		}
		return Voted, nil
	}

	passed, err := k.tally(db, in, voting)
	if err != nil {
		return 0, err
	}
	in.state.Proposal = &NoProposal{Level: voting.Level, Duration: voting.Duration}
	if err := saveState(db, in.state); err != nil {
		return 0, err
	}
	if !passed {
		return Rejected, nil
	}
	if err := k.validators.SetDelegate(db, Address, voting.Validator, h); err != nil {
		return 0, errors.Wrap(err, "set delegate")
	}
	return DelegateChanged, nil
}

// tally returns true if the proposal reached the quorum and the margin.
func (k Keeper) tally(db tst.ReadOnlyKVStore, in *instance, voting *Voting) (bool, error) {
	var yea, nay uint64
	for _, v := range voting.Votes {
		live, err := in.share.Balance(db, v.Voter)
		if err != nil {
			return false, err
		}
		weight := average(v.Weight, live)
		if v.Yes {
			yea, err = add(yea, weight)
		} else {
			nay, err = add(nay, weight)
		}
		if err != nil {
			return false, err
		}
	}
	total, err := in.share.TotalSupply(db)
	if err != nil {
		return false, err
	}
	turnout, err := add(yea, nay)
	if err != nil {
		return false, err
	}
	if !in.conf.Quorum.Exceeded(turnout, total) {
		return false, nil
	}
	return yea >= nay && in.conf.MinMargin.Reached(yea-nay, total), nil
}
