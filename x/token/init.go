package token

import (
	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

const optKey = "token"

// GenesisLedger describes a ledger created by the genesis.
type GenesisLedger struct {
	Name     string           `json:"name"`
	Deployer tst.Address      `json:"deployer"`
	Parent   tst.Address      `json:"parent,omitempty"`
	Balances []GenesisBalance `json:"balances,omitempty"`
}

// GenesisBalance is the initial balance of a single holder.
type GenesisBalance struct {
	Address tst.Address `json:"address"`
	Amount  uint64      `json:"amount"`
}

// Initializer creates ledgers declared in the genesis file.
type Initializer struct{}

var _ tst.Initializer = Initializer{}

// FromGenesis creates every declared ledger with its initial balances. A
// ledger with a parent is bootstrapped right away.
func (Initializer) FromGenesis(opts tst.Options, db tst.KVStore) error {
	var ledgers []GenesisLedger
	if err := opts.ReadOptions(optKey, &ledgers); err != nil {
		return err
	}
	ctrl := NewController()
	for _, gl := range ledgers {
		if err := ctrl.Create(db, gl.Name, gl.Deployer); err != nil {
			return errors.Wrapf(err, "ledger %q", gl.Name)
		}
		l, err := ctrl.Ledger(db, gl.Name)
		if err != nil {
			return err
		}
		for _, b := range gl.Balances {
			if err := b.Address.Validate(); err != nil {
				return errors.Wrapf(err, "ledger %q balance", gl.Name)
			}
			if err := ctrl.credit(db, gl.Name, b.Address, b.Amount); err != nil {
				return errors.Wrapf(err, "ledger %q balance", gl.Name)
			}
			if b.Amount > ^uint64(0)-l.TotalSupply {
				return errors.Wrapf(errors.ErrOverflow, "ledger %q total supply", gl.Name)
			}
			l.TotalSupply += b.Amount
		}
		if len(gl.Parent) != 0 {
			l.Parent = gl.Parent
		}
		if err := ledgerBucket.Put(db, []byte(gl.Name), l); err != nil {
			return errors.Wrapf(err, "ledger %q", gl.Name)
		}
	}
	return nil
}
