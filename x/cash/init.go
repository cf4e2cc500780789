package cash

import (
	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file. The address
// can be written in any of the supported address forms.
type GenesisAccount struct {
	Address tst.Address `json:"address"`
	Balance uint64      `json:"balance"`
}

// Initializer fulfils the tst.Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ tst.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis and save it to
// the database.
func (Initializer) FromGenesis(opts tst.Options, db tst.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := ctrl.IssueCoins(db, acct.Address, acct.Balance); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
