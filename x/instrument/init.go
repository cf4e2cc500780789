package instrument

import (
	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/gconf"
)

// Initializer loads the instrument configuration from the genesis and
// creates its empty state.
type Initializer struct{}

var _ tst.Initializer = Initializer{}

// FromGenesis expects the configuration under "conf"."instrument". A
// genesis without it does not deploy an instrument.
func (Initializer) FromGenesis(opts tst.Options, db tst.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, confPkg, &conf); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return errors.Wrap(err, "instrument")
	}
	state := State{Proposal: &NoProposal{}}
	if err := saveState(db, &state); err != nil {
		return errors.Wrap(err, "instrument state")
	}
	return nil
}
