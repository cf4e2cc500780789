package instrument

import (
	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/x/token"
)

// Ledger is everything the instrument needs from a token ledger. Mint and
// burn are made on behalf of the instrument account.
type Ledger interface {
	Mint(db tst.KVStore, to tst.Address, amount uint64) error
	Burn(db tst.KVStore, from tst.Address, amount uint64) error
	Balance(db tst.ReadOnlyKVStore, holder tst.Address) (uint64, error)
	TotalSupply(db tst.ReadOnlyKVStore) (uint64, error)
}

// tokenLedger calls a named ledger of the token extension.
type tokenLedger struct {
	ctrl token.Controller
	name string
}

var _ Ledger = tokenLedger{}

func (l tokenLedger) Mint(db tst.KVStore, to tst.Address, amount uint64) error {
	return l.ctrl.Mint(db, l.name, Address, to, amount)
}

func (l tokenLedger) Burn(db tst.KVStore, from tst.Address, amount uint64) error {
	return l.ctrl.Burn(db, l.name, Address, from, amount)
}

func (l tokenLedger) Balance(db tst.ReadOnlyKVStore, holder tst.Address) (uint64, error) {
	return l.view(db, token.ViewBalance, holder)
}

func (l tokenLedger) TotalSupply(db tst.ReadOnlyKVStore) (uint64, error) {
	return l.view(db, token.ViewTotalSupply)
}

// view calls a ledger view and decodes its response. A response that is
// not a view result means the ledger speaks a different protocol.
func (l tokenLedger) view(db tst.ReadOnlyKVStore, name string, args ...tst.Address) (uint64, error) {
	raw, err := l.ctrl.View(db, l.name, name, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "%s of %q", name, l.name)
	}
	var res token.ViewResult
	if err := res.Unmarshal(raw); err != nil {
		return 0, errors.Wrapf(ErrIncompatibleView, "%s of %q: %s", name, l.name, err)
	}
	return res.Value, nil
}
