package token

import (
	"regexp"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/orm"
)

var isLedgerName = regexp.MustCompile(`^[a-z][a-z0-9_]{2,31}$`).MatchString

// LedgerAddress returns the account of the ledger with given name.
func LedgerAddress(name string) tst.Address {
	return tst.NewCondition("token", "ledger", []byte(name)).Address()
}

// Ledger describes a single fungible ledger.
type Ledger struct {
	Name     string
	Deployer tst.Address
	// Parent is the only account allowed to mint and burn. Empty until
	// the ledger is bootstrapped.
	Parent      tst.Address
	TotalSupply uint64
}

var _ orm.Model = (*Ledger)(nil)

func (l *Ledger) Marshal() ([]byte, error) {
	return tst.MarshalBinary(l)
}

func (l *Ledger) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, l)
}

func (l *Ledger) Validate() error {
	var errs error
	if !isLedgerName(l.Name) {
		errs = errors.AppendField(errs, "Name", errors.Wrapf(errors.ErrInput, "invalid name %q", l.Name))
	}
	errs = errors.AppendField(errs, "Deployer", l.Deployer.Validate())
	if len(l.Parent) != 0 {
		errs = errors.AppendField(errs, "Parent", l.Parent.Validate())
	}
	return errs
}

// Bootstrapped returns true once the parent was set.
func (l *Ledger) Bootstrapped() bool {
	return len(l.Parent) != 0
}

// Amount is a single stored quantity: a balance or an allowance.
type Amount struct {
	Value uint64
}

var _ orm.Model = (*Amount)(nil)

func (a *Amount) Marshal() ([]byte, error) {
	return tst.MarshalBinary(a)
}

func (a *Amount) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, a)
}

func (a *Amount) Validate() error {
	return nil
}

var (
	ledgerBucket    = orm.NewModelBucket("token")
	balanceBucket   = orm.NewModelBucket("token_balance")
	allowanceBucket = orm.NewModelBucket("token_allowance")
)

func balanceKey(ledger string, holder tst.Address) []byte {
	return append([]byte(ledger+"/"), holder...)
}

func allowanceKey(ledger string, owner, spender tst.Address) []byte {
	return append(balanceKey(ledger, owner), spender...)
}

// loadAmount returns the stored quantity or zero if none was stored.
func loadAmount(db tst.ReadOnlyKVStore, b orm.ModelBucket, key []byte) (uint64, error) {
	var a Amount
	switch err := b.One(db, key, &a); {
	case err == nil:
		return a.Value, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// saveAmount stores given quantity. Zero values are removed from the
// store.
func saveAmount(db tst.KVStore, b orm.ModelBucket, key []byte, value uint64) error {
	if value == 0 {
		if err := b.Delete(db, key); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	return b.Put(db, key, &Amount{Value: value})
}
