package token

import (
	"math"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

// View names understood by Controller.View.
const (
	ViewBalance     = "getBalance"
	ViewTotalSupply = "getTotalSupply"
	ViewAllowance   = "getAllowance"
)

// Controller is the full ledger interface. Every state changing method
// takes the caller of the operation and enforces its permissions.
type Controller interface {
	Viewer

	Create(db tst.KVStore, name string, deployer tst.Address) error
	Bootstrap(db tst.KVStore, name string, caller, parent tst.Address) error
	Mint(db tst.KVStore, name string, caller, to tst.Address, amount uint64) error
	Burn(db tst.KVStore, name string, caller, from tst.Address, amount uint64) error
	Transfer(db tst.KVStore, name string, caller, src, dest tst.Address, amount uint64) error
	Approve(db tst.KVStore, name string, owner, spender tst.Address, amount uint64) error
}

// Viewer exposes the read-only side of the ledgers. The response is an
// encoded ViewResult.
type Viewer interface {
	View(db tst.ReadOnlyKVStore, name, view string, args ...tst.Address) ([]byte, error)
}

// ViewResult is the response of every ledger view.
type ViewResult struct {
	Value uint64
}

func (r *ViewResult) Marshal() ([]byte, error) {
	return tst.MarshalBinary(r)
}

func (r *ViewResult) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, r)
}

// BaseController is the default Controller implementation.
type BaseController struct{}

var _ Controller = BaseController{}

// NewController returns the ledger controller.
func NewController() BaseController {
	return BaseController{}
}

// Ledger loads the description of the ledger with given name.
func (BaseController) Ledger(db tst.ReadOnlyKVStore, name string) (*Ledger, error) {
	var l Ledger
	if err := ledgerBucket.One(db, []byte(name), &l); err != nil {
		return nil, errors.Wrapf(err, "ledger %q", name)
	}
	return &l, nil
}

// Create registers a new, not yet bootstrapped ledger.
func (c BaseController) Create(db tst.KVStore, name string, deployer tst.Address) error {
	switch err := ledgerBucket.Has(db, []byte(name)); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "ledger %q", name)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return ledgerBucket.Put(db, []byte(name), &Ledger{Name: name, Deployer: deployer})
}

// Bootstrap sets the parent of the ledger. Only the deployer can do it and
// only once.
func (c BaseController) Bootstrap(db tst.KVStore, name string, caller, parent tst.Address) error {
	l, err := c.Ledger(db, name)
	if err != nil {
		return err
	}
	if !caller.Equals(l.Deployer) {
		return errors.Wrap(errors.ErrPrivileged, "only the deployer can bootstrap")
	}
	if l.Bootstrapped() {
		return errors.Wrapf(errors.ErrAlreadyBootstrapped, "ledger %q", name)
	}
	if err := parent.Validate(); err != nil {
		return errors.Wrap(err, "parent")
	}
	l.Parent = parent
	return ledgerBucket.Put(db, []byte(name), l)
}

// Mint creates new tokens owned by the destination.
func (c BaseController) Mint(db tst.KVStore, name string, caller, to tst.Address, amount uint64) error {
	l, err := c.parentOnly(db, name, caller)
	if err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if amount > math.MaxUint64-l.TotalSupply {
		return errors.Wrap(errors.ErrOverflow, "total supply")
	}
	if err := c.credit(db, name, to, amount); err != nil {
		return err
	}
	l.TotalSupply += amount
	return ledgerBucket.Put(db, []byte(name), l)
}

// Burn destroys tokens owned by the source.
func (c BaseController) Burn(db tst.KVStore, name string, caller, from tst.Address, amount uint64) error {
	l, err := c.parentOnly(db, name, caller)
	if err != nil {
		return err
	}
	if err := c.debit(db, name, from, amount); err != nil {
		return err
	}
	l.TotalSupply -= amount
	return ledgerBucket.Put(db, []byte(name), l)
}

func (c BaseController) parentOnly(db tst.ReadOnlyKVStore, name string, caller tst.Address) (*Ledger, error) {
	l, err := c.Ledger(db, name)
	if err != nil {
		return nil, err
	}
	if !l.Bootstrapped() || !caller.Equals(l.Parent) {
		return nil, errors.Wrapf(errors.ErrPrivileged, "only the parent of %q can mint and burn", name)
	}
	return l, nil
}

// Transfer moves tokens from source to destination. When the caller is not
// the source, the transfer is paid from the allowance the source gave to
// the caller.
func (c BaseController) Transfer(db tst.KVStore, name string, caller, src, dest tst.Address, amount uint64) error {
	if _, err := c.Ledger(db, name); err != nil {
		return err
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInvalidDestination, "source and destination are the same")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if !caller.Equals(src) {
		key := allowanceKey(name, src, caller)
		allowed, err := loadAmount(db, allowanceBucket, key)
		if err != nil {
			return err
		}
		if allowed < amount {
			return errors.Wrapf(ErrInsufficientAllowance, "allowed %d, required %d", allowed, amount)
		}
		if err := saveAmount(db, allowanceBucket, key, allowed-amount); err != nil {
			return err
		}
	}
	if err := c.debit(db, name, src, amount); err != nil {
		return err
	}
	return c.credit(db, name, dest, amount)
}

// Approve sets the amount the spender can transfer on behalf of the owner.
func (c BaseController) Approve(db tst.KVStore, name string, owner, spender tst.Address, amount uint64) error {
	if _, err := c.Ledger(db, name); err != nil {
		return err
	}
	if owner.Equals(spender) {
		return errors.Wrap(errors.ErrInvalidDestination, "cannot approve self")
	}
	if err := spender.Validate(); err != nil {
		return errors.Wrap(err, "spender")
	}
	key := allowanceKey(name, owner, spender)
	current, err := loadAmount(db, allowanceBucket, key)
	if err != nil {
		return err
	}
	if current > 0 && amount > 0 {
		return errors.Wrapf(ErrUnsafeAllowance, "current allowance %d", current)
	}
	return saveAmount(db, allowanceBucket, key, amount)
}

// View answers one of the ledger views: getBalance(holder),
// getTotalSupply() or getAllowance(owner, spender).
func (c BaseController) View(db tst.ReadOnlyKVStore, name, view string, args ...tst.Address) ([]byte, error) {
	var value uint64
	switch view {
	case ViewBalance:
		if len(args) != 1 {
			return nil, errors.Wrapf(errors.ErrInput, "%s takes one argument", view)
		}
		if _, err := c.Ledger(db, name); err != nil {
			return nil, err
		}
		v, err := loadAmount(db, balanceBucket, balanceKey(name, args[0]))
		if err != nil {
			return nil, err
		}
		value = v
	case ViewTotalSupply:
		l, err := c.Ledger(db, name)
		if err != nil {
			return nil, err
		}
		value = l.TotalSupply
	case ViewAllowance:
		if len(args) != 2 {
			return nil, errors.Wrapf(errors.ErrInput, "%s takes two arguments", view)
		}
		if _, err := c.Ledger(db, name); err != nil {
			return nil, err
		}
		v, err := loadAmount(db, allowanceBucket, allowanceKey(name, args[0], args[1]))
		if err != nil {
			return nil, err
		}
		value = v
	default:
		return nil, errors.Wrapf(errors.ErrNotFound, "view %q", view)
	}
	res := ViewResult{Value: value}
	return res.Marshal()
}

func (c BaseController) credit(db tst.KVStore, name string, to tst.Address, amount uint64) error {
	key := balanceKey(name, to)
	balance, err := loadAmount(db, balanceBucket, key)
	if err != nil {
		return err
	}
	if amount > math.MaxUint64-balance {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	return saveAmount(db, balanceBucket, key, balance+amount)
}

func (c BaseController) debit(db tst.KVStore, name string, from tst.Address, amount uint64) error {
	key := balanceKey(name, from)
	balance, err := loadAmount(db, balanceBucket, key)
	if err != nil {
		return err
	}
	if balance < amount {
		return errors.Wrapf(errors.ErrInsufficientBalance, "balance %d, required %d", balance, amount)
	}
	return saveAmount(db, balanceBucket, key, balance-amount)
}
