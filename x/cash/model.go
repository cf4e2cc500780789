package cash

import (
	"math"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/orm"
)

// Wallet is the native value held by a single account, in base units.
type Wallet struct {
	Balance uint64
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return tst.MarshalBinary(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, w)
}

// Validate always succeeds. Any unsigned balance is a valid balance.
func (w *Wallet) Validate() error {
	return nil
}

// Add increases the balance. It fails without modifying the wallet if the
// result cannot be represented.
func (w *Wallet) Add(amount uint64) error {
	if amount > math.MaxUint64-w.Balance {
		return errors.Wrap(errors.ErrOverflow, "wallet balance")
	}
	w.Balance += amount
	return nil
}

// Subtract decreases the balance. It fails without modifying the wallet if
// the balance is lower than the amount.
func (w *Wallet) Subtract(amount uint64) error {
	if w.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientBalance, "balance %d, required %d", w.Balance, amount)
	}
	w.Balance -= amount
	return nil
}

// Bucket stores wallets by account address.
type Bucket struct {
	b orm.ModelBucket
}

// NewBucket returns a bucket for managing wallets.
func NewBucket() Bucket {
	return Bucket{b: orm.NewModelBucket("cash")}
}

// GetOrCreate returns the wallet of given account. An account that was
// never funded has an empty wallet.
func (b Bucket) GetOrCreate(db tst.ReadOnlyKVStore, addr tst.Address) (*Wallet, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	var w Wallet
	switch err := b.b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// Save writes the wallet of given account.
func (b Bucket) Save(db tst.KVStore, addr tst.Address, w *Wallet) error {
	return b.b.Put(db, addr, w)
}
