package cash

import (
	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

// Controller is the functionality needed by extensions that accept or pay
// out native value.
type Controller interface {
	Balance(db tst.ReadOnlyKVStore, addr tst.Address) (uint64, error)
	MoveCoins(db tst.KVStore, src, dest tst.Address, amount uint64) error
	IssueCoins(db tst.KVStore, dest tst.Address, amount uint64) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the default wallet
// bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the value held by given account.
func (c BaseController) Balance(db tst.ReadOnlyKVStore, addr tst.Address) (uint64, error) {
	w, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// MoveCoins moves the given amount from src to dest. If src does not hold
// enough value, it fails. Moving zero is a no-op.
func (c BaseController) MoveCoins(db tst.KVStore, src, dest tst.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInvalidDestination, "source and destination are the same")
	}
	sender, err := c.bucket.GetOrCreate(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

// IssueCoins adds the given amount to the destination account. Fails if it
// overflows the wallet. Only the genesis should create value.
func (c BaseController) IssueCoins(db tst.KVStore, dest tst.Address, amount uint64) error {
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}
