package validators

import (
	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

// Controller changes and reads the delegate of an account.
type Controller interface {
	SetDelegate(db tst.KVStore, account, validator tst.Address, height int64) error
	Delegate(db tst.ReadOnlyKVStore, account tst.Address) (*Delegation, error)
}

// BaseController is the default Controller implementation.
type BaseController struct{}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation.
func NewController() BaseController {
	return BaseController{}
}

// SetDelegate sets the validator that given account delegates to. When a
// registry of validators exists, the validator must be part of it.
func (BaseController) SetDelegate(db tst.KVStore, account, validator tst.Address, height int64) error {
	if err := account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	var reg Registry
	switch err := registryBucket.One(db, registryKey, &reg); {
	case err == nil:
		if !reg.Has(validator) {
			return errors.Wrapf(errors.ErrNotFound, "validator %s", validator)
		}
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return delegationBucket.Put(db, account, &Delegation{Validator: validator, Height: height})
}

// Delegate returns the current delegate of given account. It returns
// ErrNotFound if the account never delegated.
func (BaseController) Delegate(db tst.ReadOnlyKVStore, account tst.Address) (*Delegation, error) {
	var d Delegation
	if err := delegationBucket.One(db, account, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
