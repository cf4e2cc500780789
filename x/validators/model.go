package validators

import (
	"fmt"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/orm"
)

// Delegation is the current delegate of an account.
type Delegation struct {
	Validator tst.Address
	// Height of the block in which the delegate was set.
	Height int64
}

var _ orm.Model = (*Delegation)(nil)

func (d *Delegation) Marshal() ([]byte, error) {
	return tst.MarshalBinary(d)
}

func (d *Delegation) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, d)
}

func (d *Delegation) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Validator", d.Validator.Validate())
	if d.Height < 0 {
		errs = errors.AppendField(errs, "Height", errors.ErrState)
	}
	return errs
}

// Registry is the set of validators that can be chosen as a delegate.
type Registry struct {
	Validators []tst.Address `json:"validators"`
}

var _ orm.Model = (*Registry)(nil)

func (r *Registry) Marshal() ([]byte, error) {
	return tst.MarshalBinary(r)
}

func (r *Registry) Unmarshal(raw []byte) error {
	return tst.UnmarshalBinary(raw, r)
}

func (r *Registry) Validate() error {
	var errs error
	for i, v := range r.Validators {
		errs = errors.AppendField(errs, fmt.Sprintf("Validators.%d", i), v.Validate())
	}
	return errs
}

// Has returns true if given validator is registered.
func (r *Registry) Has(v tst.Address) bool {
	for _, a := range r.Validators {
		if a.Equals(v) {
			return true
		}
	}
	return false
}

var (
	delegationBucket = orm.NewModelBucket("delegation")
	registryBucket   = orm.NewModelBucket("validators")
)

var registryKey = []byte("registry")
