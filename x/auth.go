package x

import (
	"context"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of handlers,
// so we can plug in another authentication system.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled.
	GetConditions(context.Context) []tst.Condition
	// HasAddress checks if any condition matches this address.
	HasAddress(context.Context, tst.Address) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators.
func (m MultiAuth) GetConditions(ctx context.Context) []tst.Condition {
	var res []tst.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this.
func (m MultiAuth) HasAddress(ctx context.Context, addr tst.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first permission if any, otherwise nil.
func MainSigner(ctx context.Context, auth Authenticator) tst.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// Caller returns the address of the account that made the call. Every
// operation of the engine acts on behalf of exactly this account.
func Caller(ctx context.Context, auth Authenticator) (tst.Address, error) {
	signer := MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no caller")
	}
	return signer.Address(), nil
}

// HasAllAddresses returns true if all elements in required are also in
// context.
func HasAllAddresses(ctx context.Context, auth Authenticator, required []tst.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}
