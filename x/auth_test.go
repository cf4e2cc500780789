package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/weavetest"
	"github.com/iov-one/tst/weavetest/assert"
	"github.com/iov-one/tst/x"
)

func TestChainAuth(t *testing.T) {
	a := weavetest.NewCondition()
	b := weavetest.NewCondition()
	c := weavetest.NewCondition()

	ctxAuth := &weavetest.CtxAuth{Key: "auth"}
	ctx := ctxAuth.SetConditions(context.Background(), b)
	auth := x.ChainAuth(&weavetest.Auth{Signer: a}, ctxAuth)

	assert.Equal(t, []tst.Condition{a, b}, auth.GetConditions(ctx))
	assert.Equal(t, true, auth.HasAddress(ctx, b.Address()))
	assert.Equal(t, false, auth.HasAddress(ctx, c.Address()))
	assert.Equal(t, true, x.HasAllAddresses(ctx, auth, []tst.Address{a.Address(), b.Address()}))
	assert.Equal(t, false, x.HasAllAddresses(ctx, auth, []tst.Address{a.Address(), c.Address()}))
}

func TestCaller(t *testing.T) {
	a := weavetest.NewCondition()
	ctx := context.Background()

	got, err := x.Caller(ctx, &weavetest.Auth{Signer: a})
	assert.Nil(t, err)
	assert.Equal(t, a.Address(), got)

	_, err = x.Caller(ctx, &weavetest.Auth{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}
