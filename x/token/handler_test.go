package token

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/store"
	"github.com/iov-one/tst/weavetest"
	"github.com/iov-one/tst/weavetest/assert"
)

type router map[string]tst.Handler

func (r router) Handle(path string, h tst.Handler) { r[path] = h }

type queries map[string]tst.QueryHandler

func (q queries) RegisterQuery(path string, h tst.QueryHandler) { q[path] = h }

func TestHandlers(t *testing.T) {
	deployer := weavetest.NewCondition()
	parent := weavetest.NewCondition()
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()

	genesis := fmt.Sprintf(`{"token": [
		{"name": "balance", "deployer": %q, "balances": [{"address": %q, "amount": 50}]}
	]}`, deployer.Address().String(), alice.Address().String())
	var opts tst.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	auth := &weavetest.CtxAuth{Key: "auth"}
	r := router{}
	RegisterRoutes(r, auth, NewController())

	steps := []struct {
		caller  tst.Condition
		msg     tst.Msg
		wantErr *errors.Error
	}{
		{caller: alice, msg: &MintMsg{Ledger: "balance", Destination: alice.Address(), Amount: 1}, wantErr: errors.ErrPrivileged},
		{caller: alice, msg: &BootstrapMsg{Ledger: "balance", Parent: alice.Address()}, wantErr: errors.ErrPrivileged},
		{caller: deployer, msg: &BootstrapMsg{Ledger: "balance", Parent: parent.Address()}},
		{caller: deployer, msg: &BootstrapMsg{Ledger: "balance", Parent: parent.Address()}, wantErr: errors.ErrAlreadyBootstrapped},
		{caller: parent, msg: &MintMsg{Ledger: "balance", Destination: alice.Address(), Amount: 100}},
		{caller: alice, msg: &ApproveMsg{Ledger: "balance", Spender: bob.Address(), Amount: 30}},
		{caller: bob, msg: &TransferMsg{Ledger: "balance", Source: alice.Address(), Destination: bob.Address(), Amount: 30}},
		{caller: bob, msg: &TransferMsg{Ledger: "balance", Source: alice.Address(), Destination: bob.Address(), Amount: 1}, wantErr: ErrInsufficientAllowance},
		{caller: parent, msg: &BurnMsg{Ledger: "balance", Source: bob.Address(), Amount: 10}},
		{caller: alice, msg: &TransferMsg{Ledger: "Bad Name", Source: alice.Address(), Destination: bob.Address(), Amount: 1}, wantErr: errors.ErrInput},
		{msg: &ApproveMsg{Ledger: "balance", Spender: bob.Address(), Amount: 1}, wantErr: errors.ErrUnauthorized},
	}
	for i, s := range steps {
		ctx := context.Background()
		if s.caller != nil {
			ctx = auth.SetConditions(ctx, s.caller)
		}
		tx := &weavetest.Tx{Msg: s.msg}
		h := r[s.msg.Path()]
		if _, err := h.Check(ctx, db, tx); err != nil && !s.wantErr.Is(err) {
			t.Fatalf("step %d check: %+v", i, err)
		}
		_, err := h.Deliver(ctx, db, tx)
		if !s.wantErr.Is(err) {
			t.Fatalf("step %d: want %v, got %+v", i, s.wantErr, err)
		}
	}

	q := queries{}
	RegisterQuery(q, NewController())
	balance := func(addr tst.Address) uint64 {
		req := ViewRequest{Ledger: "balance", View: ViewBalance, Args: []tst.Address{addr}}
		raw, err := req.Marshal()
		assert.Nil(t, err)
		res, err := q["token/view"].Query(context.Background(), db, raw)
		assert.Nil(t, err)
		var v ViewResult
		assert.Nil(t, v.Unmarshal(res))
		return v.Value
	}
	assert.Equal(t, uint64(120), balance(alice.Address()))
	assert.Equal(t, uint64(20), balance(bob.Address()))
}
