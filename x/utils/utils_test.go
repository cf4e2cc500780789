package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/store"
	"github.com/iov-one/tst/weavetest"
	"github.com/iov-one/tst/weavetest/assert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

func TestSavepoint(t *testing.T) {
	key, value := []byte("free"), []byte("100")

	cases := map[string]struct {
		decorator  tst.Decorator
		check      bool
		handlerErr error
		wantStored bool
	}{
		"deliver success is written": {
			decorator:  NewSavepoint(),
			wantStored: true,
		},
		"deliver failure is discarded": {
			decorator:  NewSavepoint(),
			handlerErr: errors.ErrState,
			wantStored: false,
		},
		"check failure is discarded": {
			decorator:  NewSavepoint().OnCheck(),
			check:      true,
			handlerErr: errors.ErrAmount,
			wantStored: false,
		},
		"check without savepoint keeps the write": {
			decorator:  NewSavepoint(),
			check:      true,
			handlerErr: errors.ErrAmount,
			wantStored: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			h := &weavetest.Handler{
				WriteKey:   key,
				WriteValue: value,
				CheckErr:   tc.handlerErr,
				DeliverErr: tc.handlerErr,
			}
			handler := weavetest.Decorate(h, tc.decorator)
			tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/write"}}

			var err error
			if tc.check {
				_, err = handler.Check(context.Background(), db, tx)
			} else {
				_, err = handler.Deliver(context.Background(), db, tx)
			}
			if tc.handlerErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.handlerErr, err)
			}

			has, err := db.Has(key)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantStored, has)
		})
	}
}

type panicHandler struct{}

func (panicHandler) Check(context.Context, tst.KVStore, tst.Tx) (*tst.CheckResult, error) {
	panic("check")
}

func (panicHandler) Deliver(context.Context, tst.KVStore, tst.Tx) (*tst.DeliverResult, error) {
	panic("deliver")
}

func TestRecovery(t *testing.T) {
	handler := weavetest.Decorate(panicHandler{}, NewRecovery())
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/panic"}}
	db := store.MemStore()

	_, err := handler.Check(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = handler.Deliver(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrPanic, err)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := tst.WithLogger(context.Background(), logger)
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "instrument/deposit"}}
	db := store.MemStore()

	ok := weavetest.Decorate(&weavetest.Handler{DeliverResult: tst.DeliverResult{Log: "minted"}}, NewLogging())
	_, err := ok.Deliver(ctx, db, tx)
	assert.Nil(t, err)

	failing := weavetest.Decorate(&weavetest.Handler{DeliverErr: errors.ErrAmount}, NewLogging())
	_, err = failing.Deliver(ctx, db, tx)
	assert.IsErr(t, errors.ErrAmount, err)

	out := buf.String()
	for _, want := range []string{"minted", "path=instrument/deposit", "err="} {
		if !strings.Contains(out, want) {
			t.Errorf("log output does not contain %q:\n%s", want, out)
		}
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	assert.Nil(t, err)

	_, err = NewMetrics(reg)
	assert.IsErr(t, errors.ErrDuplicate, err)

	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "instrument/redeem"}}
	db := store.MemStore()
	ok := weavetest.Decorate(&weavetest.Handler{}, m)
	failing := weavetest.Decorate(&weavetest.Handler{DeliverErr: errors.ErrInsufficientBalance}, m)

	for i := 0; i < 3; i++ {
		_, _ = ok.Deliver(context.Background(), db, tx)
	}
	_, _ = failing.Deliver(context.Background(), db, tx)

	families, err := reg.Gather()
	assert.Nil(t, err)

	counts := make(map[string]float64)
	for _, f := range families {
		if f.GetName() != "tst_calls_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := make(map[string]string)
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			counts[labels["phase"]+" "+labels["path"]+" "+labels["code"]] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 3.0, counts["deliver instrument/redeem 0"])
	assert.Equal(t, 1.0, counts["deliver instrument/redeem 20"])
}
