package tst

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/tst/errors"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextHeight(t *testing.T) {
	ctx := context.Background()
	if _, ok := GetHeight(ctx); ok {
		t.Fatal("height must not be set")
	}
	ctx = WithHeight(ctx, 17)
	if h, ok := GetHeight(ctx); !ok || h != 17 {
		t.Fatalf("unexpected height: %d, %v", h, ok)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("overwriting height must panic")
		}
	}()
	WithHeight(ctx, 18)
}

func TestContextBlockTime(t *testing.T) {
	ctx := context.Background()
	if _, err := BlockTime(ctx); !errors.ErrHuman.Is(err) {
		t.Fatalf("missing block time must be a coding error, got %v", err)
	}

	now := time.Unix(1500000000, 0)
	ctx = WithBlockTime(ctx, now)
	got, err := BlockTime(ctx)
	if err != nil {
		t.Fatalf("cannot get block time: %s", err)
	}
	if !got.Equal(now) {
		t.Fatalf("want %s, got %s", now, got)
	}
	if !IsExpired(ctx, AsUnixTime(now)) {
		t.Fatal("expiration is inclusive")
	}
	if IsExpired(ctx, AsUnixTime(now)+1) {
		t.Fatal("future time is not expired")
	}
}

func TestContextChainID(t *testing.T) {
	ctx := WithChainID(context.Background(), "test-chain")
	if got := GetChainID(ctx); got != "test-chain" {
		t.Fatalf("unexpected chain id: %q", got)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("invalid chain id must panic")
		}
	}()
	WithChainID(context.Background(), "x")
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	if GetLogger(ctx) != DefaultLogger {
		t.Fatal("default logger expected")
	}
	logger := log.NewNopLogger()
	ctx = WithLogger(ctx, logger)
	if GetLogger(ctx) != logger {
		t.Fatal("logger not set")
	}
	ctx = WithLogInfo(ctx, "mod", "test")
	if GetLogger(ctx) == nil {
		t.Fatal("logger lost")
	}
}
