package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind   *Error
		err    error
		wantIs bool
	}{
		"instance of the same error": {
			kind:   ErrNotFound,
			err:    ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			kind:   ErrNotFound,
			err:    ErrModel,
			wantIs: false,
		},
		"wrapped error": {
			kind:   ErrNotFound,
			err:    Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"wrapped with pkg errors": {
			kind:   ErrNotFound,
			err:    errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"wrapped different error": {
			kind:   ErrNotFound,
			err:    Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"stdlib error": {
			kind:   ErrNotFound,
			err:    fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"nil is nil": {
			kind:   nil,
			err:    nil,
			wantIs: true,
		},
		"nil is not not-nil": {
			kind:   nil,
			err:    ErrNotFound,
			wantIs: false,
		},
		"not-nil is not nil": {
			kind:   ErrNotFound,
			err:    nil,
			wantIs: false,
		},
		"multi error containing the kind": {
			kind:   ErrState,
			err:    Append(ErrNotFound, Wrap(ErrState, "bad")),
			wantIs: true,
		},
		"field error": {
			kind:   ErrEmpty,
			err:    Field("Name", ErrEmpty, "required"),
			wantIs: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantIs {
				t.Fatalf("want %v, got %v", tc.wantIs, got)
			}
		})
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("registering a used code must panic")
		}
	}()
	Register(ErrNotFound.Code(), "another not found")
}

func TestCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint32
	}{
		"nil":            {err: nil, want: 0},
		"root":           {err: ErrAmount, want: ErrAmount.Code()},
		"wrapped":        {err: Wrap(Wrap(ErrExpired, "a"), "b"), want: ErrExpired.Code()},
		"stdlib":         {err: stdlib.New("x"), want: 1},
		"wrapped stdlib": {err: Wrap(stdlib.New("x"), "y"), want: 1},
		"multi":          {err: Append(ErrInput, ErrState), want: ErrInput.Code()},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
	if got := Redact(err); got != ErrPanic {
		t.Fatalf("redacted error must be the root, got %v", got)
	}
}

func TestWrapAttachesStackOnce(t *testing.T) {
	err := Wrap(Wrap(ErrHuman, "inner"), "outer")
	if stackTrace(err) == nil {
		t.Fatal("missing stack trace")
	}
	if got := fmt.Sprintf("%+v", err); !strings.Contains(got, "TestWrapAttachesStackOnce") {
		t.Fatalf("stack trace does not point to the test: %s", got)
	}
	if Wrap(nil, "nothing") != nil {
		t.Fatal("wrapping nil must return nil")
	}
}
