package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/store"
	"github.com/iov-one/tst/weavetest/assert"
)

type limits struct {
	Max uint64 `json:"max"`
}

func (l *limits) Marshal() ([]byte, error)   { return tst.MarshalBinary(l) }
func (l *limits) Unmarshal(raw []byte) error { return tst.UnmarshalBinary(raw, l) }

func (l *limits) Validate() error {
	if l.Max == 0 {
		return errors.Field("Max", errors.ErrAmount, "must be positive")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	var got limits
	assert.IsErr(t, errors.ErrNotFound, Load(db, "limits", &got))

	assert.FieldError(t, Save(db, "limits", &limits{}), "Max", errors.ErrAmount)

	assert.Nil(t, Save(db, "limits", &limits{Max: 7}))
	assert.Nil(t, Load(db, "limits", &got))
	assert.Equal(t, limits{Max: 7}, got)
}

func TestInitConfig(t *testing.T) {
	opts := tst.Options{
		"conf": json.RawMessage(`{"limits": {"max": 21}}`),
	}

	cases := map[string]struct {
		pkg     string
		prepare func(store.KVStore)
		wantErr *errors.Error
	}{
		"configuration loaded": {
			pkg: "limits",
		},
		"missing package": {
			pkg:     "other",
			wantErr: errors.ErrNotFound,
		},
		"configuration cannot be set twice": {
			pkg: "limits",
			prepare: func(db store.KVStore) {
				if err := Save(db, "limits", &limits{Max: 1}); err != nil {
					t.Fatalf("cannot save: %s", err)
				}
			},
			wantErr: errors.ErrDuplicate,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.prepare != nil {
				tc.prepare(db)
			}
			err := InitConfig(db, opts, tc.pkg, &limits{})
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			var got limits
			assert.Nil(t, Load(db, tc.pkg, &got))
			assert.Equal(t, uint64(21), got.Max)
		})
	}
}
