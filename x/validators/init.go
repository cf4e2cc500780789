package validators

import (
	"context"

	"github.com/iov-one/tst"
)

const optKey = "validators"

// Initializer stores the registry of known validators declared in the
// genesis file. Without it any validator can be chosen.
type Initializer struct{}

var _ tst.Initializer = Initializer{}

func (Initializer) FromGenesis(opts tst.Options, db tst.KVStore) error {
	var reg Registry
	if err := opts.ReadOptions(optKey, &reg); err != nil {
		return err
	}
	if len(reg.Validators) == 0 {
		return nil
	}
	return registryBucket.Put(db, registryKey, &reg)
}

// RegisterQuery registers the "validators/delegate" query. The request is
// the raw account address, the response an encoded Delegation.
func RegisterQuery(qr tst.QueryRegistry, ctrl Controller) {
	qr.RegisterQuery("validators/delegate", delegateQuery{ctrl: ctrl})
}

type delegateQuery struct {
	ctrl Controller
}

func (q delegateQuery) Query(ctx context.Context, db tst.ReadOnlyKVStore, data []byte) ([]byte, error) {
	d, err := q.ctrl.Delegate(db, tst.Address(data))
	if err != nil {
		return nil, err
	}
	return d.Marshal()
}
