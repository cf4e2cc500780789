package weavetest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/iov-one/tst"
)

var condSeq uint64

// NewCondition returns a unique condition that represents an account. Each
// call returns a different value.
func NewCondition() tst.Condition {
	n := atomic.AddUint64(&condSeq, 1)
	return tst.NewCondition("test", "seq", SequenceID(n))
}

// SequenceID returns the big endian encoding of given number, the same way
// sequences are encoded in keys.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
