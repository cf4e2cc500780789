package app

import (
	"io"

	"github.com/iov-one/tst/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// NewLogger returns a logger writing to w that drops entries below given
// level. Level is one of "debug", "info", "error" or "none".
func NewLogger(w io.Writer, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(w)), opt), nil
}
