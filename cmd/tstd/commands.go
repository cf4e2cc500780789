package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iov-one/tst"
	"github.com/iov-one/tst/app"
	tstd "github.com/iov-one/tst/cmd/tstd/app"
	"github.com/iov-one/tst/errors"
	"github.com/iov-one/tst/x/instrument"
	"github.com/iov-one/tst/x/utils"
	"github.com/jonboulle/clockwork"
	"github.com/tendermint/tendermint/libs/log"
)

type env struct {
	home    string
	logger  log.Logger
	metrics *utils.Metrics
	// clock defaults to the real clock.
	clock clockwork.Clock

	// app is opened once, the database cannot be opened twice.
	app *app.Application
}

func (e *env) application() (*app.Application, error) {
	if e.app != nil {
		return e.app, nil
	}
	a, err := tstd.Application(tstd.Options{
		DBPath:  filepath.Join(e.home, "data", "tst.db"),
		Logger:  e.logger,
		Clock:   e.clock,
		Metrics: e.metrics,
	})
	if err != nil {
		return nil, err
	}
	e.app = a
	return a, nil
}

// initCmd loads the genesis file and commits it as the first block.
func (e *env) initCmd(args []string) error {
	if len(args) != 1 {
		return errors.Wrap(errors.ErrInput, "usage: init <genesis file>")
	}
	gen, err := app.LoadGenesis(args[0])
	if err != nil {
		return err
	}
	a, err := e.application()
	if err != nil {
		return err
	}
	if err := a.InitChain(gen); err != nil {
		return err
	}
	if _, _, err := a.BeginBlock(); err != nil {
		return err
	}
	_, err = a.Commit()
	return err
}

// applyCmd reads amino JSON encoded transactions, one per line, and
// executes each of them in its own block. A failed transaction does not
// stop the processing.
func (e *env) applyCmd(in io.Reader, out io.Writer) error {
	a, err := e.application()
	if err != nil {
		return err
	}
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var tx app.Tx
		if err := tst.Codec.UnmarshalJSON([]byte(line), &tx); err != nil {
			return errors.Wrapf(errors.ErrInput, "decode %q: %s", line, err)
		}
		height, _, err := a.BeginBlock()
		if err != nil {
			return err
		}
		res, err := a.Deliver(&tx)
		if err != nil {
			fmt.Fprintf(out, "%d\t%s\terror %d: %s\n", height, tst.GetPath(&tx), errors.Code(err), err)
		} else {
			fmt.Fprintf(out, "%d\t%s\tok %X\n", height, tst.GetPath(&tx), res.Data)
		}
		if _, err := a.Commit(); err != nil {
			return err
		}
	}
	return s.Err()
}

// stateCmd prints the instrument configuration and state as JSON.
func (e *env) stateCmd(out io.Writer) error {
	a, err := e.application()
	if err != nil {
		return err
	}

	raw, err := a.Query("instrument/config", nil)
	if err != nil {
		return err
	}
	var conf instrument.Configuration
	if err := conf.Unmarshal(raw); err != nil {
		return err
	}
	schedule, err := instrument.NewSchedule(&conf)
	if err != nil {
		return err
	}
	// Print the normalized form of the rates.
	conf.Schedule = schedule.Rates()

	raw, err = a.Query("instrument/state", nil)
	if err != nil {
		return err
	}
	var state instrument.State
	if err := state.Unmarshal(raw); err != nil {
		return err
	}

	js, err := tst.Codec.MarshalJSONIndent(struct {
		Height int64
		Config instrument.Configuration
		State  instrument.State
	}{a.Height(), conf, state}, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = fmt.Fprintf(out, "%s\n", js)
	return err
}
