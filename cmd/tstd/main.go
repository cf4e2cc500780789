package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/iov-one/tst/app"
	"github.com/iov-one/tst/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	varHome     *string
	varLogLevel *string
	varMetrics  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".tstd")
	varHome = flag.String("home", defaultHome, "directory to store files under")
	varLogLevel = flag.String("log-level", "info", "lowest level of logged messages: debug, info, error or none")
	varMetrics = flag.String("metrics", "", "address to serve prometheus metrics on, for example :9102")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("tstd")
	fmt.Println("        Trustless Staking Token node")
	fmt.Println("")
	fmt.Println("help    Print this message")
	fmt.Println("init    Initialize the chain from a genesis file")
	fmt.Println("apply   Execute transactions read from stdin, one block per line")
	fmt.Println("state   Print the instrument configuration and state")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.tstd")
  -log-level string
        lowest level of logged messages (default "info")
  -metrics string
        address to serve prometheus metrics on`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	logger, err := app.NewLogger(os.Stderr, *varLogLevel)
	if err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}
	logger = logger.With("module", "tstd")

	var metrics *utils.Metrics
	if *varMetrics != "" {
		reg := prometheus.NewRegistry()
		if metrics, err = utils.NewMetrics(reg); err != nil {
			fmt.Printf("Error: %+v\n", err)
			os.Exit(1)
		}
		go func() {
			h := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
			if err := http.ListenAndServe(*varMetrics, h); err != nil {
				logger.Error("metrics server", "err", err)
			}
		}()
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]
	env := &env{home: *varHome, logger: logger, metrics: metrics}

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = env.initCmd(rest)
	case "apply":
		err = env.applyCmd(os.Stdin, os.Stdout)
	case "state":
		err = env.stateCmd(os.Stdout)
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
