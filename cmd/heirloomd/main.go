package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/app"
	hlapp "github.com/iov-one/heirloom/cmd/heirloomd/app"
	"github.com/iov-one/heirloom/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func helpMessage() {
	fmt.Fprintln(os.Stderr, `heirloomd
        Wallet inheritance ABCI application

help            Print this message
start           Run the abci server
check-genesis   Load a genesis file into a fresh application
version         Print the app version`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "heirloom")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Missing command:")
		helpMessage()
		os.Exit(1)
	}

	var err error
	switch cmd, rest := flag.Arg(0), flag.Args()[1:]; cmd {
	case "help":
		helpMessage()
	case "start":
		err = startCmd(logger, rest)
	case "check-genesis":
		err = checkGenesisCmd(logger, rest)
	case "version":
		fmt.Println(heirloom.Version())
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		helpMessage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func startCmd(logger log.Logger, args []string) error {
	fl := flag.NewFlagSet("start", flag.ExitOnError)
	addr := fl.String("bind", "tcp://localhost:26658", "address server listens on")
	debug := fl.Bool("debug", false, "call stack returned on error")
	if err := fl.Parse(args); err != nil {
		return err
	}

	application, _ := hlapp.Application(logger, *debug)

	logger.Info("Starting ABCI app", "bind", *addr)
	svr, err := server.NewServer(*addr, "socket", application)
	if err != nil {
		return errors.Wrap(err, "cannot create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start server")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Stopping ABCI app")
	return svr.Stop()
}

func checkGenesisCmd(logger log.Logger, args []string) error {
	fl := flag.NewFlagSet("check-genesis", flag.ExitOnError)
	path := fl.String("genesis", "genesis.json", "genesis file to load")
	if err := fl.Parse(args); err != nil {
		return err
	}

	gen, err := app.LoadGenesis(*path)
	if err != nil {
		return err
	}
	state, err := json.Marshal(gen.AppState)
	if err != nil {
		return errors.Wrap(err, "cannot serialize app state")
	}
	application, _ := hlapp.Application(logger, true)
	if err := initChain(application, gen.ChainID, state); err != nil {
		return err
	}
	logger.Info("Genesis loaded", "chain_id", application.GetChainID())
	return nil
}

// initChain converts the InitChain panic into an error.
func initChain(a abci.Application, chainID string, state []byte) (err error) {
	defer errors.Recover(&err)
	a.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: state})
	return nil
}
