package server

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/dealchain/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// parseFlags applies the start flags on top of the configuration.
func parseFlags(conf Config, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&conf.Bind, flagBind, conf.Bind, "address server listens on")
	startFlags.BoolVar(&conf.Debug, flagDebug, conf.Debug, "call stack returned on error")
	startFlags.StringVar(&conf.Metrics, flagMetrics, conf.Metrics, "address metrics are served on, empty to disable")
	if err := startFlags.Parse(args); err != nil {
		return conf, errors.Wrap(errors.ErrInput, err.Error())
	}
	return conf, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(string, log.Logger, bool) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI socket
// until the process is signaled to stop.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	conf, err := LoadConfig(home)
	if err != nil {
		return err
	}
	conf, err = parseFlags(conf, args)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, err := gen(home, logger, conf.Debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return errors.Wrap(err, "create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start abci server")
	}
	defer svr.Stop()

	if conf.Metrics != "" {
		metrics := &http.Server{Addr: conf.Metrics, Handler: promhttp.Handler()}
		go func() {
			logger.Info("Serving metrics", "addr", conf.Metrics)
			if err := metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
		defer metrics.Close()
	}

	// Wait forever
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("Stopping", "signal", s.String())
	return nil
}
