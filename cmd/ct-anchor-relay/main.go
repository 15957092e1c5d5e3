// Package main provides a ct-anchor-relay binary
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pborman/getopt/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sigsum.org/sigsum-go/pkg/key"
	"sigsum.org/sigsum-go/pkg/log"

	"github.com/ct-anchor/relay-go/internal/anchor"
	"github.com/ct-anchor/relay-go/internal/config"
	"github.com/ct-anchor/relay-go/internal/ctlog"
	"github.com/ct-anchor/relay-go/internal/cursor"
	"github.com/ct-anchor/relay-go/internal/loglist"
	"github.com/ct-anchor/relay-go/internal/monitor"
	"github.com/ct-anchor/relay-go/internal/submit"
	"github.com/ct-anchor/relay-go/internal/tx"
)

var (
	gitCommit = "unknown"
)

func ParseFlags(c *config.Config) {
	help := false
	getopt.SetParameters("")
	getopt.FlagLong(&help, "help", '?', "Display help.")
	getopt.Parse()
	if help {
		getopt.PrintUsage(os.Stdout)
		os.Exit(0)
	}
}

func main() {
	var conf *config.Config

	// Read default values from the Config struct
	confFile, err := config.OpenConfigFile()
	if err != nil {
		log.Info("didn't find configuration file, using defaults: %v", err)
		conf = config.NewConfig()
	} else {
		conf, err = config.LoadConfig(confFile)
		if err != nil {
			log.Fatal("failed to parse config file: %v", err)
		}
	}

	// Allow flags to override them
	conf.ServerFlags(getopt.CommandLine)
	ParseFlags(conf)

	if len(conf.LogFile) > 0 {
		if err := log.SetLogFile(conf.LogFile); err != nil {
			log.Fatal("open log file failed: %v", err)
		}
	}
	if err := log.SetLevelFromString(conf.LogLevel); err != nil {
		log.Fatal("setup logging: %v", err)
	}
	log.Info("ct-anchor-relay git-commit %s", gitCommit)

	log.Debug("configuring ct-anchor-relay")
	mgr, endpoints, err := setupRelayFromFlags(conf)
	if err != nil {
		log.Fatal("setup relay: %v", err)
	}

	var wg sync.WaitGroup
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Debug("starting monitoring routine")
	errc := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := mgr.Run(ctx, endpoints)
		if err != nil {
			log.Error("monitoring failed: %v", err)
		}
		errc <- err
		log.Debug("monitoring routine shutdown")
		cancel() // must have monitoring running
	}()

	metricsMux := http.NewServeMux()
	log.Debug("adding prometheus handler to metrics mux, on path: /metrics")
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: conf.MetricsEndpoint, Handler: metricsMux}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("serving metrics on %v/metrics", conf.MetricsEndpoint)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("serve(metrics): %v", err)
		}
		log.Debug("metrics server shut down")
		cancel()
	}()

	<-ctx.Done()

	log.Debug("received shutdown signal")
	shutdownCtx, _ := context.WithTimeout(context.Background(), time.Second*60)

	log.Info("stopping metrics server, please wait...")
	metricsServer.Shutdown(shutdownCtx)
	log.Info("... done")

	wg.Wait()
	if err := <-errc; err != nil {
		os.Exit(1)
	}
}

// setupRelayFromFlags() sets up the relay manager and its monitored
// log set from the given configuration.
func setupRelayFromFlags(conf *config.Config) (*monitor.Manager, []ctlog.Endpoint, error) {
	signer, err := key.ReadPrivateKeyFile(conf.KeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("reading key file: %v", err)
	}

	var cursors cursor.Store
	switch conf.StateBackend {
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q, must be \"file\" (default), \"sqlite\", or \"ephemeral\"", conf.StateBackend)
	case "ephemeral":
		cursors = cursor.NewMemoryStore()
	case "file":
		if cursors, err = cursor.NewFileStore(conf.StatePath); err != nil {
			return nil, nil, err
		}
	case "sqlite":
		if cursors, err = cursor.NewSQLiteStore(conf.StatePath); err != nil {
			return nil, nil, err
		}
	}

	var anchorClient anchor.Client
	switch conf.Anchor.Backend {
	default:
		return nil, nil, fmt.Errorf("unknown anchor backend %q, must be \"trillian\" (default) or \"ephemeral\"", conf.Anchor.Backend)
	case "ephemeral":
		anchorClient = anchor.NewMemoryClient()
	case "trillian":
		if anchorClient, err = anchor.DialTrillian(conf.Anchor.RpcServer, conf.Timeout.Duration, conf.Anchor.TreeIDFile); err != nil {
			return nil, nil, err
		}
	}

	endpoints, err := monitoredLogs(conf)
	if err != nil {
		return nil, nil, err
	}

	hc := &http.Client{Timeout: conf.Timeout.Duration}
	userAgent := fmt.Sprintf("ct-anchor-relay/%s", gitCommit)
	mgr := &monitor.Manager{
		Cursors: cursors,
		Signer:  tx.NewSigner(signer),
		Queue: submit.New(anchorClient, submit.Config{
			MaxAttempts:   conf.MaxAttempts,
			BackoffBase:   conf.BackoffBase.Duration,
			BackoffMax:    conf.BackoffMax.Duration,
			SubmitTimeout: conf.Timeout.Duration,
		}),
		Config: monitor.Config{
			Interval:    conf.Interval.Duration,
			MaxRange:    conf.MaxRange,
			Checkpoints: conf.AnchorCheckpoints,
		},
		NewClient: func(ep ctlog.Endpoint) (ctlog.Client, error) {
			return ctlog.NewHTTPClient(ep, hc, userAgent)
		},
	}
	return mgr, endpoints, nil
}

// monitoredLogs() assembles the monitored log set: the static [[logs]]
// entries when given, otherwise discovery from the public log list.
func monitoredLogs(conf *config.Config) ([]ctlog.Endpoint, error) {
	if len(conf.Logs) > 0 {
		var eps []ctlog.Endpoint
		for _, l := range conf.Logs {
			ep, err := ctlog.NewEndpoint(l.URL, l.PublicKey)
			if err != nil {
				return nil, fmt.Errorf("log %q: %v", l.URL, err)
			}
			eps = append(eps, ep)
		}
		return eps, nil
	}

	if len(conf.LogList.Operators) == 0 {
		return nil, fmt.Errorf("no [[logs]] configured and no log-list operators to discover from")
	}
	source := &loglist.Source{
		URL:       conf.LogList.URL,
		Operators: conf.LogList.Operators,
		TTL:       conf.LogList.RefreshInterval.Duration,
		Client:    &http.Client{Timeout: conf.Timeout.Duration},
	}
	ctx, cancel := context.WithTimeout(context.Background(), conf.Timeout.Duration)
	defer cancel()
	eps, err := source.Endpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering logs: %v", err)
	}
	if len(eps) == 0 {
		return nil, fmt.Errorf("log list has no usable logs for operators %v", conf.LogList.Operators)
	}
	log.Info("discovered %d usable logs for operators %v", len(eps), conf.LogList.Operators)
	return eps, nil
}
