// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package agent runs the panier API server on top of the configured datastore.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/platform-engineering-labs/panier/internal/api"
	"github.com/platform-engineering-labs/panier/internal/datastore"
	"github.com/platform-engineering-labs/panier/internal/imconc"
	"github.com/platform-engineering-labs/panier/internal/logging"
	pkgmodel "github.com/platform-engineering-labs/panier/pkg/model"
)

const shutdownTimeout = 10 * time.Second

type Agent struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	cfg    *pkgmodel.Config
	id     string
}

func New(cfg *pkgmodel.Config, id string) *Agent {
	ctx, cancel := context.WithCancel(context.Background())
	return &Agent{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		cfg:    cfg,
		id:     id,
	}
}

// Start claims the pid file and serves the API in the background until Stop is
// called or the process receives SIGINT or SIGTERM.
func (a *Agent) Start() error {
	if pidFileExists() {
		return fmt.Errorf("agent appears to be already running (PID file exists)")
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	if err := writePid(); err != nil {
		signal.Stop(signals)
		return err
	}

	go func() {
		defer func() {
			signal.Stop(signals)
			a.cleanup()
			close(a.done)
		}()

		go func() {
			select {
			case sig := <-signals:
				slog.Info("Received signal", "signal", sig)
				a.cancel()
			case <-a.ctx.Done():
			}
		}()

		if err := a.run(); err != nil {
			slog.Error("Agent failed", "error", err)
		}
	}()

	return nil
}

func (a *Agent) run() error {
	logging.SetupBackendLogging(&a.cfg.Agent.Logging)
	slog.Info("Starting agent", "id", a.id, "datastore", a.cfg.Agent.Datastore.DatastoreType)

	metrics := api.NewMetrics()
	// set globally so query instrumentation and the postgres pool stats land on /metrics
	otel.SetMeterProvider(metrics.MeterProvider())
	defer metrics.Shutdown(context.Background())

	ds, err := datastore.New(a.ctx, &a.cfg.Agent.Datastore, datastore.WithMeterProvider(metrics.MeterProvider()))
	if err != nil {
		return fmt.Errorf("failed to create datastore: %w", err)
	}

	server := api.NewServer(a.ctx, ds, &a.cfg.Agent.Server, metrics)

	components := imconc.NewConcGroup().
		Add(imconc.RoutineFunc(func(bool) { ds.Close() })).
		Add(server)
	components.Go(server.Start)

	slog.Info("Agent started", "port", a.cfg.Agent.Server.Port)
	<-a.ctx.Done()

	stopped := make(chan struct{})
	go func() {
		components.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		ds.Close()
		slog.Info("Components stopped gracefully")
	case <-time.After(shutdownTimeout):
		slog.Warn("Shutdown timed out, forcing stop")
		components.Stop(true)
	}
	return nil
}

// Stop ends the agent owning the pid file. When that is this process the agent is
// cancelled directly, otherwise it is sent SIGTERM and, after a grace period, SIGKILL.
func (a *Agent) Stop() error {
	pid, err := readPid()
	if err != nil {
		return err
	}

	if pid == os.Getpid() {
		a.cancel()
		<-a.done
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			a.cleanup()
			return fmt.Errorf("agent is not running (stale PID file)")
		}
		return fmt.Errorf("failed to send signal to process: %w", err)
	}

	if awaitPidRemoval(shutdownTimeout) {
		return nil
	}

	slog.Warn("Agent did not stop after SIGTERM, sending SIGKILL", "pid", pid)
	if err := process.Signal(syscall.SIGKILL); err != nil {
		return fmt.Errorf("failed to SIGKILL process: %w", err)
	}

	// a killed agent cannot remove its own pid file
	a.cleanup()
	return nil
}

func (a *Agent) Wait() {
	<-a.done
}

func (a *Agent) cleanup() {
	if err := removePid(); err != nil {
		slog.Error("Failed to remove pid file", "error", err)
	}
}
