// Package daemonrun runs the streamsched daemon in the foreground until it is
// signalled. Both cmd/streamschedd and "streamsched serve" use it.
package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"streamsched/internal/config"
	"streamsched/internal/daemon"
	"streamsched/internal/fileutil"
	"streamsched/internal/kvstore"
	"streamsched/internal/logging"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides the configured level when set.
	LogLevel string
	// Bind overrides the configured API address when set.
	Bind string
}

// PIDFileName is written into the data directory while the daemon runs.
const PIDFileName = "streamschedd.pid"

// Run starts the daemon and blocks until ctx is cancelled or SIGINT/SIGTERM
// arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runCfg := *cfg
	if opts.LogLevel != "" {
		runCfg.Logging.Level = opts.LogLevel
	}
	if opts.Bind != "" {
		runCfg.Paths.APIBind = opts.Bind
	}

	if err := runCfg.EnsureDirectories(); err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(&runCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := filepath.Join(runCfg.Paths.DataDir, PIDFileName)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	kv, err := kvstore.Open(&runCfg)
	if err != nil {
		logger.Error("open snapshot database", logging.Error(err))
		return err
	}

	d, err := daemon.New(signalCtx, &runCfg, kv, logger)
	if err != nil {
		_ = kv.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed", logging.Error(err))
		return err
	}

	<-signalCtx.Done()
	logger.Info("streamsched daemon shutting down")
	return nil
}

// ReadPID returns the PID recorded by a running daemon.
func ReadPID(dataDir string) (int, bool) {
	data, err := os.ReadFile(filepath.Join(dataDir, PIDFileName))
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(string(trimNewline(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return fileutil.WriteFileAtomic(path, []byte(value), 0o644)
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
