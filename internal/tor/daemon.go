package tor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/tornago"
)

// DefaultStartupTimeout bounds the bootstrap of the daemon.
const DefaultStartupTimeout = 3 * time.Minute

// ErrNotRunning is returned by Route when the daemon has not been started.
var ErrNotRunning = errors.New("embedded Tor daemon is not running")

// Daemon manages an embedded Tor process.
// Bootstrapping usually takes one to three minutes.
type Daemon struct {
	process        *tornago.TorProcess
	socksAddr      string
	controlAddr    string
	startupTimeout time.Duration
	logger         *slog.Logger
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithStartupTimeout sets the maximum time to wait for Tor to bootstrap.
// Non-positive values keep the default.
func WithStartupTimeout(timeout time.Duration) Option {
	return func(d *Daemon) {
		if timeout > 0 {
			d.startupTimeout = timeout
		}
	}
}

// WithLogger sets the logger of the daemon. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Daemon) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDaemon creates a Daemon. Call Start to launch it.
func NewDaemon(opts ...Option) *Daemon {
	d := &Daemon{
		startupTimeout: DefaultStartupTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the daemon and blocks until it has bootstrapped.
func (d *Daemon) Start(ctx context.Context) error {
	launchCfg, err := tornago.NewTorLaunchConfig(
		tornago.WithTorSocksAddr(":0"),
		tornago.WithTorControlAddr(":0"),
		tornago.WithTorStartupTimeout(d.startupTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create Tor launch config: %w", err)
	}

	d.logger.Info("starting embedded Tor daemon", "timeout", d.startupTimeout)
	process, err := tornago.StartTorDaemon(launchCfg)
	if err != nil {
		return fmt.Errorf("failed to start embedded Tor daemon: %w", err)
	}

	if ctx.Err() != nil {
		_ = process.Stop() //nolint:errcheck // cancellation error takes precedence
		return ctx.Err()
	}

	d.process = process
	d.socksAddr = process.SocksAddr()
	d.controlAddr = process.ControlAddr()
	d.logger.Info("embedded Tor daemon started", "socks", d.socksAddr, "control", d.controlAddr)
	return nil
}

// Stop shuts the daemon down. It is safe on a stopped or unstarted Daemon.
func (d *Daemon) Stop() error {
	if d.process == nil {
		return nil
	}
	err := d.process.Stop()
	d.process = nil
	d.socksAddr = ""
	d.controlAddr = ""
	return err
}

// IsRunning reports whether the daemon has been started and not stopped.
func (d *Daemon) IsRunning() bool {
	return d.process != nil
}

// SocksAddr returns the host:port of the SOCKS listener, or "".
func (d *Daemon) SocksAddr() string {
	return d.socksAddr
}

// Route returns the egress route of the running daemon as a socks5 URL.
func (d *Daemon) Route() (string, error) {
	if !d.IsRunning() {
		return "", ErrNotRunning
	}
	return "socks5://" + d.socksAddr, nil
}
