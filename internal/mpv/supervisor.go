package mpv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/tessro/tunewave/internal/config"
	"github.com/tessro/tunewave/internal/core"
	twerrors "github.com/tessro/tunewave/internal/errors"
)

const (
	probeTimeout = 200 * time.Millisecond
	stopGrace    = 2 * time.Second
)

var errExited = errors.New("renderer exited")

// Supervisor starts mpv once and tracks whether it is still alive.
type Supervisor struct {
	binary       string
	socket       string
	extraArgs    []string
	readyTimeout time.Duration
	stopOnExit   bool
	log          zerolog.Logger

	// newCmd is replaced in tests.
	newCmd func(name string, arg ...string) *exec.Cmd

	mu       sync.Mutex
	cmd      *exec.Cmd
	started  bool
	attached bool
	exited  chan struct{}
	exitErr error
}

// NewSupervisor creates a supervisor for the configured renderer.
func NewSupervisor(cfg config.PlayerConfig, log zerolog.Logger) *Supervisor {
	return &Supervisor{
		binary:       cfg.Binary,
		socket:       cfg.Socket,
		extraArgs:    cfg.ExtraArgs,
		readyTimeout: cfg.ReadyDeadline(),
		stopOnExit:   cfg.StopOnExit,
		log:          log,
		newCmd:       exec.Command,
	}
}

// Args returns the renderer command line, without the binary.
func (s *Supervisor) Args() []string {
	args := []string{
		"--no-video",
		"--idle=yes",
		"--input-ipc-server=" + s.socket,
	}
	return append(args, s.extraArgs...)
}

// EnsureRunning starts the renderer if this supervisor has not already
// done so, then waits for its socket to accept connections. A renderer that
// is slow to come up is only logged; the first commands may fail until it
// is ready.
//
// If the socket already accepts connections, a renderer left running by an
// earlier start is adopted instead of spawning a second one. Only a socket
// that refuses connections is treated as stale and removed.
func (s *Supervisor) EnsureRunning(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	if socketAlive(s.socket) {
		s.started = true
		s.attached = true
		s.mu.Unlock()
		s.log.Info().Str("socket", s.socket).Msg("attached to running renderer")
		return nil
	}

	if err := os.Remove(s.socket); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.mu.Unlock()
		return fmt.Errorf("remove stale socket %s: %w", s.socket, err)
	}

	cmd := s.newCmd(s.binary, s.Args()...)
	if err := cmd.Start(); err != nil {
		s.mu.Unlock()
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s: %v", twerrors.ErrRendererNotFound, s.binary, err)
		}
		return fmt.Errorf("start %s: %w", s.binary, err)
	}

	exited := make(chan struct{})
	s.cmd = cmd
	s.started = true
	s.exited = exited
	s.mu.Unlock()

	s.log.Info().
		Str("binary", s.binary).
		Str("socket", s.socket).
		Int("pid", cmd.Process.Pid).
		Msg("renderer started")

	go s.reap(cmd, exited)

	start := time.Now()
	if err := s.waitReady(ctx, exited); err != nil {
		s.log.Warn().Err(err).Dur("waited", time.Since(start)).Msg("renderer not accepting connections yet")
		return nil
	}
	s.log.Debug().Dur("waited", time.Since(start)).Msg("renderer ready")
	return nil
}

func (s *Supervisor) reap(cmd *exec.Cmd, exited chan struct{}) {
	err := cmd.Wait()

	s.mu.Lock()
	s.exitErr = err
	s.mu.Unlock()
	close(exited)

	if err != nil {
		s.log.Warn().Err(err).Msg("renderer exited")
		return
	}
	s.log.Info().Msg("renderer exited")
}

func (s *Supervisor) waitReady(ctx context.Context, exited <-chan struct{}) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 25 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = s.readyTimeout

	probe := func() error {
		select {
		case <-exited:
			return backoff.Permanent(errExited)
		default:
		}
		conn, err := net.DialTimeout("unix", s.socket, probeTimeout)
		if err != nil {
			return err
		}
		return conn.Close()
	}

	return backoff.Retry(probe, backoff.WithContext(b, ctx))
}

func socketAlive(path string) bool {
	conn, err := net.DialTimeout("unix", path, probeTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Stop terminates the renderer when stop_on_exit is set and removes its
// socket. Otherwise the renderer is left running and the next start attaches
// to it. An adopted renderer is never stopped.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	cmd, exited := s.cmd, s.exited
	s.mu.Unlock()

	if cmd == nil || !s.stopOnExit {
		return nil
	}

	select {
	case <-exited:
	default:
		_ = cmd.Process.Signal(syscall.SIGTERM)
		select {
		case <-exited:
		case <-time.After(stopGrace):
			_ = cmd.Process.Kill()
			<-exited
		}
	}

	if err := os.Remove(s.socket); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove socket: %w", err)
	}
	return nil
}

// Info describes the renderer process.
func (s *Supervisor) Info() core.RendererInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := core.RendererInfo{
		Binary: s.binary,
		Socket: s.socket,
	}
	if s.attached {
		info.Alive = socketAlive(s.socket)
		return info
	}
	if s.cmd == nil || s.cmd.Process == nil {
		return info
	}
	info.PID = s.cmd.Process.Pid
	select {
	case <-s.exited:
	default:
		info.Alive = true
	}
	return info
}
