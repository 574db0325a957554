// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package devmgr

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aibor/devmgr/internal/acpi"
	"github.com/aibor/devmgr/internal/channel"
	"golang.org/x/sys/unix"
)

// PairFunc creates a new channel and returns both of its endpoints.
type PairFunc func(name string) (*channel.Endpoint, *channel.Endpoint, error)

// LogSinkFunc returns a new log sink for the firmware service.
type LogSinkFunc func() (*os.File, error)

// Launcher launches the firmware service and waits for it to become ready.
type Launcher struct {
	Config Config

	// Spawner spawns the service process. If nil, [ExecSpawner] is used.
	Spawner Spawner

	// NewPair creates the comm and ready channels. If nil,
	// [channel.NewPair] is used.
	NewPair PairFunc

	// NewLogSink creates the log sink. If nil, [StdoutLogSink] is used.
	NewLogSink LogSinkFunc

	// Registry the [Root] is registered in on success. If nil, the root is
	// not registered.
	Registry *Registry
}

// LaunchService launches the firmware service with the given [Config] and
// registers its [Root] in [DefaultRegistry].
func LaunchService(cfg Config) (*Root, error) {
	launcher := Launcher{
		Config:   cfg,
		Registry: DefaultRegistry,
	}

	return launcher.Launch()
}

// StdoutLogSink returns a duplicate of the standard output of the current
// process.
func StdoutLogSink() (*os.File, error) {
	fd, err := unix.FcntlInt(os.Stdout.Fd(), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("dup stdout: %w", err)
	}

	return os.NewFile(uintptr(fd), "acpi-log"), nil
}

// Launch spawns the firmware service and waits until it closed its end of the
// ready channel.
//
// On success, the returned [Root] owns the client end of the comm channel.
// On any failure all created resources are released.
func (l *Launcher) Launch() (*Root, error) {
	if l.Registry != nil && l.Registry.initialized() {
		return nil, ErrRootInitialized
	}

	comm, ready, err := l.spawn()
	if err != nil {
		return nil, err
	}

	timeout := l.Config.ReadyTimeout
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}

	err = waitReady(ready, timeout)
	if err != nil {
		closeAll(comm)
		return nil, err
	}

	conn, err := comm.Conn()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceCreation, err)
	}

	root := &Root{handle: acpi.NewHandle(conn)}

	if l.Registry != nil {
		err := l.Registry.Initialize(root)
		if err != nil {
			_ = root.Close()
			return nil, err
		}
	}

	return root, nil
}

// spawn creates the channels and the log sink and spawns the service. It
// returns the local ends of the comm and ready channels.
func (l *Launcher) spawn() (*channel.Endpoint, *channel.Endpoint, error) {
	newPair := l.NewPair
	if newPair == nil {
		newPair = channel.NewPair
	}

	newLogSink := l.NewLogSink
	if newLogSink == nil {
		newLogSink = StdoutLogSink
	}

	spawner := l.Spawner
	if spawner == nil {
		spawner = ExecSpawner{}
	}

	commLocal, commRemote, err := newPair("acpi-comm")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrResourceCreation, err)
	}

	readyLocal, readyRemote, err := newPair("acpi-ready")
	if err != nil {
		closeAll(commLocal, commRemote)
		return nil, nil, fmt.Errorf("%w: %w", ErrResourceCreation, err)
	}

	logSink, err := newLogSink()
	if err != nil {
		closeAll(commLocal, commRemote, readyLocal, readyRemote)
		return nil, nil, fmt.Errorf("%w: log sink: %w", ErrResourceCreation, err)
	}

	caps := []Capability{
		{Kind: CapLogger, File: logSink},
		{Kind: CapUser1, File: commRemote.File()},
		{Kind: CapUser2, File: readyRemote.File()},
	}

	slog.Info("launch acpisvc",
		slog.String("name", l.Config.ServiceName),
		slog.String("path", l.Config.ServicePath))

	proc, err := spawner.Spawn(
		l.Config.ServicePath,
		[]string{l.Config.ServicePath},
		caps,
	)

	// The service holds its own copies of the remote ends now, if it is
	// running at all. The ready channel is only signaled once the last copy
	// is closed, so ours must be gone before waiting.
	closeAll(logSink, commRemote, readyRemote)

	if err != nil {
		slog.Error("acpisvc launch failed", slog.Any("error", err))
		closeAll(commLocal, readyLocal)

		return nil, nil, fmt.Errorf("%w: %w", ErrLaunch, err)
	}

	if err := proc.Release(); err != nil {
		slog.Debug("release acpisvc process", slog.Any("error", err))
	}

	return commLocal, readyLocal, nil
}

// waitReady waits for the peer of the ready endpoint to be closed. The
// endpoint is closed in any case.
func waitReady(ready *channel.Endpoint, timeout time.Duration) error {
	err := ready.WaitPeerClosed(timeout)
	closeAll(ready)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, channel.ErrWaitTimeout):
		return fmt.Errorf("%w: %w", ErrHandshakeTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrHandshakeWait, err)
	}
}

func closeAll(closers ...io.Closer) {
	for _, closer := range closers {
		_ = closer.Close()
	}
}
