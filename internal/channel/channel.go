// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package channel

import (
	"fmt"
	"net"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Endpoint is one side of a channel.
type Endpoint struct {
	name string
	file *os.File

	mu     sync.Mutex
	closed bool
}

// NewPair creates a new channel and returns both of its endpoints.
//
// The underlying descriptors are close-on-exec. They are inherited by a
// spawned process only if passed explicitly, e.g. by [exec.Cmd.ExtraFiles].
func NewPair(name string) (*Endpoint, *Endpoint, error) {
	fds, err := unix.Socketpair(
		unix.AF_UNIX,
		unix.SOCK_SEQPACKET|unix.SOCK_CLOEXEC,
		0,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("socketpair %s: %w", name, err)
	}

	local := newEndpoint(fds[0], name+"-local")
	remote := newEndpoint(fds[1], name+"-remote")

	return local, remote, nil
}

// NewEndpoint wraps the given file as [Endpoint]. The endpoint takes
// ownership of the file.
func NewEndpoint(file *os.File) *Endpoint {
	return &Endpoint{
		name: file.Name(),
		file: file,
	}
}

func newEndpoint(fd int, name string) *Endpoint {
	return NewEndpoint(os.NewFile(uintptr(fd), name))
}

// Name returns the name of the endpoint.
func (e *Endpoint) Name() string {
	return e.name
}

// File returns the underlying file. It remains owned by the endpoint.
func (e *Endpoint) File() *os.File {
	return e.file
}

// Closed returns true if the endpoint has been closed or transferred.
func (e *Endpoint) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.closed
}

// Close closes the endpoint. It returns [ErrClosed] if the endpoint has been
// closed or transferred before.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return fmt.Errorf("close %s: %w", e.name, ErrClosed)
	}

	e.closed = true

	err := e.file.Close()
	if err != nil {
		return fmt.Errorf("close %s: %w", e.name, err)
	}

	return nil
}

// Conn transfers the endpoint into a message based [net.UnixConn]. The
// endpoint is closed afterwards in any case and the returned connection is
// owned by the caller.
func (e *Endpoint) Conn() (*net.UnixConn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, fmt.Errorf("conn %s: %w", e.name, ErrClosed)
	}

	e.closed = true

	// FileConn duplicates the descriptor, so the file is closed no matter
	// what.
	conn, err := net.FileConn(e.file)
	_ = e.file.Close()

	if err != nil {
		return nil, fmt.Errorf("conn %s: %w", e.name, err)
	}

	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		_ = conn.Close()
		return nil, fmt.Errorf("conn %s: unexpected type %T", e.name, conn)
	}

	return unixConn, nil
}
