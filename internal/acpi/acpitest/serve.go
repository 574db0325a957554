// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package acpitest

import (
	"os"
	"testing"

	"github.com/aibor/devmgr/internal/acpi"
	"github.com/aibor/devmgr/internal/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// Serve serves the given node on a new channel and returns a client handle
// for it. The handle is closed and the server is waited for on test cleanup.
func Serve(tb testing.TB, node acpi.Node) *acpi.Handle {
	tb.Helper()

	local, remote, err := channel.NewPair("acpitest")
	require.NoError(tb, err)

	clientConn, err := local.Conn()
	if err != nil {
		_ = remote.Close()
	}

	require.NoError(tb, err)

	handle := acpi.NewHandle(clientConn)

	done := ServeEndpoint(tb, remote, node)

	tb.Cleanup(func() {
		_ = handle.Close()

		assert.NoError(tb, <-done)
	})

	return handle
}

// ServeFile serves the given node on a duplicate of the given file. The
// caller keeps ownership of the file. The returned channel receives the
// result of [acpi.Serve] once the peer closed its end.
func ServeFile(tb testing.TB, file *os.File, node acpi.Node) <-chan error {
	tb.Helper()

	endpoint := channel.NewEndpoint(dup(tb, file))

	return ServeEndpoint(tb, endpoint, node)
}

// ServeEndpoint serves the given node on the given endpoint. The endpoint is
// consumed. The returned channel receives the result of [acpi.Serve] once
// the peer closed its end.
func ServeEndpoint(
	tb testing.TB,
	endpoint *channel.Endpoint,
	node acpi.Node,
) <-chan error {
	tb.Helper()

	conn, err := endpoint.Conn()
	require.NoError(tb, err)

	done := make(chan error, 1)

	go func() {
		defer conn.Close()

		done <- acpi.Serve(conn, node)
	}()

	return done
}

// Dup returns a close-on-exec duplicate of the given file. It is closed on
// test cleanup.
func Dup(tb testing.TB, file *os.File) *os.File {
	tb.Helper()

	dupFile := dup(tb, file)

	tb.Cleanup(func() { _ = dupFile.Close() })

	return dupFile
}

func dup(tb testing.TB, file *os.File) *os.File {
	tb.Helper()

	fd, err := unix.FcntlInt(file.Fd(), unix.F_DUPFD_CLOEXEC, 0)
	require.NoError(tb, err, "dup")

	return os.NewFile(uintptr(fd), file.Name())
}
