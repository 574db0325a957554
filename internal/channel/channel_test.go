// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package channel_test

import (
	"testing"
	"time"

	"github.com/aibor/devmgr/internal/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPair(t *testing.T) (*channel.Endpoint, *channel.Endpoint) {
	t.Helper()

	local, remote, err := channel.NewPair("test")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = local.Close()
		_ = remote.Close()
	})

	return local, remote
}

func TestNewPair(t *testing.T) {
	local, remote := newPair(t)

	assert.Equal(t, "test-local", local.Name())
	assert.Equal(t, "test-remote", remote.Name())
	assert.False(t, local.Closed())
	assert.False(t, remote.Closed())
}

func TestEndpoint_Close(t *testing.T) {
	local, _ := newPair(t)

	require.NoError(t, local.Close())
	assert.True(t, local.Closed())

	err := local.Close()
	require.ErrorIs(t, err, channel.ErrClosed)
}

func TestEndpoint_Conn(t *testing.T) {
	t.Run("transfers ownership", func(t *testing.T) {
		local, remote := newPair(t)

		localConn, err := local.Conn()
		require.NoError(t, err)

		t.Cleanup(func() { _ = localConn.Close() })

		assert.True(t, local.Closed())

		remoteConn, err := remote.Conn()
		require.NoError(t, err)

		t.Cleanup(func() { _ = remoteConn.Close() })

		_, err = localConn.Write([]byte("ping"))
		require.NoError(t, err)

		buf := make([]byte, 16)
		n, err := remoteConn.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "ping", string(buf[:n]))
	})

	t.Run("closed", func(t *testing.T) {
		local, _ := newPair(t)

		require.NoError(t, local.Close())

		_, err := local.Conn()
		require.ErrorIs(t, err, channel.ErrClosed)
	})
}

func TestEndpoint_WaitPeerClosed(t *testing.T) {
	t.Run("peer closed", func(t *testing.T) {
		local, remote := newPair(t)

		require.NoError(t, remote.Close())

		err := local.WaitPeerClosed(time.Second)
		require.NoError(t, err)
	})

	t.Run("peer closed while waiting", func(t *testing.T) {
		local, remote := newPair(t)

		timer := time.AfterFunc(20*time.Millisecond, func() {
			_ = remote.Close()
		})
		t.Cleanup(func() { timer.Stop() })

		err := local.WaitPeerClosed(5 * time.Second)
		require.NoError(t, err)
	})

	t.Run("data is not a hang-up", func(t *testing.T) {
		local, remote := newPair(t)

		_, err := remote.File().Write([]byte("ready?"))
		require.NoError(t, err)

		err = local.WaitPeerClosed(50 * time.Millisecond)
		require.ErrorIs(t, err, channel.ErrWaitTimeout)
	})

	t.Run("timeout", func(t *testing.T) {
		local, _ := newPair(t)

		start := time.Now()
		err := local.WaitPeerClosed(50 * time.Millisecond)
		require.ErrorIs(t, err, channel.ErrWaitTimeout)
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("closed", func(t *testing.T) {
		local, _ := newPair(t)

		require.NoError(t, local.Close())

		err := local.WaitPeerClosed(time.Millisecond)
		require.ErrorIs(t, err, channel.ErrClosed)
	})
}
