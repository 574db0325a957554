// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package devmgr_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/aibor/devmgr"
	"github.com/aibor/devmgr/internal/acpi/acpitest"
	"github.com/aibor/devmgr/internal/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() devmgr.Config {
	return devmgr.Config{
		ServicePath:  "/boot/bin/acpisvc",
		ServiceName:  "acpisvc",
		ReadyTimeout: 100 * time.Millisecond,
	}
}

func TestLauncher_Launch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var (
			pairs    pairRecorder
			logFiles []*os.File
			served   <-chan error
			registry devmgr.Registry
		)

		spawner := &fakeSpawner{
			onSpawn: func(caps []devmgr.Capability) {
				served = acpitest.ServeFile(t, caps[1].File, serviceTree())
			},
		}

		launcher := devmgr.Launcher{
			Config:     testConfig(),
			Spawner:    spawner,
			NewPair:    pairs.newPair(t),
			NewLogSink: logSink(t, &logFiles),
			Registry:   &registry,
		}

		root, err := launcher.Launch()
		require.NoError(t, err)

		assert.Equal(t, "/boot/bin/acpisvc", spawner.path)
		assert.Equal(t, []string{"/boot/bin/acpisvc"}, spawner.argv)
		assert.Equal(t, []devmgr.CapabilityKind{
			devmgr.CapLogger,
			devmgr.CapUser1,
			devmgr.CapUser2,
		}, spawner.kinds)
		assert.True(t, spawner.process.released, "process released")

		registered, err := registry.Root()
		require.NoError(t, err)
		assert.Same(t, root, registered)

		// The root now owns the comm channel, everything else is closed.
		assert.True(t, pairs.allClosed(), "endpoints closed")
		require.Len(t, logFiles, 1)
		require.ErrorIs(t, logFiles[0].Close(), os.ErrClosed, "log sink")

		kern := &fakeKernel{}
		require.NoError(t, root.InitPCIe(kern, nil))
		assert.Equal(t, [][]byte{[]byte("ecam")}, kern.args)

		require.NoError(t, root.Close())
		require.NoError(t, <-served)
	})

	t.Run("spawn failure", func(t *testing.T) {
		var (
			pairs    pairRecorder
			logFiles []*os.File
			registry devmgr.Registry
		)

		spawnErr := errors.New("no such file")

		launcher := devmgr.Launcher{
			Config:     testConfig(),
			Spawner:    &fakeSpawner{err: spawnErr},
			NewPair:    pairs.newPair(t),
			NewLogSink: logSink(t, &logFiles),
			Registry:   &registry,
		}

		_, err := launcher.Launch()
		require.ErrorIs(t, err, devmgr.ErrLaunch)
		require.ErrorIs(t, err, spawnErr)

		assert.Len(t, pairs.endpoints, 4)
		assert.True(t, pairs.allClosed(), "endpoints closed")
		require.Len(t, logFiles, 1)
		require.ErrorIs(t, logFiles[0].Close(), os.ErrClosed, "log sink")

		_, err = registry.Root()
		require.ErrorIs(t, err, devmgr.ErrRootUninitialized)
	})

	t.Run("resource creation failure", func(t *testing.T) {
		tests := []struct {
			name              string
			failPairAt        int
			logSinkErr        error
			expectedEndpoints int
		}{
			{
				name:              "comm channel",
				failPairAt:        1,
				expectedEndpoints: 0,
			},
			{
				name:              "ready channel",
				failPairAt:        2,
				expectedEndpoints: 2,
			},
			{
				name:              "log sink",
				logSinkErr:        assert.AnError,
				expectedEndpoints: 4,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				pairs := pairRecorder{failAt: tt.failPairAt}
				spawner := &fakeSpawner{}

				launcher := devmgr.Launcher{
					Config:  testConfig(),
					Spawner: spawner,
					NewPair: pairs.newPair(t),
					NewLogSink: func() (*os.File, error) {
						if tt.logSinkErr != nil {
							return nil, tt.logSinkErr
						}

						return os.CreateTemp(t.TempDir(), "log")
					},
				}

				_, err := launcher.Launch()
				require.ErrorIs(t, err, devmgr.ErrResourceCreation)

				assert.False(t, spawner.called, "spawner called")
				assert.Len(t, pairs.endpoints, tt.expectedEndpoints)
				assert.True(t, pairs.allClosed(), "endpoints closed")
			})
		}
	})

	t.Run("handshake timeout", func(t *testing.T) {
		var (
			pairs    pairRecorder
			logFiles []*os.File
			registry devmgr.Registry
		)

		spawner := &fakeSpawner{
			onSpawn: func(caps []devmgr.Capability) {
				// The service holds the ready channel and never closes it.
				acpitest.Dup(t, caps[2].File)
			},
		}

		launcher := devmgr.Launcher{
			Config:     testConfig(),
			Spawner:    spawner,
			NewPair:    pairs.newPair(t),
			NewLogSink: logSink(t, &logFiles),
			Registry:   &registry,
		}

		start := time.Now()

		_, err := launcher.Launch()
		require.ErrorIs(t, err, devmgr.ErrHandshakeTimeout)

		assert.GreaterOrEqual(t, time.Since(start), testConfig().ReadyTimeout)
		assert.True(t, pairs.allClosed(), "endpoints closed")

		_, err = registry.Root()
		require.ErrorIs(t, err, devmgr.ErrRootUninitialized)
	})

	t.Run("handshake wait error", func(t *testing.T) {
		var (
			pairs    pairRecorder
			logFiles []*os.File
			registry devmgr.Registry
		)

		spawner := &fakeSpawner{
			onSpawn: func(_ []devmgr.Capability) {
				// Local end of the ready channel is gone before waiting.
				require.NoError(t, pairs.endpoints[2].Close())
			},
		}

		launcher := devmgr.Launcher{
			Config:     testConfig(),
			Spawner:    spawner,
			NewPair:    pairs.newPair(t),
			NewLogSink: logSink(t, &logFiles),
			Registry:   &registry,
		}

		start := time.Now()

		_, err := launcher.Launch()
		require.ErrorIs(t, err, devmgr.ErrHandshakeWait)
		require.ErrorIs(t, err, channel.ErrClosed)
		require.NotErrorIs(t, err, devmgr.ErrHandshakeTimeout)

		assert.Less(t, time.Since(start), testConfig().ReadyTimeout)
		assert.Len(t, pairs.endpoints, 4)
		assert.True(t, pairs.allClosed(), "endpoints closed")

		_, err = registry.Root()
		require.ErrorIs(t, err, devmgr.ErrRootUninitialized)
	})

	t.Run("already initialized", func(t *testing.T) {
		var registry devmgr.Registry

		handle := acpitest.Serve(t, &acpitest.Node{})
		require.NoError(t, registry.Initialize(devmgr.NewTestRoot(handle)))

		spawner := &fakeSpawner{}

		launcher := devmgr.Launcher{
			Config:   testConfig(),
			Spawner:  spawner,
			Registry: &registry,
		}

		_, err := launcher.Launch()
		require.ErrorIs(t, err, devmgr.ErrRootInitialized)
		assert.False(t, spawner.called, "spawner called")
	})
}

func TestLauncher_Launch_Process(t *testing.T) {
	executable, err := os.Executable()
	require.NoError(t, err)

	var registry devmgr.Registry

	launcher := devmgr.Launcher{
		Config: devmgr.Config{
			ServicePath:  executable,
			ServiceName:  "acpisvc",
			ReadyTimeout: devmgr.DefaultReadyTimeout,
		},
		Spawner: devmgr.ExecSpawner{
			Env: append(os.Environ(), serviceEnv+"=1"),
		},
		Registry: &registry,
	}

	root, err := launcher.Launch()
	require.NoError(t, err)

	defer root.Close()

	kern := &fakeKernel{}

	err = root.InitPCIe(kern, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("ecam")}, kern.args)

	root.RequestReboot(kern)
	assert.Equal(t, []string{"reboot"}, kern.cmds)
}
