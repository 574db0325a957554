// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package devmgr_test

import (
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/aibor/devmgr"
	"github.com/aibor/devmgr/internal/channel"
	"github.com/stretchr/testify/require"
)

// fakeKernel records the calls of the kernel entry points.
type fakeKernel struct {
	initErr error
	cmdErr  error

	mu        sync.Mutex
	resources []*os.File
	args      [][]byte
	cmds      []string
}

func (k *fakeKernel) InitPCI(resource *os.File, arg []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.resources = append(k.resources, resource)
	k.args = append(k.args, slices.Clone(arg))

	return k.initErr
}

func (k *fakeKernel) DebugCommand(cmd string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.cmds = append(k.cmds, cmd)

	return k.cmdErr
}

type fakeProcess struct {
	released bool
}

func (p *fakeProcess) Release() error {
	p.released = true
	return nil
}

// fakeSpawner records the spawn call and runs onSpawn instead of spawning a
// process.
type fakeSpawner struct {
	err     error
	onSpawn func(caps []devmgr.Capability)

	called  bool
	path    string
	argv    []string
	kinds   []devmgr.CapabilityKind
	process fakeProcess
}

func (s *fakeSpawner) Spawn(
	path string,
	argv []string,
	caps []devmgr.Capability,
) (devmgr.Process, error) {
	s.called = true
	s.path = path
	s.argv = argv

	for _, capability := range caps {
		s.kinds = append(s.kinds, capability.Kind)
	}

	if s.err != nil {
		return nil, s.err
	}

	if s.onSpawn != nil {
		s.onSpawn(caps)
	}

	return &s.process, nil
}

// pairRecorder creates real channels, records all endpoints and fails
// creating the pair with the index failAt, if set.
type pairRecorder struct {
	failAt    int
	endpoints []*channel.Endpoint
}

func (r *pairRecorder) newPair(
	tb testing.TB,
) devmgr.PairFunc {
	tb.Helper()

	created := 0

	return func(name string) (*channel.Endpoint, *channel.Endpoint, error) {
		created++
		if created == r.failAt {
			return nil, nil, os.ErrPermission
		}

		local, remote, err := channel.NewPair(name)
		require.NoError(tb, err)

		r.endpoints = append(r.endpoints, local, remote)

		return local, remote, nil
	}
}

func (r *pairRecorder) allClosed() bool {
	for _, endpoint := range r.endpoints {
		if !endpoint.Closed() {
			return false
		}
	}

	return true
}

// logSink returns a [devmgr.LogSinkFunc] that returns a file in a temporary
// directory.
func logSink(tb testing.TB, files *[]*os.File) devmgr.LogSinkFunc {
	tb.Helper()

	return func() (*os.File, error) {
		file, err := os.CreateTemp(tb.TempDir(), "log")
		if err != nil {
			return nil, err
		}

		*files = append(*files, file)

		return file, nil
	}
}
