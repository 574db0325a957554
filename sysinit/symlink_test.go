// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/devmgr/sysinit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSymlinks(t *testing.T) {
	dir := t.TempDir()

	symlinks := sysinit.Symlinks{
		filepath.Join(dir, "stdin"): "/proc/self/fd/0",
		filepath.Join(dir, "rtc"):   "rtc0",
	}

	err := sysinit.WithSymlinks(symlinks)(new(sysinit.State))
	require.NoError(t, err)

	for link, expected := range symlinks {
		target, err := os.Readlink(link)
		require.NoError(t, err, link)
		assert.Equal(t, expected, target, link)
	}

	t.Run("exists", func(t *testing.T) {
		err := sysinit.CreateSymlinks(symlinks)
		require.ErrorIs(t, err, os.ErrExist)
	})
}
