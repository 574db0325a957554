// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func mount(path, source, fsType string, flags MountFlags, data string) error {
	if source == "" {
		source = fsType
	}

	if err := unix.Mount(source, path, fsType, uintptr(flags), data); err != nil {
		return fmt.Errorf("mount %s: %w", path, err)
	}

	return nil
}

func setenv(key, value string) error {
	if err := os.Setenv(key, value); err != nil {
		return fmt.Errorf("setenv %s: %w", key, err)
	}

	return nil
}
