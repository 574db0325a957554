// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package devmgr

import "time"

// Default launch parameters of the firmware service.
const (
	DefaultServicePath  = "/boot/bin/acpisvc"
	DefaultServiceName  = "acpisvc"
	DefaultReadyTimeout = 5 * time.Second
)

// Config is the configuration of the firmware service launch.
type Config struct {
	// ServicePath is the path of the firmware service executable.
	ServicePath string

	// ServiceName is the name the service is referred to by in logs and
	// errors. The service itself gets its path as only argument.
	ServiceName string

	// ReadyTimeout is the maximum time to wait for the service to signal it
	// is ready.
	ReadyTimeout time.Duration
}

// DefaultConfig returns the default [Config].
func DefaultConfig() Config {
	return Config{
		ServicePath:  DefaultServicePath,
		ServiceName:  DefaultServiceName,
		ReadyTimeout: DefaultReadyTimeout,
	}
}
