// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

// EnvVars is a map of environment variable values by name.
type EnvVars map[string]string

// DefaultEnv returns the environment the device manager passes on to the
// services it launches.
func DefaultEnv() EnvVars {
	return EnvVars{
		"PATH": "/boot/bin:/bin:/sbin:/usr/bin:/usr/sbin",
		"HOME": "/",
	}
}

// SetEnv sets the given [EnvVars] in the environment. Variables are set in
// lexicographic order of their names.
func SetEnv(envVars EnvVars) error {
	for key, value := range sortedMap(envVars) {
		if err := setenv(key, value); err != nil {
			return err
		}
	}

	return nil
}

// WithEnv returns a setup [Func] that wraps [SetEnv] and can be used with
// [Run].
func WithEnv(envVars EnvVars) Func {
	return func(_ *State) error {
		return SetEnv(envVars)
	}
}
