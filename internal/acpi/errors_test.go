// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package acpi_test

import (
	"fmt"
	"testing"

	"github.com/aibor/devmgr/internal/acpi"
	"github.com/stretchr/testify/assert"
)

func TestStatusError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &acpi.StatusError{
		Cmd:    acpi.CmdListChildren,
		Status: acpi.StatusNotFound,
	})

	assert.ErrorIs(t, err, &acpi.StatusError{})
	assert.ErrorIs(t, err, &acpi.StatusError{Status: acpi.StatusNotFound})
	assert.NotErrorIs(t, err, &acpi.StatusError{Status: acpi.StatusInternal})
	assert.NotErrorIs(t, assert.AnError, &acpi.StatusError{})
}

func TestStatusError_Error(t *testing.T) {
	err := &acpi.StatusError{
		Cmd:    acpi.CmdGetPCIInitArg,
		Status: acpi.StatusNotSupported,
	}

	assert.Equal(t, "get pci init arg: not supported", err.Error())
}
