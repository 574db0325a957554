// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/aibor/devmgr"
	"github.com/aibor/devmgr/internal/kernel"
	"github.com/aibor/devmgr/sysinit"
)

// Signals that request a power transition.
var transitionSignals = []os.Signal{
	syscall.SIGTERM,
	syscall.SIGUSR2,
	syscall.SIGINT,
}

// Kernel combines the kernel operations the device manager needs.
type Kernel interface {
	kernel.PCIInitializer
	kernel.DebugCommander
}

type manager struct {
	launch       func() (*devmgr.Root, error)
	kernel       Kernel
	rootResource string
	signals      <-chan os.Signal

	root *devmgr.Root
}

// start launches the ACPI firmware service, initializes PCIe and blocks until
// a power transition is requested.
func (m *manager) start(ctx context.Context) sysinit.Func {
	return func(state *sysinit.State) error {
		root, err := m.launch()
		if err != nil {
			return fmt.Errorf("launch acpisvc: %w", err)
		}

		m.root = root

		err = m.initPCIe()
		if err != nil {
			slog.Error("pcie init failed", slog.Any("error", err))
		}

		state.SetTransition(waitForTransition(ctx, m.signals))

		return nil
	}
}

func (m *manager) initPCIe() error {
	if m.rootResource == "" {
		slog.Warn("no root resource given, skipping pcie init")
		return nil
	}

	resource, err := os.Open(m.rootResource)
	if err != nil {
		return fmt.Errorf("open root resource: %w", err)
	}
	defer resource.Close()

	return m.root.InitPCIe(m.kernel, resource) //nolint:wrapcheck
}

func (m *manager) shutdown(transition sysinit.Transition) {
	slog.Info("power transition", slog.String("transition", transition.String()))

	switch transition {
	case sysinit.TransitionReboot:
		m.root.RequestReboot(m.kernel)
	default:
		m.root.RequestPoweroff(m.kernel)
	}
}

// waitForTransition blocks until a signal is received or the context is done.
// SIGTERM requests a reboot, anything else a poweroff.
func waitForTransition(
	ctx context.Context,
	signals <-chan os.Signal,
) sysinit.Transition {
	select {
	case sig := <-signals:
		slog.Debug("received signal", slog.String("signal", sig.String()))

		if sig == syscall.SIGTERM {
			return sysinit.TransitionReboot
		}
	case <-ctx.Done():
	}

	return sysinit.TransitionPoweroff
}
