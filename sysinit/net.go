// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// LoopbackInterface is the name of the loopback network interface.
const LoopbackInterface = "lo"

// SetInterfaceUp brings the network interface with the given name up.
//
// The kernel configures the loopback addresses on its own, so bringing it up
// is all that is needed for it.
func SetInterfaceUp(name string) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("find link %s: %w", name, err)
	}

	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("set link %s up: %w", name, err)
	}

	return nil
}

// WithInterfaceUp returns a setup [Func] that wraps [SetInterfaceUp] and can
// be used with [Run].
func WithInterfaceUp(name string) Func {
	return func(_ *State) error {
		return SetInterfaceUp(name)
	}
}
