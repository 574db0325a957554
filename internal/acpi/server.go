// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package acpi

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"

	"github.com/aibor/devmgr/internal/channel"
	"golang.org/x/sync/errgroup"
)

// Node is a node of the device tree served by [Serve].
//
// Methods may return a [StatusError] to answer with a specific status. Any
// other error is answered with [StatusInternal].
type Node interface {
	// Children returns the direct children of the node.
	Children() ([]Child, error)

	// Child returns the direct child with the given name.
	Child(name Name) (Node, error)

	// PCIInitArg returns the opaque PCI initialization argument.
	PCIInitArg() ([]byte, error)

	// SStateTransition transitions the system into the given state.
	SStateTransition(state SState) error
}

// Serve answers requests received on the given connection for the given
// node until the peer closes the connection.
//
// Handles to child nodes are served on their own channel in separate
// goroutines. Serve returns once all of them terminated. The connection is
// not closed by Serve.
func Serve(conn *net.UnixConn, node Node) error {
	var sessions errgroup.Group

	err := serve(conn, node, &sessions)

	sessionsErr := sessions.Wait()

	return errors.Join(err, sessionsErr)
}

func serve(conn *net.UnixConn, node Node, sessions *errgroup.Group) error {
	for {
		msg, err := readMessage(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		// Requests never carry handles.
		msg.closeFiles()

		hdr, payload, err := decodeRequest(msg.data)
		if err != nil {
			return err
		}

		slog.Debug("acpi request",
			slog.String("cmd", hdr.Cmd.String()),
			slog.Uint64("id", uint64(hdr.RequestID)))

		rsp, err := handle(node, hdr.Cmd, payload, sessions)
		if err != nil {
			return err
		}

		data := encodeResponse(hdr.RequestID, hdr.Cmd, rsp.status, rsp.payload)

		var file *os.File
		if rsp.handle != nil {
			file = rsp.handle.File()
		}

		err = writeMessage(conn, data, file)

		// The peer holds its own copy of the descriptor now.
		if rsp.handle != nil {
			_ = rsp.handle.Close()
		}

		if err != nil {
			return err
		}
	}
}

type reply struct {
	status  Status
	payload []byte
	handle  *channel.Endpoint
}

func handle(
	node Node,
	cmd Cmd,
	payload []byte,
	sessions *errgroup.Group,
) (reply, error) {
	switch cmd {
	case CmdListChildren:
		children, err := node.Children()
		if err != nil {
			return reply{status: statusFrom(err)}, nil
		}

		return reply{payload: encodeChildren(children)}, nil
	case CmdGetChildHandle:
		name, err := decodeName(payload)
		if err != nil {
			return reply{status: StatusInvalidArgs}, nil
		}

		child, err := node.Child(name)
		if err != nil {
			return reply{status: statusFrom(err)}, nil
		}

		return serveChild(child, sessions)
	case CmdGetPCIInitArg:
		arg, err := node.PCIInitArg()
		if err != nil {
			return reply{status: statusFrom(err)}, nil
		}

		if ResponseHeaderSize+len(arg) > MaxMessageSize {
			return reply{status: StatusInternal}, nil
		}

		return reply{payload: arg}, nil
	case CmdSStateTransition:
		state, err := decodeSState(payload)
		if err != nil || !state.valid() {
			return reply{status: StatusInvalidArgs}, nil
		}

		return reply{status: statusFrom(node.SStateTransition(state))}, nil
	default:
		return reply{status: StatusNotSupported}, nil
	}
}

func serveChild(child Node, sessions *errgroup.Group) (reply, error) {
	local, remote, err := channel.NewPair("acpi-child")
	if err != nil {
		return reply{status: StatusInternal}, nil
	}

	conn, err := local.Conn()
	if err != nil {
		_ = remote.Close()
		return reply{}, fmt.Errorf("child session: %w", err)
	}

	sessions.Go(func() error {
		defer conn.Close()

		return Serve(conn, child)
	})

	return reply{handle: remote}, nil
}
