// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package acpi

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/aibor/devmgr/internal/channel"
)

// Handle is a client handle to a single node of the firmware service's device
// tree.
//
// Requests are synchronous. A Handle may be used by multiple goroutines, the
// requests are serialized.
type Handle struct {
	mu        sync.Mutex
	conn      *net.UnixConn
	requestID uint32
	closed    bool
}

// NewHandle returns a new [Handle] that communicates via the given
// connection. The handle takes ownership of the connection.
func NewHandle(conn *net.UnixConn) *Handle {
	return &Handle{conn: conn}
}

// Close closes the handle. Closing an already closed handle is a no-op.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	h.closed = true

	err := h.conn.Close()
	if err != nil {
		return fmt.Errorf("close handle: %w", err)
	}

	return nil
}

// ListChildren returns the direct children of the node in the order the
// firmware service lists them.
func (h *Handle) ListChildren() ([]Child, error) {
	rsp, err := h.call(CmdListChildren, nil, false)
	if err != nil {
		return nil, err
	}

	children, err := decodeChildren(rsp.payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CmdListChildren, err)
	}

	return children, nil
}

// ChildHandle opens a new [Handle] for the direct child with the given name.
func (h *Handle) ChildHandle(name Name) (*Handle, error) {
	rsp, err := h.call(CmdGetChildHandle, name[:], true)
	if err != nil {
		return nil, err
	}

	if len(rsp.files) != 1 {
		rsp.closeFiles()

		return nil, fmt.Errorf("%s: %w: no handle received",
			CmdGetChildHandle, ErrProtocol)
	}

	conn, err := channel.NewEndpoint(rsp.files[0]).Conn()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CmdGetChildHandle, err)
	}

	return NewHandle(conn), nil
}

// PCIInitArg requests the PCI initialization argument of the node. Usually,
// this is only supported by the PCI root complex node.
func (h *Handle) PCIInitArg() (PCIInitArg, error) {
	rsp, err := h.call(CmdGetPCIInitArg, nil, false)
	if err != nil {
		return PCIInitArg{}, err
	}

	return NewPCIInitArg(rsp.raw, ResponseHeaderSize), nil
}

// SStateTransition requests the system to transition into the given state.
func (h *Handle) SStateTransition(state SState) error {
	_, err := h.call(CmdSStateTransition, encodeSState(state), false)

	return err
}

type response struct {
	raw     []byte
	payload []byte
	files   []*os.File
}

func (r *response) closeFiles() {
	for _, file := range r.files {
		_ = file.Close()
	}
}

func (h *Handle) call(cmd Cmd, payload []byte, withFiles bool) (*response, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, fmt.Errorf("%s: %w", cmd, net.ErrClosed)
	}

	h.requestID++
	requestID := h.requestID

	err := writeMessage(h.conn, encodeRequest(requestID, cmd, payload), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}

	msg, err := readMessage(h.conn)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}

		return nil, fmt.Errorf("%s: %w", cmd, err)
	}

	if !withFiles {
		msg.closeFiles()
	}

	hdr, rspPayload, err := decodeResponse(msg.data)
	if err != nil {
		msg.closeFiles()
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}

	if hdr.RequestID != requestID || hdr.Cmd != cmd {
		msg.closeFiles()

		return nil, fmt.Errorf("%s: %w: response for request %d (%s)",
			cmd, ErrProtocol, hdr.RequestID, hdr.Cmd)
	}

	if hdr.Status != StatusOK {
		msg.closeFiles()
		return nil, &StatusError{Cmd: cmd, Status: hdr.Status}
	}

	return &response{
		raw:     msg.data,
		payload: rspPayload,
		files:   msg.files,
	}, nil
}
