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
	"runtime"

	"golang.org/x/sys/unix"
)

// maxFiles is the maximum number of descriptors accepted with a single
// message.
const maxFiles = 1

// message is a single packet with optional descriptors attached.
type message struct {
	data  []byte
	files []*os.File
}

func (m *message) closeFiles() {
	for _, file := range m.files {
		_ = file.Close()
	}

	m.files = nil
}

func writeMessage(conn *net.UnixConn, data []byte, file *os.File) error {
	if len(data) > MaxMessageSize {
		return fmt.Errorf("%w: message of %d bytes exceeds limit",
			ErrProtocol, len(data))
	}

	var oob []byte
	if file != nil {
		oob = unix.UnixRights(int(file.Fd()))
	}

	_, _, err := conn.WriteMsgUnix(data, oob, nil)

	runtime.KeepAlive(file)

	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	return nil
}

// readMessage reads the next message. It returns [io.EOF] if the peer closed
// the channel.
func readMessage(conn *net.UnixConn) (*message, error) {
	data := make([]byte, MaxMessageSize)
	oob := make([]byte, unix.CmsgSpace(maxFiles*4))

	n, oobn, flags, _, err := conn.ReadMsgUnix(data, oob)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("read message: %w", err)
	}

	msg := &message{data: data[:n]}

	if oobn > 0 {
		msg.files, err = parseFiles(oob[:oobn])
		if err != nil {
			return nil, err
		}
	}

	if flags&(unix.MSG_TRUNC|unix.MSG_CTRUNC) != 0 {
		msg.closeFiles()
		return nil, fmt.Errorf("%w: message truncated", ErrProtocol)
	}

	// A zero length packet is what a closed peer looks like. Valid messages
	// are never empty.
	if n == 0 && len(msg.files) == 0 {
		return nil, io.EOF
	}

	return msg, nil
}

// parseFiles returns the descriptors of all rights messages in oob. If any
// control message is not a rights message, all received descriptors are
// closed and an error is returned.
func parseFiles(oob []byte) ([]*os.File, error) {
	cmsgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, fmt.Errorf("%w: parse control message: %w", ErrProtocol, err)
	}

	var (
		files    []*os.File
		parseErr error
	)

	for idx := range cmsgs {
		fds, err := unix.ParseUnixRights(&cmsgs[idx])
		if err != nil {
			parseErr = fmt.Errorf("%w: control message: %w", ErrProtocol, err)
			continue
		}

		for _, fd := range fds {
			files = append(files, os.NewFile(uintptr(fd), "acpi-handle"))
		}
	}

	if parseErr != nil {
		msg := message{files: files}
		msg.closeFiles()

		return nil, parseErr
	}

	return files, nil
}
