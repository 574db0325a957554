// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package acpi

import (
	"encoding/binary"
	"fmt"
)

// Cmd is a request command.
type Cmd uint8

// Commands understood by the firmware service.
const (
	CmdListChildren     Cmd = 1
	CmdGetChildHandle   Cmd = 2
	CmdGetPCIInitArg    Cmd = 3
	CmdSStateTransition Cmd = 4
)

func (c Cmd) String() string {
	switch c {
	case CmdListChildren:
		return "list children"
	case CmdGetChildHandle:
		return "get child handle"
	case CmdGetPCIInitArg:
		return "get pci init arg"
	case CmdSStateTransition:
		return "s-state transition"
	default:
		return fmt.Sprintf("cmd %d", uint8(c))
	}
}

// Wire sizes.
const (
	// MaxMessageSize is the maximum size of a single message.
	MaxMessageSize = 64 * 1024

	// RequestHeaderSize is the size of the header of each request.
	RequestHeaderSize = 12

	// ResponseHeaderSize is the size of the header of each response. It is
	// the offset of any response payload within the response.
	ResponseHeaderSize = 16

	childRecordSize = NameSize + HardwareIDSize
	childCountSize  = 4
)

var byteOrder = binary.LittleEndian

type requestHeader struct {
	Len       uint32
	RequestID uint32
	Cmd       Cmd
}

func (h requestHeader) append(b []byte) []byte {
	b = byteOrder.AppendUint32(b, h.Len)
	b = byteOrder.AppendUint32(b, h.RequestID)

	return append(b, byte(h.Cmd), 0, 0, 0)
}

type responseHeader struct {
	Len       uint32
	RequestID uint32
	Status    Status
	Cmd       Cmd
}

func (h responseHeader) append(b []byte) []byte {
	b = byteOrder.AppendUint32(b, h.Len)
	b = byteOrder.AppendUint32(b, h.RequestID)
	b = byteOrder.AppendUint32(b, uint32(h.Status))

	return append(b, byte(h.Cmd), 0, 0, 0)
}

// encodeRequest returns the complete request message for the given payload.
func encodeRequest(requestID uint32, cmd Cmd, payload []byte) []byte {
	hdr := requestHeader{
		Len:       uint32(RequestHeaderSize + len(payload)),
		RequestID: requestID,
		Cmd:       cmd,
	}

	msg := make([]byte, 0, RequestHeaderSize+len(payload))
	msg = hdr.append(msg)

	return append(msg, payload...)
}

// decodeRequest parses the header of the given request message and returns it
// along with the payload.
func decodeRequest(msg []byte) (requestHeader, []byte, error) {
	var hdr requestHeader

	if len(msg) < RequestHeaderSize {
		return hdr, nil, fmt.Errorf("%w: request of %d bytes too short",
			ErrProtocol, len(msg))
	}

	hdr.Len = byteOrder.Uint32(msg[0:4])
	hdr.RequestID = byteOrder.Uint32(msg[4:8])
	hdr.Cmd = Cmd(msg[8])

	if int(hdr.Len) != len(msg) {
		return hdr, nil, fmt.Errorf("%w: request length %d, received %d",
			ErrProtocol, hdr.Len, len(msg))
	}

	return hdr, msg[RequestHeaderSize:], nil
}

// encodeResponse returns the complete response message for the given
// payload.
func encodeResponse(
	requestID uint32,
	cmd Cmd,
	status Status,
	payload []byte,
) []byte {
	hdr := responseHeader{
		Len:       uint32(ResponseHeaderSize + len(payload)),
		RequestID: requestID,
		Status:    status,
		Cmd:       cmd,
	}

	msg := make([]byte, 0, ResponseHeaderSize+len(payload))
	msg = hdr.append(msg)

	return append(msg, payload...)
}

// decodeResponse parses the header of the given response message and returns
// it along with the payload.
func decodeResponse(msg []byte) (responseHeader, []byte, error) {
	var hdr responseHeader

	if len(msg) < ResponseHeaderSize {
		return hdr, nil, fmt.Errorf("%w: response of %d bytes too short",
			ErrProtocol, len(msg))
	}

	hdr.Len = byteOrder.Uint32(msg[0:4])
	hdr.RequestID = byteOrder.Uint32(msg[4:8])
	hdr.Status = Status(int32(byteOrder.Uint32(msg[8:12])))
	hdr.Cmd = Cmd(msg[12])

	if int(hdr.Len) != len(msg) {
		return hdr, nil, fmt.Errorf("%w: response length %d, received %d",
			ErrProtocol, hdr.Len, len(msg))
	}

	return hdr, msg[ResponseHeaderSize:], nil
}

func encodeChildren(children []Child) []byte {
	payload := make([]byte, 0, childCountSize+len(children)*childRecordSize)
	payload = byteOrder.AppendUint32(payload, uint32(len(children)))

	for _, child := range children {
		payload = append(payload, child.Name[:]...)
		payload = append(payload, child.HardwareID[:]...)
	}

	return payload
}

func decodeChildren(payload []byte) ([]Child, error) {
	if len(payload) < childCountSize {
		return nil, fmt.Errorf("%w: missing child count", ErrProtocol)
	}

	count := int(byteOrder.Uint32(payload))
	records := payload[childCountSize:]

	if count > len(records)/childRecordSize {
		return nil, fmt.Errorf("%w: %d children announced, %d bytes received",
			ErrProtocol, count, len(records))
	}

	children := make([]Child, count)

	for idx := range children {
		record := records[idx*childRecordSize:]
		copy(children[idx].Name[:], record[:NameSize])
		copy(children[idx].HardwareID[:], record[NameSize:childRecordSize])
	}

	return children, nil
}

func decodeName(payload []byte) (Name, error) {
	var name Name

	if len(payload) != NameSize {
		return name, fmt.Errorf("%w: name of %d bytes", ErrProtocol, len(payload))
	}

	copy(name[:], payload)

	return name, nil
}

func decodeSState(payload []byte) (SState, error) {
	if len(payload) != 4 {
		return 0, fmt.Errorf("%w: state of %d bytes", ErrProtocol, len(payload))
	}

	return SState(payload[0]), nil
}

func encodeSState(state SState) []byte {
	return []byte{byte(state), 0, 0, 0}
}
