package network

import "errors"

// FrameType identifies the kind of protocol frame
type FrameType byte

const (
	FrameCommand FrameType = 0x01
	FrameStatus  FrameType = 0x02
	FrameChunk   FrameType = 0x03
	FrameEnd     FrameType = 0x04
)

const (
	// frame header: 1 byte type tag + 4 bytes big-endian payload length
	headerSize = 5

	// MaxPayload bounds the payload of any single frame. A peer announcing
	// more than this is no longer trusted to be frame-aligned.
	MaxPayload = 64 * 1024

	// ChunkSize is the producer-side slice of file bytes per chunk frame.
	ChunkSize = 32 * 1024
)

var (
	ErrUnknownFrameType = errors.New("unknown frame type")
	ErrOversizedLength  = errors.New("frame length exceeds limit")
	ErrFrameTooLarge    = errors.New("payload exceeds frame limit")
	ErrMalformedFrame   = errors.New("malformed frame")
	ErrOutOfOrder       = errors.New("frame out of order")
)

// Frame is one decoded unit off the wire.
type Frame struct {
	Type    FrameType
	Payload []byte
}

// CommandText returns the UTF-8 command line carried by a command frame.
func (f Frame) CommandText() string {
	return string(f.Payload)
}

// Status decodes the status payload of a status frame.
func (f Frame) Status() (Status, error) {
	if f.Type != FrameStatus {
		return Status{}, ErrOutOfOrder
	}
	return DecodeStatus(f.Payload)
}

func (t FrameType) String() string {
	switch t {
	case FrameCommand:
		return "CMD"
	case FrameStatus:
		return "STATUS"
	case FrameChunk:
		return "CHUNK"
	case FrameEnd:
		return "END"
	default:
		return "INVALID"
	}
}

func validFrameType(t FrameType) bool {
	switch t {
	case FrameCommand, FrameStatus, FrameChunk, FrameEnd:
		return true
	default:
		return false
	}
}
