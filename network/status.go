package network

import "fmt"

// StatusCode is the machine-readable outcome of a command.
type StatusCode byte

const (
	StatusOK StatusCode = iota
	StatusBadCommand
	StatusFileNotFound
	StatusDirectoryNotFound
	StatusNotADirectory
	StatusOutsideRoot
	StatusIOError
)

func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "OK"
	case StatusBadCommand:
		return "BAD_COMMAND"
	case StatusFileNotFound:
		return "FILE_NOT_FOUND"
	case StatusDirectoryNotFound:
		return "DIRECTORY_NOT_FOUND"
	case StatusNotADirectory:
		return "NOT_A_DIRECTORY"
	case StatusOutsideRoot:
		return "OUTSIDE_ROOT"
	case StatusIOError:
		return "IO_ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02x)", byte(c))
	}
}

// Status is the decoded payload of a status frame: one code byte followed
// by a human-readable UTF-8 message.
type Status struct {
	Code    StatusCode
	Message string
}

// OK reports whether the status signals success.
func (s Status) OK() bool { return s.Code == StatusOK }

// EncodeStatus serializes a status into a frame payload.
func EncodeStatus(s Status) []byte {
	p := make([]byte, 1+len(s.Message))
	p[0] = byte(s.Code)
	copy(p[1:], s.Message)
	return p
}

// DecodeStatus parses a status frame payload.
func DecodeStatus(p []byte) (Status, error) {
	if len(p) < 1 {
		return Status{}, fmt.Errorf("%w: empty status payload", ErrMalformedFrame)
	}
	code := StatusCode(p[0])
	if code > StatusIOError {
		return Status{}, fmt.Errorf("%w: status code 0x%02x", ErrMalformedFrame, p[0])
	}
	return Status{Code: code, Message: string(p[1:])}, nil
}
