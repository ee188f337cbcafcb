package network

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
)

// Conn wraps one TCP connection with frame-level send and receive.
// Sends are serialized by an internal mutex so multiple goroutines may
// share a connection; receives must stay on a single goroutine.
type Conn struct {
	nc net.Conn
	r  *bufio.Reader

	wmu sync.Mutex
}

// NewConn wraps an established stream connection.
func NewConn(nc net.Conn) *Conn {
	return &Conn{nc: nc, r: bufio.NewReaderSize(nc, MaxPayload)}
}

// DialTCP connects to a server.
func DialTCP(host string, port int) (*Conn, error) {
	if host == "" || port <= 0 {
		return nil, errors.New("invalid host or port")
	}
	nc, err := net.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("tcp connect failed: %w", err)
	}
	return NewConn(nc), nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	if c == nil || c.nc == nil {
		return errors.New("connection not open")
	}
	return c.nc.Close()
}

// RemoteAddr returns the peer address for logging.
func (c *Conn) RemoteAddr() string {
	if c == nil || c.nc == nil {
		return ""
	}
	return c.nc.RemoteAddr().String()
}

func (c *Conn) writeFrame(t FrameType, payload []byte) error {
	if len(payload) > MaxPayload {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	var hdr [headerSize]byte
	hdr[0] = byte(t)
	binary.BigEndian.PutUint32(hdr[1:], uint32(len(payload)))
	if _, err := c.nc.Write(hdr[:]); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := c.nc.Write(payload)
	return err
}

// SendCommand sends a command frame carrying the given command text.
func (c *Conn) SendCommand(text string) error {
	return c.writeFrame(FrameCommand, []byte(text))
}

// SendStatus sends a terminal status frame.
func (c *Conn) SendStatus(code StatusCode, msg string) error {
	return c.writeFrame(FrameStatus, EncodeStatus(Status{Code: code, Message: msg}))
}

// SendChunk sends one chunk of transfer bytes.
func (c *Conn) SendChunk(p []byte) error {
	return c.writeFrame(FrameChunk, p)
}

// SendEnd sends the end-of-transfer marker.
func (c *Conn) SendEnd() error {
	return c.writeFrame(FrameEnd, nil)
}

// RecvFrame blocks until one complete frame is read. It never returns a
// partial frame: a clean disconnect between frames is io.EOF, a disconnect
// inside a frame is io.ErrUnexpectedEOF, and an unrecognized tag or
// oversized length means the stream is no longer frame-aligned. All of
// those are fatal to the connection.
func (c *Conn) RecvFrame() (Frame, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		// io.ReadFull reports EOF only when zero header bytes were read.
		return Frame{}, err
	}
	t := FrameType(hdr[0])
	if !validFrameType(t) {
		return Frame{}, fmt.Errorf("%w: 0x%02x", ErrUnknownFrameType, hdr[0])
	}
	n := binary.BigEndian.Uint32(hdr[1:])
	if n > MaxPayload {
		return Frame{}, fmt.Errorf("%w: %d bytes", ErrOversizedLength, n)
	}
	if t == FrameEnd && n != 0 {
		return Frame{}, fmt.Errorf("%w: END with %d-byte payload", ErrMalformedFrame, n)
	}
	if n == 0 {
		return Frame{Type: t}, nil
	}
	p := make([]byte, n)
	if _, err := io.ReadFull(c.r, p); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Frame{}, err
	}
	return Frame{Type: t, Payload: p}, nil
}

// TCPServer accepts framed connections.
type TCPServer struct {
	ln net.Listener
}

// ListenTCP starts listening on the given address.
func ListenTCP(host string, port int) (*TCPServer, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("tcp listen failed: %w", err)
	}
	return &TCPServer{ln: ln}, nil
}

// Accept waits for the next client connection.
func (s *TCPServer) Accept() (*Conn, error) {
	nc, err := s.ln.Accept()
	if err != nil {
		return nil, err
	}
	return NewConn(nc), nil
}

// Addr returns the bound listen address.
func (s *TCPServer) Addr() string {
	return s.ln.Addr().String()
}

// Close stops the listener.
func (s *TCPServer) Close() error {
	return s.ln.Close()
}
