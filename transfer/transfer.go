package transfer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sfmp/network"
)

var (
	ErrSourceMissing = errors.New("source is missing or not a regular file")
	ErrNoParentDir   = errors.New("destination directory does not exist")
	ErrStorageIO     = errors.New("storage i/o failed")
)

// Outcome reports how a send ended.
type Outcome struct {
	Bytes int64
	Err   error
}

// OK reports whether the transfer completed.
func (o Outcome) OK() bool { return o.Err == nil }

// SendFile streams one file as a chunk sequence terminated by an end
// marker. A source that is missing or not a regular file fails before any
// frame is written.
func SendFile(c *network.Conn, path string) Outcome {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Outcome{Err: fmt.Errorf("%w: %s", ErrSourceMissing, filepath.Base(path))}
		}
		return Outcome{Err: fmt.Errorf("%w: %v", ErrStorageIO, err)}
	}
	if !info.Mode().IsRegular() {
		return Outcome{Err: fmt.Errorf("%w: %s", ErrSourceMissing, filepath.Base(path))}
	}
	f, err := os.Open(path)
	if err != nil {
		return Outcome{Err: fmt.Errorf("%w: %v", ErrStorageIO, err)}
	}
	defer f.Close()
	return SendFrom(c, f)
}

// SendFrom streams an already opened source. A read failure mid-stream
// still sends the end marker so the peer stays frame-aligned; the failure
// comes back as ErrStorageIO. Any other error is a wire failure.
func SendFrom(c *network.Conn, r io.Reader) Outcome {
	var sent int64
	buf := make([]byte, network.ChunkSize)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if werr := c.SendChunk(buf[:n]); werr != nil {
				return Outcome{Bytes: sent, Err: fmt.Errorf("send chunk: %w", werr)}
			}
			sent += int64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			_ = c.SendEnd()
			return Outcome{Bytes: sent, Err: fmt.Errorf("%w: %v", ErrStorageIO, rerr)}
		}
	}
	if err := c.SendEnd(); err != nil {
		return Outcome{Bytes: sent, Err: fmt.Errorf("send end: %w", err)}
	}
	return Outcome{Bytes: sent}
}

// SendListing streams an in-memory listing body with the same chunk
// grammar used for files.
func SendListing(c *network.Conn, body []byte) Outcome {
	var sent int64
	for len(body) > 0 {
		n := len(body)
		if n > network.ChunkSize {
			n = network.ChunkSize
		}
		if err := c.SendChunk(body[:n]); err != nil {
			return Outcome{Bytes: sent, Err: fmt.Errorf("send chunk: %w", err)}
		}
		sent += int64(n)
		body = body[n:]
	}
	if err := c.SendEnd(); err != nil {
		return Outcome{Bytes: sent, Err: fmt.Errorf("send end: %w", err)}
	}
	return Outcome{Bytes: sent}
}

// DrainTransfer consumes and discards an incoming chunk sequence through
// its end marker, keeping the stream frame-aligned after a rejected
// destination.
func DrainTransfer(c *network.Conn) error {
	for {
		fr, err := c.RecvFrame()
		if err != nil {
			return err
		}
		switch fr.Type {
		case network.FrameChunk:
		case network.FrameEnd:
			return nil
		default:
			return fmt.Errorf("%w: %s frame during transfer", network.ErrOutOfOrder, fr.Type)
		}
	}
}

// Receiver lands an incoming chunk stream in a temporary sibling file.
// Nothing appears at the final path until Commit renames the temporary
// file into place, so an interrupted transfer never leaves a partial file
// under the destination name.
type Receiver struct {
	finalPath string
	tempPath  string
	f         *os.File
	bytes     int64
	diskErr   error
}

// NewReceiver prepares a destination. The parent directory must already
// exist; receivers never create directories.
func NewReceiver(finalPath string) (*Receiver, error) {
	dir := filepath.Dir(finalPath)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoParentDir, dir)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoParentDir, dir)
	}
	tempPath := finalPath + ".part"
	f, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	return &Receiver{finalPath: finalPath, tempPath: tempPath, f: f}, nil
}

// Apply folds one received frame into the transfer and reports done when
// the end marker is seen. A disk failure is latched so remaining frames
// still drain through Apply, keeping the stream aligned; the latched
// failure surfaces at the end marker.
func (r *Receiver) Apply(fr network.Frame) (bool, error) {
	switch fr.Type {
	case network.FrameChunk:
		if r.diskErr != nil {
			return false, nil
		}
		if _, err := r.f.Write(fr.Payload); err != nil {
			r.diskErr = fmt.Errorf("%w: %v", ErrStorageIO, err)
			return false, nil
		}
		r.bytes += int64(len(fr.Payload))
		return false, nil
	case network.FrameEnd:
		return true, r.diskErr
	default:
		return true, fmt.Errorf("%w: %s frame during transfer", network.ErrOutOfOrder, fr.Type)
	}
}

// Consume reads frames from the connection until the end marker.
func (r *Receiver) Consume(c *network.Conn) (int64, error) {
	for {
		fr, err := c.RecvFrame()
		if err != nil {
			return r.bytes, err
		}
		done, err := r.Apply(fr)
		if err != nil {
			return r.bytes, err
		}
		if done {
			return r.bytes, nil
		}
	}
}

// Bytes returns how many bytes have been written so far.
func (r *Receiver) Bytes() int64 { return r.bytes }

// Commit closes the temporary file and renames it into place.
func (r *Receiver) Commit() error {
	if err := r.f.Close(); err != nil {
		_ = os.Remove(r.tempPath)
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if err := os.Rename(r.tempPath, r.finalPath); err != nil {
		_ = os.Remove(r.tempPath)
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	return nil
}

// Discard drops the partial file, leaving the final path untouched.
func (r *Receiver) Discard() {
	_ = r.f.Close()
	_ = os.Remove(r.tempPath)
}
