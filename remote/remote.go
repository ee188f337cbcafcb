package remote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sfmp/network"
	"sfmp/transfer"
)

// ErrLink marks failures that leave the connection unusable. The caller
// must drop it and reconnect before the next command.
var ErrLink = errors.New("connection failed")

// Result is the server's verdict on one command.
type Result struct {
	Status network.Status
	Bytes  int64
}

func (r Result) OK() bool { return r.Status.Code == network.StatusOK }

func linkErr(err error) error { return fmt.Errorf("%w: %v", ErrLink, err) }

func recvStatus(c *network.Conn) (network.Status, error) {
	fr, err := c.RecvFrame()
	if err != nil {
		return network.Status{}, linkErr(err)
	}
	st, err := fr.Status()
	if err != nil {
		return network.Status{}, linkErr(err)
	}
	return st, nil
}

// Get downloads a server-side file into dst. Local directories for dst are
// created up front; nothing appears at dst itself until the server reports
// success.
func Get(c *network.Conn, src, dst string) (Result, error) {
	if dir := filepath.Dir(dst); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create destination directory: %w", err)
		}
	}
	rcv, err := transfer.NewReceiver(dst)
	if err != nil {
		return Result{}, err
	}

	cmd := network.Command{Verb: network.VerbGet, Src: src, Dst: dst}
	if err := c.SendCommand(cmd.String()); err != nil {
		rcv.Discard()
		return Result{}, linkErr(err)
	}

	fr, err := c.RecvFrame()
	if err != nil {
		rcv.Discard()
		return Result{}, linkErr(err)
	}
	if fr.Type == network.FrameStatus {
		// the server refused before sending any data
		rcv.Discard()
		st, serr := fr.Status()
		if serr != nil {
			return Result{}, linkErr(serr)
		}
		return Result{Status: st}, nil
	}

	done, aerr := rcv.Apply(fr)
	for !done {
		if fr, err = c.RecvFrame(); err != nil {
			rcv.Discard()
			return Result{}, linkErr(err)
		}
		done, aerr = rcv.Apply(fr)
	}
	if aerr != nil {
		if errors.Is(aerr, network.ErrOutOfOrder) {
			rcv.Discard()
			return Result{}, linkErr(aerr)
		}
		// local disk failure; the stream is still aligned, so read the
		// verdict before surfacing it
		st, rerr := recvStatus(c)
		rcv.Discard()
		if rerr != nil {
			return Result{}, rerr
		}
		return Result{Status: st}, aerr
	}

	st, rerr := recvStatus(c)
	if rerr != nil {
		rcv.Discard()
		return Result{}, rerr
	}
	if st.Code != network.StatusOK {
		rcv.Discard()
		return Result{Status: st}, nil
	}
	if err := rcv.Commit(); err != nil {
		return Result{Status: st}, err
	}
	return Result{Status: st, Bytes: rcv.Bytes()}, nil
}

// Put uploads a local file to a server-side destination. A source that is
// missing or not a regular file fails before anything touches the wire.
func Put(c *network.Conn, src, dst string) (Result, error) {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", transfer.ErrSourceMissing, src)
		}
		return Result{}, fmt.Errorf("%w: %v", transfer.ErrStorageIO, err)
	}
	if !info.Mode().IsRegular() {
		return Result{}, fmt.Errorf("%w: %s", transfer.ErrSourceMissing, src)
	}
	f, err := os.Open(src)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", transfer.ErrStorageIO, err)
	}
	defer f.Close()

	cmd := network.Command{Verb: network.VerbPut, Src: src, Dst: dst}
	if err := c.SendCommand(cmd.String()); err != nil {
		return Result{}, linkErr(err)
	}

	out := transfer.SendFrom(c, f)
	if out.Err != nil && !errors.Is(out.Err, transfer.ErrStorageIO) {
		return Result{}, linkErr(out.Err)
	}

	st, rerr := recvStatus(c)
	if rerr != nil {
		return Result{}, rerr
	}
	if out.Err != nil {
		// the upload was truncated by a local read failure; the server saw
		// a clean end marker and judged what arrived
		return Result{Status: st, Bytes: out.Bytes}, out.Err
	}
	return Result{Status: st, Bytes: out.Bytes}, nil
}

// ListServer fetches the entry names under the served root.
func ListServer(c *network.Conn) ([]string, Result, error) {
	cmd := network.Command{Verb: network.VerbLs, Target: network.TargetServer}
	if err := c.SendCommand(cmd.String()); err != nil {
		return nil, Result{}, linkErr(err)
	}

	var body []byte
loop:
	for {
		fr, err := c.RecvFrame()
		if err != nil {
			return nil, Result{}, linkErr(err)
		}
		switch fr.Type {
		case network.FrameChunk:
			body = append(body, fr.Payload...)
		case network.FrameEnd:
			break loop
		case network.FrameStatus:
			if len(body) > 0 {
				return nil, Result{}, fmt.Errorf("%w: status frame inside listing", ErrLink)
			}
			st, serr := fr.Status()
			if serr != nil {
				return nil, Result{}, linkErr(serr)
			}
			return nil, Result{Status: st}, nil
		default:
			return nil, Result{}, fmt.Errorf("%w: %s frame inside listing", ErrLink, fr.Type)
		}
	}

	st, rerr := recvStatus(c)
	if rerr != nil {
		return nil, Result{}, rerr
	}
	if st.Code != network.StatusOK {
		return nil, Result{Status: st}, nil
	}

	var names []string
	if len(body) > 0 {
		names = strings.Split(strings.TrimSuffix(string(body), "\n"), "\n")
	}
	return names, Result{Status: st, Bytes: int64(len(body))}, nil
}
