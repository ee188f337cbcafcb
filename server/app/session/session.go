package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sfmp/network"
	"sfmp/server/app/metrics"
	"sfmp/server/app/services"
	"sfmp/server/app/storage"
	"sfmp/transfer"
)

// Session owns one client connection from accept to close: it reads one
// command frame, resolves paths against its root, delegates to the
// transfer engine or the lister, and answers with exactly one terminal
// status frame before accepting the next command. History and metrics are
// optional collaborators.
type Session struct {
	ID      string
	conn    *network.Conn
	root    storage.Root
	history *services.HistoryService
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// result is the terminal outcome of one command.
type result struct {
	status  network.StatusCode
	message string
	bytes   int64
}

func New(conn *network.Conn, root storage.Root, history *services.HistoryService, m *metrics.Metrics, log zerolog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		ID:      id,
		conn:    conn,
		root:    root,
		history: history,
		metrics: m,
		log:     log.With().Str("session", id).Str("remote", conn.RemoteAddr()).Logger(),
	}
}

// Run drives the session until the client disconnects or the stream stops
// being frame-aligned. It always closes the connection on the way out.
func (s *Session) Run() {
	defer s.conn.Close()
	if s.metrics != nil {
		s.metrics.SessionStarted()
		defer s.metrics.SessionEnded()
	}
	s.log.Info().Msg("session opened")

	for {
		fr, err := s.conn.RecvFrame()
		if err != nil {
			s.logClose(err)
			return
		}
		if fr.Type != network.FrameCommand {
			s.logClose(fmt.Errorf("%w: %s frame while awaiting command", network.ErrOutOfOrder, fr.Type))
			return
		}
		if !s.handleCommand(fr.CommandText()) {
			return
		}
	}
}

func (s *Session) logClose(err error) {
	if errors.Is(err, io.EOF) {
		s.log.Info().Msg("client disconnected")
		return
	}
	if s.metrics != nil {
		s.metrics.ProtocolError()
	}
	s.log.Warn().Err(err).Msg("closing connection after protocol error")
}

// handleCommand executes one command and reports whether the connection
// is still usable.
func (s *Session) handleCommand(text string) bool {
	started := time.Now()

	cmd, perr := network.ParseCommand(text)
	if perr != nil {
		s.log.Warn().Str("text", text).Err(perr).Msg("command rejected")
		return s.finish(started, "INVALID", "", "", result{status: network.StatusBadCommand, message: perr.Error()})
	}
	s.log.Info().Str("command", cmd.String()).Msg("command received")

	var res result
	var fatal error
	switch cmd.Verb {
	case network.VerbGet:
		res, fatal = s.handleGet(cmd)
	case network.VerbPut:
		res, fatal = s.handlePut(cmd)
	case network.VerbLs:
		res, fatal = s.handleList(cmd)
	}
	if fatal != nil {
		s.logClose(fatal)
		return false
	}
	return s.finish(started, cmd.Verb.String(), cmd.Src, cmd.Dst, res)
}

// handleGet streams a served file to the client. Failures before the first
// chunk produce a lone failure status; a read failure mid-stream is
// truncated with the end marker so the terminal status stays decodable.
func (s *Session) handleGet(cmd network.Command) (result, error) {
	rp, err := s.root.Resolve(cmd.Src)
	if err != nil {
		if errors.Is(err, storage.ErrOutsideRoot) {
			return result{status: network.StatusOutsideRoot, message: fmt.Sprintf("path escapes served root: %s", cmd.Src)}, nil
		}
		return result{status: network.StatusIOError, message: fmt.Sprintf("cannot resolve %s", cmd.Src)}, nil
	}

	s.log.Info().Str("path", rp.Abs).Msg("transfer started")
	out := transfer.SendFile(s.conn, rp.Abs)
	if out.Err != nil {
		switch {
		case errors.Is(out.Err, transfer.ErrSourceMissing):
			return result{status: network.StatusFileNotFound, message: fmt.Sprintf("file not found: %s", cmd.Src)}, nil
		case errors.Is(out.Err, transfer.ErrStorageIO):
			return result{status: network.StatusIOError, message: fmt.Sprintf("read failed: %s", cmd.Src), bytes: out.Bytes}, nil
		default:
			return result{}, out.Err
		}
	}
	return result{status: network.StatusOK, message: fmt.Sprintf("sent %d bytes", out.Bytes), bytes: out.Bytes}, nil
}

// handlePut lands an incoming file under the served root. When the
// destination is rejected, the incoming chunk sequence is drained and
// discarded so the stream stays frame-aligned for the failure status.
func (s *Session) handlePut(cmd network.Command) (result, error) {
	var failure *result
	rp, err := s.root.Resolve(cmd.Dst)
	if err != nil {
		if errors.Is(err, storage.ErrOutsideRoot) {
			failure = &result{status: network.StatusOutsideRoot, message: fmt.Sprintf("path escapes served root: %s", cmd.Dst)}
		} else {
			failure = &result{status: network.StatusIOError, message: fmt.Sprintf("cannot resolve %s", cmd.Dst)}
		}
	} else if rp.Exists && rp.IsDir {
		failure = &result{status: network.StatusIOError, message: fmt.Sprintf("destination is a directory: %s", cmd.Dst)}
	}

	var rcv *transfer.Receiver
	if failure == nil {
		rcv, err = transfer.NewReceiver(rp.Abs)
		if err != nil {
			if errors.Is(err, transfer.ErrNoParentDir) {
				failure = &result{status: network.StatusDirectoryNotFound, message: fmt.Sprintf("directory not found for: %s", cmd.Dst)}
			} else {
				failure = &result{status: network.StatusIOError, message: fmt.Sprintf("cannot open destination: %s", cmd.Dst)}
			}
		}
	}
	if failure != nil {
		if err := transfer.DrainTransfer(s.conn); err != nil {
			return result{}, err
		}
		return *failure, nil
	}

	s.log.Info().Str("path", rp.Abs).Msg("transfer started")
	n, err := rcv.Consume(s.conn)
	if err != nil {
		rcv.Discard()
		if errors.Is(err, transfer.ErrStorageIO) {
			return result{status: network.StatusIOError, message: "write failed on server", bytes: n}, nil
		}
		return result{}, err
	}
	if err := rcv.Commit(); err != nil {
		return result{status: network.StatusIOError, message: fmt.Sprintf("cannot place destination: %s", cmd.Dst), bytes: n}, nil
	}
	return result{status: network.StatusOK, message: fmt.Sprintf("received %d bytes", n), bytes: n}, nil
}

// handleList streams the root listing. "LS client" never legitimately
// reaches the server; answer it like any other unusable command.
func (s *Session) handleList(cmd network.Command) (result, error) {
	if cmd.Target == network.TargetClient {
		return result{status: network.StatusBadCommand, message: "LS client is local to the client"}, nil
	}

	rp, err := s.root.Resolve(".")
	if err != nil {
		return result{status: network.StatusIOError, message: "cannot resolve served root"}, nil
	}
	names, err := storage.List(rp)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return result{status: network.StatusDirectoryNotFound, message: "served root does not exist"}, nil
		case errors.Is(err, storage.ErrNotADirectory):
			return result{status: network.StatusNotADirectory, message: "served root is not a directory"}, nil
		default:
			return result{status: network.StatusIOError, message: "cannot read served root"}, nil
		}
	}

	out := transfer.SendListing(s.conn, storage.ListingBody(names))
	if out.Err != nil {
		return result{}, out.Err
	}
	s.log.Info().Int("entries", len(names)).Msg("listing produced")
	return result{status: network.StatusOK, message: fmt.Sprintf("%d entries", len(names)), bytes: out.Bytes}, nil
}

// finish sends the terminal status and records the outcome. It reports
// whether the connection survived the send.
func (s *Session) finish(started time.Time, verb, src, dst string, res result) bool {
	if err := s.conn.SendStatus(res.status, res.message); err != nil {
		s.logClose(err)
		return false
	}
	dur := time.Since(started)

	evt := s.log.Info()
	if res.status != network.StatusOK {
		evt = s.log.Warn()
	}
	evt.Str("verb", verb).
		Str("status", res.status.String()).
		Int64("bytes", res.bytes).
		Dur("duration", dur).
		Msg("command finished")

	if s.metrics != nil {
		s.metrics.CommandDone(verb, res.status.String())
		if res.status == network.StatusOK {
			switch verb {
			case "GET":
				s.metrics.TransferDone("download", res.bytes, dur.Seconds())
			case "PUT":
				s.metrics.TransferDone("upload", res.bytes, dur.Seconds())
			}
		}
	}
	if s.history != nil {
		if err := s.history.Record(services.Entry{
			SessionID: s.ID,
			Remote:    s.conn.RemoteAddr(),
			Verb:      verb,
			SrcPath:   src,
			DstPath:   dst,
			Status:    res.status.String(),
			Message:   res.message,
			Bytes:     res.bytes,
			Duration:  dur,
		}); err != nil {
			s.log.Error().Err(err).Msg("record history failed")
		}
	}
	return true
}
