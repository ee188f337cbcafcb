package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sfmp/client/internal/config"
	"sfmp/client/internal/connection"
	"sfmp/client/internal/logger"
	"sfmp/network"
	"sfmp/remote"
)

var usageMessages = map[string]string{
	"GET": "Usage: GET remote-path local-path",
	"PUT": "Usage: PUT local-path remote-path",
	"LS":  "Usage: LS client|server",
}

// Shell is the client's interactive command loop. Commands that only
// touch the local filesystem never reach the wire; everything else goes
// through the managed connection.
type Shell struct {
	mgr *connection.Manager
	cfg config.AppConfig
	in  io.Reader
	out io.Writer
}

func New(mgr *connection.Manager, cfg config.AppConfig) *Shell {
	return &Shell{mgr: mgr, cfg: cfg, in: os.Stdin, out: os.Stdout}
}

// NewWithIO is New with explicit streams, for tests.
func NewWithIO(mgr *connection.Manager, cfg config.AppConfig, in io.Reader, out io.Writer) *Shell {
	return &Shell{mgr: mgr, cfg: cfg, in: in, out: out}
}

// Run reads commands until quit or the input ends.
func (s *Shell) Run() error {
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "sfmp> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil
		case "help":
			s.printUsage("")
			continue
		}
		s.Execute(line)
	}
}

// Execute runs one command line.
func (s *Shell) Execute(line string) {
	cmd, err := network.ParseCommand(line)
	if err != nil {
		fmt.Fprintln(s.out, "Please select a valid command.")
		verb := ""
		if fields := strings.Fields(line); len(fields) > 0 {
			verb = strings.ToUpper(fields[0])
		}
		s.printUsage(verb)
		return
	}

	if cmd.Verb == network.VerbLs && cmd.Target == network.TargetClient {
		s.listLocal()
		return
	}

	conn := s.conn()
	if conn == nil {
		return
	}

	switch cmd.Verb {
	case network.VerbGet:
		res, err := remote.Get(conn, cmd.Src, cmd.Dst)
		if s.report(res, err) && res.OK() {
			fmt.Fprintf(s.out, "Saved '%s' to '%s'\n", cmd.Src, cmd.Dst)
		}
	case network.VerbPut:
		res, err := remote.Put(conn, cmd.Src, cmd.Dst)
		s.report(res, err)
	case network.VerbLs:
		names, res, err := remote.ListServer(conn)
		if s.report(res, err) && res.OK() {
			s.printDir("server", names)
		}
	}
}

// conn returns a live connection, dialing if needed.
func (s *Shell) conn() *network.Conn {
	if c := s.mgr.Conn(); c != nil {
		return c
	}
	if err := s.mgr.Connect(s.cfg.MaxRetries, s.cfg.RetryDelay); err != nil {
		fmt.Fprintln(s.out, "There was a problem communicating with the server.")
		return nil
	}
	return s.mgr.Conn()
}

// report prints the outcome of a remote command. It returns false when a
// transport failure made the result meaningless; the broken connection is
// dropped so the next command redials.
func (s *Shell) report(res remote.Result, err error) bool {
	if err != nil {
		if errors.Is(err, remote.ErrLink) {
			fmt.Fprintln(s.out, "There was a problem communicating with the server.")
			logger.Errorf("link failed: %v", err)
			s.mgr.Drop()
			return false
		}
		fmt.Fprintln(s.out, "error:", err)
		return false
	}
	if res.OK() {
		fmt.Fprintln(s.out, res.Status.Message)
	} else {
		fmt.Fprintf(s.out, "%s: %s\n", res.Status.Code, res.Status.Message)
	}
	return true
}

func (s *Shell) listLocal() {
	entries, err := os.ReadDir(".")
	if err != nil {
		fmt.Fprintln(s.out, "error:", err)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	s.printDir("client", names)
}

func (s *Shell) printDir(target string, names []string) {
	fmt.Fprintf(s.out, "\nCurrent files in %s's directory:\n", target)
	fmt.Fprintln(s.out, strings.Repeat("-", 20))
	for _, n := range names {
		fmt.Fprintln(s.out, n)
	}
	fmt.Fprintln(s.out, strings.Repeat("-", 20))
	fmt.Fprintln(s.out)
}

func (s *Shell) printUsage(verb string) {
	if msg, ok := usageMessages[verb]; ok {
		fmt.Fprintln(s.out, msg)
		return
	}
	for _, v := range []string{"GET", "PUT", "LS"} {
		fmt.Fprintln(s.out, usageMessages[v])
	}
}
