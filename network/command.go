package network

import (
	"errors"
	"fmt"
	"strings"
)

// Verb is the operation requested by a command.
type Verb int

const (
	VerbGet Verb = iota
	VerbPut
	VerbLs
)

func (v Verb) String() string {
	switch v {
	case VerbGet:
		return "GET"
	case VerbPut:
		return "PUT"
	case VerbLs:
		return "LS"
	default:
		return "INVALID"
	}
}

// ListTarget selects which side an LS command enumerates.
type ListTarget int

const (
	TargetClient ListTarget = iota
	TargetServer
)

func (t ListTarget) String() string {
	if t == TargetServer {
		return "server"
	}
	return "client"
}

// ErrBadCommand marks command text that does not parse. Malformed input
// never yields a Command value.
var ErrBadCommand = errors.New("bad command")

// Command is one parsed, immutable client request.
//
// GET and PUT carry a source and destination path; for GET the source is
// server-side and the destination client-side, for PUT the reverse. LS
// carries only a target selector; "LS client" is handled locally by the
// client and never crosses the wire.
type Command struct {
	Verb   Verb
	Src    string
	Dst    string
	Target ListTarget
}

// ParseCommand parses space-delimited command text. Verbs and the LS
// target are case-insensitive.
func ParseCommand(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty command", ErrBadCommand)
	}
	switch strings.ToUpper(fields[0]) {
	case "GET":
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("%w: GET takes a source and a destination", ErrBadCommand)
		}
		return Command{Verb: VerbGet, Src: fields[1], Dst: fields[2]}, nil
	case "PUT":
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("%w: PUT takes a source and a destination", ErrBadCommand)
		}
		return Command{Verb: VerbPut, Src: fields[1], Dst: fields[2]}, nil
	case "LS":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: LS takes a target (client or server)", ErrBadCommand)
		}
		switch strings.ToLower(fields[1]) {
		case "client":
			return Command{Verb: VerbLs, Target: TargetClient}, nil
		case "server":
			return Command{Verb: VerbLs, Target: TargetServer}, nil
		default:
			return Command{}, fmt.Errorf("%w: LS target must be client or server, got %q", ErrBadCommand, fields[1])
		}
	default:
		return Command{}, fmt.Errorf("%w: unknown verb %q", ErrBadCommand, fields[0])
	}
}

// String re-encodes the command in canonical wire form.
func (c Command) String() string {
	if c.Verb == VerbLs {
		return fmt.Sprintf("LS %s", c.Target)
	}
	return fmt.Sprintf("%s %s %s", c.Verb, c.Src, c.Dst)
}
