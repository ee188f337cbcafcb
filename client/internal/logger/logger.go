package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// L is the client logger. Shell output goes straight to stdout; L goes to
// the configured log file so transcripts are not interleaved with prompts.
var L zerolog.Logger

// Init routes the log to path, or to a console writer on stdout when no
// path is configured. File logs are structured JSON lines.
func Init(path string) error {
	if path == "" {
		L = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		return nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	L = zerolog.New(file).With().Timestamp().Logger()
	return nil
}

func Infof(f string, v ...interface{})  { L.Info().Msgf(f, v...) }
func Warnf(f string, v ...interface{})  { L.Warn().Msgf(f, v...) }
func Errorf(f string, v ...interface{}) { L.Error().Msgf(f, v...) }
