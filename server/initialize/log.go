package initialize

import (
	"os"
	"time"

	"sfmp/server/global"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	global.Logger = log.Output(cw).With().Str("service", "sfmp-server").Logger()
}
