// Package global holds process-wide server state: the loaded
// configuration, the root logger, and the history database handle.
package global

import (
	"sfmp/server/config"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	Config config.Config
	Logger zerolog.Logger
	Mdb    *gorm.DB
)
