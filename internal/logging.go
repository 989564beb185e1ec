package internal

import (
	"os"

	"github.com/op/go-logging"
)

const (
	logModule = "kur"
)

var (
	Log       = logging.MustGetLogger(logModule)
	logFormat = logging.MustStringFormatter(
		`%{color}%{time:15:04:05.000} %{level:.4s}%{color:reset} %{message}`,
	)
)

// InitLogging sets the diagnostic log level, 0 being CRITICAL and 5 being DEBUG.
func InitLogging(level int) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, logFormat)

	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.Level(level), logModule)
	logging.SetBackend(leveled)
}
