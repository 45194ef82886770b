package initialize

import (
	"io"
	"os"
	"time"

	"feedback-board/backend/config"
	"feedback-board/backend/global"

	"github.com/rs/zerolog"
)

// InitLogger builds the process logger from cfg and publishes it on global.Logger.
func InitLogger(cfg config.Log, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	global.Logger = logger
	return logger
}
