package logger

import (
	"os"

	"github.com/rs/zerolog"
)

var L = zerolog.New(os.Stderr).With().Timestamp().Logger()

func Init(env string) {
	if env == "development" {
		L = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
		return
	}
	L = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}
