package commands

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	pomext "github.com/vorburger/pom-manipulation-ext"
)

// SetupLogger configures the global zerolog logger based on verbosity level.
//
//	0: warnings and errors only
//	1: info
//	2: debug
//	3+: trace
func SetupLogger(verbosity int) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}
	log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()

	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}
}

// EngineLogger returns the configured logger adapted to the engine's Logger
// interface, tagged with a component name.
func EngineLogger(component string) pomext.Logger {
	return pomext.NewZerologAdapter(log.With().Str("component", component).Logger())
}
