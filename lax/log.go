// Package lax is a thin wrapper of zap logging library.
//
// Log level of a package is read from ETHERDEV_LOG_<pkg> environment variable,
// falling back to ETHERDEV_LOG. The first letter selects the level:
// V or D for debug, I for info, W for warn, E for error, F or N for fatal only.
package lax

import (
	"os"

	"github.com/soypat/etherdev/hex"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var root = func() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		os.Stderr,
		zap.DebugLevel,
	)
	return zap.New(core)
}()

// New creates a logger with the configured level.
// By convention, this should appear in the same .go file as the package docstring:
//  var logger = lax.New("Foo")
func New(pkg string) *zap.Logger {
	return root.Named(pkg).
		WithOptions(zap.IncreaseLevel(zap.NewAtomicLevelAt(ParseLevel(envLevel(pkg)))))
}

func envLevel(pkg string) string {
	v, ok := os.LookupEnv("ETHERDEV_LOG_" + pkg)
	if !ok {
		v = os.Getenv("ETHERDEV_LOG")
	}
	return v
}

// ParseLevel converts a level letter to zap level.
// Unknown or empty input yields info level.
func ParseLevel(input string) zapcore.Level {
	if len(input) == 0 {
		return zapcore.InfoLevel
	}
	switch input[0] {
	case 'V', 'D':
		return zapcore.DebugLevel
	case 'I':
		return zapcore.InfoLevel
	case 'W':
		return zapcore.WarnLevel
	case 'E':
		return zapcore.ErrorLevel
	case 'F', 'N':
		return zapcore.DPanicLevel
	}
	return zapcore.InfoLevel
}

// Frame creates a field that renders b as hexadecimal.
// Encoding happens only when the entry is written.
func Frame(key string, b []byte) zap.Field {
	return zap.Stringer(key, hexBytes(b))
}

type hexBytes []byte

func (b hexBytes) String() string {
	return string(hex.Bytes(b))
}
