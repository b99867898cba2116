package lax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(zapcore.DebugLevel, ParseLevel("V"))
	assert.Equal(zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(zapcore.InfoLevel, ParseLevel("I"))
	assert.Equal(zapcore.WarnLevel, ParseLevel("W"))
	assert.Equal(zapcore.ErrorLevel, ParseLevel("E"))
	assert.Equal(zapcore.DPanicLevel, ParseLevel("N"))
	assert.Equal(zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(zapcore.InfoLevel, ParseLevel("?"))
}

func TestEnvLevel(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("ETHERDEV_LOG", "W")
	t.Setenv("ETHERDEV_LOG_laxtest", "D")
	assert.Equal("D", envLevel("laxtest"))
	assert.Equal("W", envLevel("other"))

	assert.True(New("laxtest").Core().Enabled(zapcore.DebugLevel))
	assert.False(New("other").Core().Enabled(zapcore.InfoLevel))
}

func TestFrame(t *testing.T) {
	assert := assert.New(t)
	core, logs := observer.New(zap.DebugLevel)
	zap.New(core).Debug("frame", Frame("data", []byte{0xca, 0xfe}))
	assert.Equal("cafe", logs.All()[0].ContextMap()["data"])
}
