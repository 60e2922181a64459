package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, parseLevel(InfoLevel))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(WarnLevel))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel(ErrorLevel))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("verbose"))
}

func TestGetIsSingleton(t *testing.T) {
	a := Get(ErrorLevel)
	b := Get(DebugLevel)
	assert.Same(t, a, b)
	assert.False(t, a.Desugar().Core().Enabled(zapcore.InfoLevel))
}
