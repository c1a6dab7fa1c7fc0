package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerFormatSelection(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogLevel: "info", LogFormat: "json"}, &buf)
	logger.Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "json format must emit JSON lines")

	buf.Reset()
	logger = newLogger(&Config{LogLevel: "info", LogFormat: "text"}, &buf)
	logger.Info("hello")
	assert.False(t, strings.HasPrefix(buf.String(), "{"))
}

func TestNewLoggerLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogLevel: "chatty", LogFormat: "text"}, &buf)
	logger.Debug("hidden")
	assert.Empty(t, buf.String(), "unknown levels fall back to info")
	logger.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}
