package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerConfig(t *testing.T) {
	cfg := loggerConfig("debug", false)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, os.Stderr, cfg.Output)

	cfg = loggerConfig("warn", true)
	assert.Equal(t, io.Discard, cfg.Output)
	assert.False(t, cfg.Pretty)
}
