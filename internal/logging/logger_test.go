//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitLevel(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			Init(Config{Level: tt.level})
			if Logger.GetLevel() != tt.want {
				t.Errorf("Expected level %s, got %s", tt.want, Logger.GetLevel())
			}
		})
	}
}

func TestComponentField(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})

	log := Component("loader")
	log.Info().Str("table", "orders").Msg("Loaded table")

	out := buf.String()
	if !strings.Contains(out, `"component":"loader"`) {
		t.Errorf("Expected component field in output, got: %s", out)
	}
	if !strings.Contains(out, `"table":"orders"`) {
		t.Errorf("Expected table field in output, got: %s", out)
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})

	Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected no output for debug at info level, got: %s", buf.String())
	}
}
