package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContextFallsBack(t *testing.T) {
	fallback := NewLogger(Config{})
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback logger for bare context")
	}

	stored := NewLogger(Config{Format: "json"})
	ctx := WithLogger(context.Background(), stored)
	if got := FromContext(ctx, fallback); got != stored {
		t.Fatal("expected context logger to win")
	}
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	Debug(nil, "ignored")
	Info(nil, "ignored")
	Warn(nil, "ignored")
	Error(nil, "ignored", nil)
}

func TestErrorHelperAppendsErrorAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	Error(logger, "fetch failed", errors.New("boom"), FieldScope, "lic-1")

	out := buf.String()
	if !strings.Contains(out, `"error":"boom"`) {
		t.Fatalf("error attribute missing: %s", out)
	}
	if !strings.Contains(out, `"scope":"lic-1"`) {
		t.Fatalf("caller attributes dropped: %s", out)
	}
}

func TestDebugHelperRespectsHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	Debug(logger, "suppressed")

	if buf.Len() != 0 {
		t.Fatalf("debug line emitted below handler level: %s", buf.String())
	}
}
