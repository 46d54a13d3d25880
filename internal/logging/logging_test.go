package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{Level: level, Output: &buf, Prefix: "test"})
	l.sink.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return l, &buf
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"Info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
		}
		if err != nil && !errors.Is(err, ErrUnknownLevel) {
			t.Errorf("error %v should wrap ErrUnknownLevel", err)
		}
	}
}

func TestLogFormat(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)
	l.WithComponent("search").WithField("matches", 3).Info("found %q", "cat")

	want := `2024-05-01T12:00:00.000 [INFO] test: found "cat" {component=search, matches=3}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newTestLogger(LevelWarn)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	if n := strings.Count(buf.String(), "shown"); n != 2 {
		t.Errorf("got %d lines, want 2:\n%s", n, buf.String())
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Error("messages below the level were written")
	}
}

func TestDerivedLoggersShareLevel(t *testing.T) {
	l, buf := newTestLogger(LevelError)
	child := l.WithComponent("clipboard")

	child.Debug("before")
	l.SetLevel(LevelDebug)
	child.Debug("after")

	if strings.Contains(buf.String(), "before") || !strings.Contains(buf.String(), "after") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if !child.Enabled(LevelDebug) {
		t.Error("child should see the parent's level")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	if l.Enabled(LevelError) {
		t.Error("Nop logger should be disabled")
	}
}
