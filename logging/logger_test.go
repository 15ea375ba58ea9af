package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"INFO":    logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithPrefixNestsComponent(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: "debug", Output: &buf, Prefix: "api"})

	root.WithPrefix("predictions").Infof("saved %d", 3)

	out := buf.String()
	if !strings.Contains(out, "component=\"api:predictions\"") && !strings.Contains(out, "component=api:predictions") {
		t.Fatalf("expected nested component field, got %q", out)
	}
	if !strings.Contains(out, "saved 3") {
		t.Fatalf("expected message in output, got %q", out)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	if logger.IsLevelEnabled("info") {
		t.Fatalf("info should be disabled at warn level")
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}
