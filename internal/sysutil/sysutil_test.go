package sysutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func keepGlobalLevel(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })
}

func TestSetLogLevel(t *testing.T) {
	keepGlobalLevel(t)

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  DeBuG  ", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		SetLogLevel(tc.in)
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Fatalf("SetLogLevel(%q) -> %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewLogger_JSONAndPretty(t *testing.T) {
	keepGlobalLevel(t)

	var buf bytes.Buffer
	lg := NewLogger("warn", false, &buf)
	lg.Info().Msg("hidden")
	lg.Warn().Str("movie", "Heat").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line passed a warn level: %s", out)
	}
	if !strings.Contains(out, `"movie":"Heat"`) || !strings.Contains(out, `"time":`) {
		t.Fatalf("unexpected json line: %s", out)
	}

	buf.Reset()
	lg = NewLogger("debug", true, &buf)
	lg.Debug().Msg("pretty")
	if out := buf.String(); strings.HasPrefix(out, "{") || !strings.Contains(out, "pretty") {
		t.Fatalf("expected console output, got %q", out)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("FirstNonEmpty() = %q", got)
	}
	if got := FirstNonEmpty(" ", "\t"); got != "" {
		t.Fatalf("blanks = %q", got)
	}
	if got := FirstNonEmpty("   ", "  v1.2.0 ", "dev"); got != "  v1.2.0 " {
		t.Fatalf("FirstNonEmpty = %q", got)
	}
}
