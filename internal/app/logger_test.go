package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "json", AppEnv: "production"})
	logger.Info("started")

	out := buf.String()
	for _, want := range []string{`"service":"cantiere"`, `"env":"production"`, `"msg":"started"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("json log output missing %s: %s", want, out)
		}
	}
}

func TestNewLoggerDefaultsToText(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "pretty", AppEnv: "development"})
	logger.Info("started")

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected text output, got JSON: %s", out)
	}
	if !strings.Contains(out, "service=cantiere") {
		t.Fatalf("text log output missing service attr: %s", out)
	}
}

func TestNewLoggerNilConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, nil)
	logger.Info("started")

	if !strings.Contains(buf.String(), "service=cantiere") {
		t.Fatalf("nil config should still tag the service: %s", buf.String())
	}
}
