package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default config", DefaultConfig(), false},
		{"text format", Config{Level: "debug", Format: "text"}, false},
		{"console alias", Config{Level: "info", Format: "console"}, false},
		{"empty format is json", Config{Level: "warn"}, false},
		{"unknown format", Config{Level: "info", Format: "xml"}, true},
		{"unknown level", Config{Level: "trace", Format: "json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("core started", "core_type", "mihomo", "pid", 42)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "core started" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["core_type"] != "mihomo" {
		t.Errorf("core_type = %v", entry["core_type"])
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = SetLevel("info") })

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug message logged at info level: %q", buf.String())
	}

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	if GetLevel() != "debug" {
		t.Errorf("GetLevel() = %q, want debug", GetLevel())
	}

	l.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug message missing after SetLevel: %q", buf.String())
	}

	if err := SetLevel("loud"); err == nil {
		t.Error("SetLevel() should reject unknown levels")
	}
	if GetLevel() != "debug" {
		t.Errorf("GetLevel() = %q after rejected SetLevel, want debug", GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"", "INFO"},
		{"INFO", "INFO"},
		{"warning", "WARN"},
		{"error", "ERROR"},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("dropped")
}
