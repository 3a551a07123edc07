package output

import (
	"bytes"
	"strings"
	"testing"
)

type statusDoc struct {
	State    string `json:"state"`
	CoreType string `json:"core_type,omitempty"`
	PID      int    `json:"pid"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON, false).(*JSONFormatter); !ok {
		t.Error("json should give JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML, false).(*YAMLFormatter); !ok {
		t.Error("yaml should give YAMLFormatter")
	}
	tf, ok := NewFormatter(FormatTable, true).(*TableFormatter)
	if !ok || !tf.NoHeaders {
		t.Error("table should give TableFormatter with NoHeaders")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, statusDoc{State: "running", PID: 7}); err != nil {
		t.Fatal(err)
	}

	want := "{\n  \"state\": \"running\",\n  \"pid\": 7\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestJSONFormatter_Compact(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{Compact: true}
	for _, doc := range []statusDoc{{State: "starting"}, {State: "running", PID: 7}} {
		if err := f.Format(&buf, doc); err != nil {
			t.Fatal(err)
		}
	}

	want := "{\"state\":\"starting\",\"pid\":0}\n{\"state\":\"running\",\"pid\":7}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	doc := map[string]any{"core": statusDoc{State: "running", CoreType: "mihomo", PID: 7}}
	if err := (&YAMLFormatter{}).Format(&buf, doc); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"core:\n", "  state: running\n", "  core_type: mihomo\n", "  pid: 7\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output missing %q:\n%s", want, out)
		}
	}
}

func TestYAMLFormatter_Unencodable(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, make(chan int)); err == nil {
		t.Error("expected error for a channel value")
	}
}
