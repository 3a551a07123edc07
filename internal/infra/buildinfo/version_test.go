package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.Commit == "" {
		t.Error("Commit should not be empty")
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", info.Platform)
	}
}

func TestGet_InjectedCommit(t *testing.T) {
	old := Commit
	Commit = "abc1234"
	t.Cleanup(func() { Commit = old })

	if got := Get().Commit; got != "abc1234" {
		t.Errorf("Commit = %q, want injected value", got)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, Version+" (") {
		t.Errorf("String() = %q, want version prefix", s)
	}
	if !strings.Contains(s, "built at "+BuildTime) {
		t.Errorf("String() = %q, want build time", s)
	}
}
