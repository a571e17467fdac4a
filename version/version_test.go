package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestLinkedValuesWin(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v1.2.3", "0123456789abcdef", "2025-01-01T00:00:00Z"
	if got := GetVersion(); got != "v1.2.3" {
		t.Errorf("GetVersion = %q", got)
	}
	if got, want := GetFullVersion(), "v1.2.3 (0123456, built 2025-01-01T00:00:00Z)"; got != want {
		t.Errorf("GetFullVersion = %q, want %q", got, want)
	}

	Date = "unknown"
	if got, want := GetFullVersion(), "v1.2.3 (0123456)"; got != want {
		t.Errorf("GetFullVersion = %q, want %q", got, want)
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, "progstore")
	if !strings.HasPrefix(buf.String(), "progstore version ") {
		t.Errorf("output %q", buf.String())
	}
}
