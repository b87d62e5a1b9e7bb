package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetupQuiet(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, false)
	t.Cleanup(func() { Setup(os.Stderr, false) })

	Debugf("searching for show %s", "The Wire")
	WithField("provider", "tvdb").Debug("fetching")
	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q, want no debug output", buf.String())
	}

	Errorf("unknown provider %s", "foo")
	if !strings.Contains(buf.String(), "unknown provider foo") {
		t.Errorf("error missing from output %q", buf.String())
	}
}

func TestSetupVerbose(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, true)
	t.Cleanup(func() { Setup(os.Stderr, false) })

	Debugf("searching for show %s", "The Wire")
	WithField("provider", "tvdb").Debug("fetching")

	out := buf.String()
	for _, want := range []string{"searching for show The Wire", "fetching", "provider=tvdb", "level=debug"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
