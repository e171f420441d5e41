package mimemagic

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	reg := NewRegistry()
	mustAdd(t, reg, "a/a", nil, []string{"b/b"})
	_ = reg.Add("b/b", nil, []string{"a/a"})

	s := &faultyStream{r: bytes.NewReader([]byte("data")), limit: 0}
	Match(s, []MagicRule{RuleString(Fixed(2), "ta")})

	out := buf.String()
	for _, want := range []string{"registered type", "rejected type registration", "magic seek failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}

	SetLogger(nil)
	buf.Reset()
	mustAdd(t, reg, "c/c", nil, nil)
	if buf.Len() != 0 {
		t.Errorf("nil logger should discard output, got %q", buf.String())
	}
}
