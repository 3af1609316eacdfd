package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"off": LevelOff, "PHASE": LevelPhase, "debug": LevelDebug, "error": LevelError} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopeNode) {
		t.Fatalf("phase level filtering wrong")
	}
	if !LevelDebug.ShouldEmit(ScopeNode) || LevelError.ShouldEmit(ScopeDriver) {
		t.Fatalf("debug/error level filtering wrong")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePass, "bind", 0)
	Begin(tr, ScopeNode, "scope", span.ID()).End("filtered")
	span.WithExtra("scopes", "3").End("done")

	out := buf.String()
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected begin and end only, got:\n%s", out)
	}
	if !strings.Contains(out, "→ pass:bind") || !strings.Contains(out, "← pass:bind (done) scopes=3") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeNode, "scope", "for@3", 0)

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("not json: %v (%q)", err, buf.String())
	}
	if ev["kind"] != "point" || ev["detail"] != "for@3" {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
	tr := NewStreamTracer(&bytes.Buffer{}, LevelPhase, FormatText)
	if FromContext(WithTracer(context.Background(), tr)) != Tracer(tr) {
		t.Fatalf("tracer not propagated")
	}
	if off, _ := New(Config{Level: LevelOff}); off.Enabled() {
		t.Fatalf("LevelOff must build a disabled tracer")
	}
	if Begin(Nop, ScopePass, "x", 0).End("") != 0 {
		t.Fatalf("nop span reported a duration")
	}
}
