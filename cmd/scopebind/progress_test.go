package main

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"scopebind/internal/cache"
	"scopebind/internal/ident"
	"scopebind/internal/source"
	"scopebind/internal/ui"
)

type eventLog struct{ events []ui.Event }

func (l *eventLog) Emit(ev ui.Event) { l.events = append(l.events, ev) }

func TestDiagnoseAllReportsFixtureResults(t *testing.T) {
	prev := ident.Default()
	t.Cleanup(func() { ident.SetDefault(prev) })
	resetFlags(rootCmd)
	diagCmd.SetContext(context.Background())

	path := writeFixture(t, "loop.toml", loopFixture)
	dc, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	for _, cached := range []bool{false, true} {
		log := &eventLog{}
		bag, err := diagnoseAll(diagCmd, source.NewFileSet(), []string{path}, dc, log)
		if err != nil {
			t.Fatalf("diagnoseAll: %v", err)
		}
		want := []ui.Event{
			{File: path},
			{File: path, Done: true, Result: ui.Result{Scopes: 2, Locals: 2, Errors: 2, Cached: cached}},
		}
		if !reflect.DeepEqual(log.events, want) {
			t.Fatalf("cached=%v: events = %+v", cached, log.events)
		}
		if bag.Len() != 2 {
			t.Fatalf("cached=%v: bag has %d diagnostics", cached, bag.Len())
		}
	}

	log := &eventLog{}
	missing := filepath.Join(t.TempDir(), "missing.toml")
	if _, err := diagnoseAll(diagCmd, source.NewFileSet(), []string{missing, path}, nil, log); err == nil {
		t.Fatal("missing fixture accepted")
	}
	if len(log.events) != 2 || !log.events[1].Result.Failed {
		t.Fatalf("events = %+v", log.events)
	}
}

func TestUIModeFlag(t *testing.T) {
	var m uiMode
	for _, v := range []string{"auto", " ON ", "off"} {
		if err := m.Set(v); err != nil {
			t.Fatalf("Set(%q): %v", v, err)
		}
	}
	if m != uiOff || m.String() != "off" {
		t.Fatalf("mode = %q", m)
	}
	if err := m.Set("sometimes"); err == nil || m != uiOff {
		t.Fatalf("Set(sometimes) = %v, mode %q", err, m)
	}

	tests := []struct {
		mode           uiMode
		stdout, stderr bool
		want           bool
	}{
		{uiOn, false, false, true},
		{uiOff, true, true, false},
		{uiAuto, true, true, true},
		{uiAuto, false, true, false},
		{uiAuto, true, false, false},
	}
	for _, tt := range tests {
		if got := tt.mode.showBoard(tt.stdout, tt.stderr); got != tt.want {
			t.Fatalf("%s.showBoard(%v, %v) = %v", tt.mode, tt.stdout, tt.stderr, got)
		}
	}
}
