package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"scopebind/internal/cache"
	"scopebind/internal/diag"
	"scopebind/internal/source"
	"scopebind/internal/ui"
)

// uiMode is the value of diag --ui. It rejects anything but auto, on and off
// while flags are parsed.
type uiMode string

const (
	uiAuto uiMode = "auto"
	uiOn   uiMode = "on"
	uiOff  uiMode = "off"
)

func (m *uiMode) String() string { return string(*m) }

func (m *uiMode) Set(value string) error {
	switch v := uiMode(strings.ToLower(strings.TrimSpace(value))); v {
	case uiAuto, uiOn, uiOff:
		*m = v
		return nil
	}
	return fmt.Errorf("expected auto|on|off")
}

func (m *uiMode) Type() string { return "mode" }

// showBoard reports whether the progress board is drawn. It goes to stderr,
// and in auto mode only when both streams are terminals so piped diagnostics
// stay clean.
func (m *uiMode) showBoard(stdoutTTY, stderrTTY bool) bool {
	switch *m {
	case uiOn:
		return true
	case uiOff:
		return false
	default:
		return stdoutTTY && stderrTTY
	}
}

var diagUI = uiAuto

type diagRun struct {
	bag *diag.Bag
	err error
}

// diagnoseWithBoard runs diagnoseAll while the board follows its events.
func diagnoseWithBoard(cmd *cobra.Command, fs *source.FileSet, paths []string, dc *cache.DiskCache) (*diag.Bag, error) {
	events := make(chan ui.Event, 64)
	done := make(chan diagRun, 1)
	go func() {
		bag, err := diagnoseAll(cmd, fs, paths, dc, ui.ChannelSink{Ch: events})
		close(events)
		done <- diagRun{bag: bag, err: err}
	}()

	title := fmt.Sprintf("diag %d fixture(s)", len(paths))
	_, uiErr := tea.NewProgram(ui.NewBoard(title, paths, events), tea.WithOutput(os.Stderr)).Run()
	// keep the worker unblocked after an early quit
	go func() {
		for range events {
		}
	}()
	run := <-done
	if run.err != nil {
		return nil, run.err
	}
	if uiErr != nil {
		return nil, fmt.Errorf("progress display: %w", uiErr)
	}
	return run.bag, nil
}
