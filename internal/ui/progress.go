// Package ui draws a live board of the fixtures diag is binding: one row per
// fixture with its scope and diagnostic counts, and a running total.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cleanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	cachedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

type rowState uint8

const (
	rowWaiting rowState = iota
	rowBinding
	rowFinished
)

type row struct {
	path   string
	state  rowState
	result Result
}

// totals accumulates the results of finished rows.
type totals struct {
	Result
	fixtures int
	hits     int
	failed   int
}

func (t *totals) add(r Result) {
	t.fixtures++
	t.Scopes += r.Scopes
	t.Locals += r.Locals
	t.Errors += r.Errors
	t.Warnings += r.Warnings
	if r.Cached {
		t.hits++
	}
	if r.Failed {
		t.failed++
	}
}

type board struct {
	title   string
	events  <-chan Event
	spinner spinner.Model
	bar     progress.Model
	rows    []row
	index   map[string]int
	sum     totals
	width   int
	closed  bool
}

type eventMsg Event
type closedMsg struct{}

// NewBoard returns a Bubble Tea model that shows files as they are bound and
// quits once events is closed.
func NewBoard(title string, files []string, events <-chan Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = cachedStyle

	rows := make([]row, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		rows[i] = row{path: file}
		index[file] = i
	}
	return &board{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithSolidFill("6"), progress.WithWidth(40)),
		rows:    rows,
		index:   index,
		width:   80,
	}
}

func (m *board) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.KeyMsg:
		if s := msg.String(); s == "ctrl+c" || s == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = min(msg.Width-4, 60)
		}
	case spinner.TickMsg:
		if !m.closed {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		next, cmd := m.bar.Update(msg)
		m.bar = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// next waits for the following event.
func (m *board) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *board) apply(ev Event) tea.Cmd {
	i, ok := m.index[ev.File]
	if !ok || m.rows[i].state == rowFinished {
		return nil
	}
	if !ev.Done {
		m.rows[i].state = rowBinding
		return nil
	}
	m.rows[i].state = rowFinished
	m.rows[i].result = ev.Result
	m.sum.add(ev.Result)
	return m.bar.SetPercent(m.fraction())
}

// fraction is the share of fixtures that finished.
func (m *board) fraction() float64 {
	if len(m.rows) == 0 {
		return 1
	}
	return float64(m.sum.fixtures) / float64(len(m.rows))
}

func (m *board) View() string {
	var b strings.Builder
	lead := m.spinner.View()
	if m.closed {
		lead = cleanStyle.Render("done")
	}
	fmt.Fprintf(&b, "%s %s  %d/%d\n", lead, titleStyle.Render(m.title), m.sum.fixtures, len(m.rows))

	pathWidth := 0
	for _, r := range m.rows {
		pathWidth = max(pathWidth, runewidth.StringWidth(r.path))
	}
	pathWidth = min(pathWidth, max(m.width-44, 12))
	for _, r := range m.rows {
		fmt.Fprintf(&b, "  %s  %s\n", fit(r.path, pathWidth), m.describe(r))
	}

	b.WriteString("\n  ")
	b.WriteString(m.bar.ViewAs(m.fraction()))
	b.WriteString("\n  ")
	b.WriteString(summarize(m.sum))
	b.WriteString("\n")
	return b.String()
}

func (m *board) describe(r row) string {
	switch r.state {
	case rowWaiting:
		return pendingStyle.Render("waiting")
	case rowBinding:
		return m.spinner.View() + " binding"
	}
	res := r.result
	if res.Failed {
		return errorStyle.Render("failed")
	}
	line := plural(res.Scopes, "scope") + "  " + plural(res.Locals, "local") + "  " + verdict(res.Errors, res.Warnings)
	if res.Cached {
		line += "  " + cachedStyle.Render("cached")
	}
	return line
}

func summarize(t totals) string {
	parts := []string{
		plural(t.Scopes, "scope"),
		plural(t.Locals, "local"),
		verdict(t.Errors, t.Warnings),
	}
	if t.hits > 0 {
		parts = append(parts, cachedStyle.Render(fmt.Sprintf("%d cached", t.hits)))
	}
	if t.failed > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d failed", t.failed)))
	}
	return strings.Join(parts, ", ")
}

func verdict(errors, warnings int) string {
	switch {
	case errors > 0 && warnings > 0:
		return errorStyle.Render(plural(errors, "error")) + " " + warnStyle.Render(plural(warnings, "warning"))
	case errors > 0:
		return errorStyle.Render(plural(errors, "error"))
	case warnings > 0:
		return warnStyle.Render(plural(warnings, "warning"))
	default:
		return cleanStyle.Render("clean")
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// fit pads or cuts value to exactly width columns.
func fit(value string, width int) string {
	if runewidth.StringWidth(value) > width {
		value = runewidth.Truncate(value, width, "...")
	}
	return runewidth.FillRight(value, width)
}
