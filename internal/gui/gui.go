// Package gui is the live terminal dashboard shown with --tui.
package gui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/7c/syrupy/internal/display"
	"github.com/7c/syrupy/internal/sampler"
	"github.com/7c/syrupy/internal/snapshot"
)

// Dashboard renders sampler ticks as they arrive.
type Dashboard struct {
	p *tea.Program
}

// New prepares a dashboard for the given selection. opts are passed to
// the underlying program; the alt screen is used unless opts override it.
func New(target string, interval time.Duration, opts ...tea.ProgramOption) *Dashboard {
	m := newModel(target, interval, time.Now())
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &Dashboard{p: tea.NewProgram(m, opts...)}
}

// Run blocks until the user quits.
func (d *Dashboard) Run() error {
	_, err := d.p.Run()
	return err
}

// Observe is a sampler observer. It is safe to call from any goroutine.
func (d *Dashboard) Observe(t sampler.Tick) { d.p.Send(tickMsg(t)) }

// Finish shows why sampling stopped.
func (d *Dashboard) Finish(sum sampler.Summary, err error) {
	d.p.Send(doneMsg{reason: sum.Reason, err: err})
}

type tickMsg sampler.Tick

type doneMsg struct {
	reason sampler.StopReason
	err    error
}

// peak is the highest usage seen for one pid.
type peak struct {
	cpu, mem float64
	rss, vsz int64
}

func (p *peak) update(s snapshot.Sample) {
	p.cpu = max(p.cpu, s.CPU)
	p.mem = max(p.mem, s.Mem)
	p.rss = max(p.rss, s.RSS)
	p.vsz = max(p.vsz, s.VSZ)
}

type model struct {
	target   string
	interval time.Duration
	began    time.Time

	last    sampler.Tick
	ticks   int
	skipped int
	peaks   map[int]*peak

	selected   int
	showDetail bool

	done    bool
	reason  sampler.StopReason
	doneErr error

	width  int
	height int
}

func newModel(target string, interval time.Duration, began time.Time) model {
	return model{
		target:   target,
		interval: interval,
		began:    began,
		peaks:    make(map[int]*peak),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.last = sampler.Tick(msg)
		m.ticks++
		m.skipped += msg.Skipped
		for _, s := range msg.Samples {
			p, ok := m.peaks[s.PID]
			if !ok {
				p = &peak{}
				m.peaks[s.PID] = p
			}
			p.update(s)
		}
		// Clamp selection.
		if m.selected >= len(m.last.Samples) {
			m.selected = max(0, len(m.last.Samples)-1)
		}
		return m, nil

	case doneMsg:
		m.done = true
		m.reason = msg.reason
		m.doneErr = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	if m.showDetail {
		switch key {
		case "esc", "enter":
			m.showDetail = false
		}
		return m, nil
	}

	switch key {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.last.Samples)-1 {
			m.selected++
		}
	case "enter":
		if len(m.last.Samples) > 0 {
			m.showDetail = true
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(
		"syrupy: %s every %s", m.target, m.interval,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if m.showDetail && m.selected < len(m.last.Samples) {
		b.WriteString(detailStyle.Render(m.renderDetail(m.last.Samples[m.selected])))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("[esc] close  [q] quit"))
		return b.String()
	}
	b.WriteString(helpStyle.Render("[↑↓] nav  [enter] detail  [q] quit"))
	return b.String()
}

var tableHeaders = []string{"PID", "PPID", "ELAPSED", "CPU", "MEM", "RSS", "VSIZE", "COMMAND"}

func sampleCols(s snapshot.Sample) []string {
	return []string{
		fmt.Sprintf("%d", s.PID),
		fmt.Sprintf("%d", s.PPID),
		s.Elapsed(),
		fmt.Sprintf("%.1f", s.CPU),
		fmt.Sprintf("%.1f", s.Mem),
		display.FormatKB(s.RSS),
		display.FormatKB(s.VSZ),
		s.Command,
	}
}

// renderTable renders the latest tick as a simple aligned table.
func (m model) renderTable() string {
	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = len(h)
	}
	rows := make([][]string, 0, len(m.last.Samples))
	for _, s := range m.last.Samples {
		cols := sampleCols(s)
		for i, c := range cols {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
		rows = append(rows, cols)
	}

	// The command column is truncated to the terminal width instead.
	fmtRow := func(cols []string) string {
		parts := make([]string, len(cols))
		for i, c := range cols {
			if i == len(cols)-1 {
				parts[i] = c
				continue
			}
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		line := strings.Join(parts, "  ")
		if m.width > 4 && lipgloss.Width(line) > m.width-2 {
			line = truncate(line, m.width-2)
		}
		return line
	}

	var sb strings.Builder
	header := fmtRow(tableHeaders)
	sb.WriteString(" " + headerStyle.Render(header) + "\n")
	sb.WriteString(" " + ruleStyle.Render(strings.Repeat("─", lipgloss.Width(header))) + "\n")
	for i, cols := range rows {
		line := fmtRow(cols)
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		sb.WriteString(" " + line + "\n")
	}
	if len(rows) == 0 {
		sb.WriteString(helpStyle.Render("  No matching processes") + "\n")
	}
	return sb.String()
}

func (m model) renderStatus() string {
	instant := "-"
	if !m.last.Instant.IsZero() {
		instant = m.last.Instant.Format("15:04:05")
	}
	status := fmt.Sprintf(" tick %d at %s, %d process(es), %d row(s) skipped, running %s",
		m.ticks, instant, len(m.last.Samples), m.skipped, display.FormatDuration(time.Since(m.began)))
	if !m.done {
		return status
	}
	reason := m.reason.String()
	switch m.reason {
	case sampler.StopFinished:
		reason = reasonFinished.Render(reason)
	case sampler.StopNoneFound:
		reason = reasonNoneFound.Render(reason)
	default:
		reason = reasonInterrupted.Render(reason)
	}
	status += "\n sampling stopped: " + reason
	if m.doneErr != nil {
		status += " (" + m.doneErr.Error() + ")"
	}
	return status
}

func (m model) renderDetail(s snapshot.Sample) string {
	var sb strings.Builder
	kvLine := func(key, val string) {
		sb.WriteString(fmt.Sprintf("%-10s %s\n", key+":", val))
	}
	kvLine("PID", fmt.Sprintf("%d", s.PID))
	kvLine("PPID", fmt.Sprintf("%d", s.PPID))
	kvLine("Elapsed", s.Elapsed())
	kvLine("Command", s.Command)
	if p, ok := m.peaks[s.PID]; ok {
		kvLine("Peak CPU", fmt.Sprintf("%.1f%%", p.cpu))
		kvLine("Peak MEM", fmt.Sprintf("%.1f%%", p.mem))
		kvLine("Peak RSS", display.FormatKB(p.rss))
		kvLine("Peak VSZ", display.FormatKB(p.vsz))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// truncate cuts s to n runes, ending with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n || n < 1 {
		return s
	}
	return string(runes[:n-1]) + "…"
}
