// Package ui renders batch progress in an interactive terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"rxport/internal/batch"
)

const statusColumn = 10

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	statusStyles = map[batch.Status]lipgloss.Style{
		batch.StatusLookup:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		batch.StatusConverting: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		batch.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		batch.StatusCached:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		batch.StatusWarning:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		batch.StatusFailed:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
	plainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type jobRow struct {
	name   string
	status batch.Status
	detail string // error text or elapsed time once final
}

type progressModel struct {
	title    string
	events   <-chan batch.Event
	spin     spinner.Model
	bar      progress.Model
	rows     []jobRow
	byName   map[string]int
	finished int
	width    int
	closed   bool
}

type (
	eventMsg  batch.Event
	closedMsg struct{}
)

// NewProgressModel returns a Bubble Tea model with one row per job, in job
// file order. It quits when events is closed.
func NewProgressModel(title string, jobs []string, events <-chan batch.Event) tea.Model {
	m := &progressModel{
		title:  title,
		events: events,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusStyles[batch.StatusConverting])),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:   make([]jobRow, len(jobs)),
		byName: make(map[string]int, len(jobs)),
		width:  80,
	}
	for i, name := range jobs {
		m.rows[i] = jobRow{name: name}
		m.byName[name] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

// next waits for the following batch event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(batch.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

// apply records ev and animates the bar. Events for unknown jobs and events
// that would move a job backwards are ignored.
func (m *progressModel) apply(ev batch.Event) tea.Cmd {
	i, ok := m.byName[ev.Job]
	if !ok || ev.Status < m.rows[i].status {
		return nil
	}
	row := &m.rows[i]
	if ev.Status.Final() && !row.status.Final() {
		m.finished++
	}
	row.status = ev.Status
	switch {
	case ev.Err != nil:
		row.detail = ev.Err.Error()
	case ev.Status.Final():
		row.detail = ev.Elapsed.Round(time.Microsecond).String()
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.status.Progress()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	header := fmt.Sprintf("%s  %d/%d", m.title, m.finished, len(m.rows))
	if m.closed {
		header = "done: " + header
	} else {
		header = m.spin.View() + " " + header
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusColumn-4, 20)
	for _, r := range m.rows {
		style, ok := statusStyles[r.status]
		if !ok {
			style = plainStyle
		}
		line := r.name
		if r.detail != "" {
			line += "  " + r.detail
		}
		fmt.Fprintf(&b, "  %s %s\n", style.Render(fmt.Sprintf("%*s", statusColumn, r.status)), fit(line, nameWidth))
	}

	b.WriteString("\n")
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// fit shortens s to at most width terminal cells, marking the cut with
// "..." when there is room for it.
func fit(s string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(s) <= width:
		return s
	case width <= 3:
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
