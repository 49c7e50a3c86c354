package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"rxport/internal/batch"
)

// Run renders progress for jobs until events is closed. The caller closes
// events once the batch has finished.
func Run(out io.Writer, title string, jobs []string, events <-chan batch.Event) error {
	p := tea.NewProgram(NewProgressModel(title, jobs, events), tea.WithOutput(out))
	_, err := p.Run()
	return err
}
