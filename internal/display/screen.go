package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Screen is the two-line display surface: a short status line and an
// optional detail line. Detail is expected to be pre-normalized via Format.
type Screen interface {
	Show(status, detail string)
}

var (
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Width(48)
	frameStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// Term renders the two lines as a framed block on a terminal, standing in
// for the device's OLED panel.
type Term struct {
	out io.Writer
}

func NewTerm(out io.Writer) *Term { return &Term{out: out} }

func (t *Term) Show(status, detail string) {
	block := statusStyle.Render(status)
	if detail != "" {
		block += "\n" + detailStyle.Render(detail)
	}
	fmt.Fprintln(t.out, frameStyle.Render(block))
}
