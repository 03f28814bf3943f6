package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles is a theme turned into lipgloss styles.
type Styles struct {
	Theme  Theme
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
	Graph  lipgloss.Style
	Help   lipgloss.Style
	Panel  lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Label: lipgloss.NewStyle().Foreground(t.Muted).Width(16),
		Value: lipgloss.NewStyle().Foreground(t.Text),
		Good:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Bad:   lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Graph: lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		Help:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(1, 2),
	}
}

// Row is one line of a summary.
type Row struct {
	Label string
	Value any
}

// Summary renders a titled list of label/value rows.
func (s Styles) Summary(title string, rows []Row) string {
	var b strings.Builder
	b.WriteString(s.Header.Render(title) + "\n")
	for _, r := range rows {
		b.WriteString(s.Label.Render(r.Label) + s.Value.Render(fmt.Sprint(r.Value)) + "\n")
	}
	return s.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// Verdict renders yes in the success colour and no in the warning colour.
func (s Styles) Verdict(ok bool, yes, no string) string {
	if ok {
		return s.Good.Render(yes)
	}
	return s.Bad.Render(no)
}

// GradientText colours each rune of text along a Lab blend between two
// hex colours.
func GradientText(text string, from, to lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	start, err1 := colorful.Hex(string(from))
	end, err2 := colorful.Hex(string(to))
	if err1 != nil || err2 != nil {
		return text
	}

	var b strings.Builder
	last := max(len(runes)-1, 1)
	for i, r := range runes {
		c := start.BlendLab(end, float64(i)/float64(last)).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

// ProgressBar renders fraction f of width cells.
func (s Styles) ProgressBar(f float64, width int) string {
	filled := min(max(int(f*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case f > 0.8:
		return s.Good.Render(bar)
	case f > 0.4:
		return lipgloss.NewStyle().Foreground(s.Theme.Accent).Render(bar)
	}
	return lipgloss.NewStyle().Foreground(s.Theme.Primary).Render(bar)
}

// Spinner returns the frame-th spinner glyph.
func Spinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return frames[frame%len(frames)]
}
