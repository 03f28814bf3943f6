package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/turtlefun/internal/turtle"
)

const (
	tickRate      = time.Second / 10
	chartWidth    = 50
	chartHeight   = 8
	barWidth      = 40
	distanceLimit = 2000
)

type tickMsg time.Time

type progressMsg turtle.Progress

// DoneMsg ends the watch. Err is the failure of the run, if any.
type DoneMsg struct {
	Summary string
	Err     error
}

// Watch follows a simulation running on another goroutine. Progress
// snapshots arrive on one channel and a single DoneMsg on the other.
type Watch struct {
	title     string
	progress  <-chan turtle.Progress
	done      <-chan DoneMsg
	cancel    func()
	styles    Styles
	latest    turtle.Progress
	distances []float64
	frame     int
	finished  *DoneMsg
	stopped   bool
}

func NewWatch(title string, progress <-chan turtle.Progress, done <-chan DoneMsg, cancel func(), theme Theme) Watch {
	return Watch{
		title:    title,
		progress: progress,
		done:     done,
		cancel:   cancel,
		styles:   NewStyles(theme),
	}
}

// Stopped reports whether the user quit before the run finished.
func (w Watch) Stopped() bool { return w.stopped }

// Result is the message the run finished with, nil while running.
func (w Watch) Result() *DoneMsg { return w.finished }

func (w Watch) Init() tea.Cmd {
	return tea.Batch(w.waitProgress(), w.waitDone(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w Watch) waitProgress() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-w.progress
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

func (w Watch) waitDone() tea.Cmd {
	return func() tea.Msg { return <-w.done }
}

func (w Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if w.finished == nil {
				w.stopped = true
				if w.cancel != nil {
					w.cancel()
				}
			}
			return w, tea.Quit
		case "t":
			w.styles = NewStyles(w.styles.Theme.Next())
		}
	case tickMsg:
		w.frame++
		if w.finished != nil {
			return w, nil
		}
		return w, tick()
	case progressMsg:
		w.latest = turtle.Progress(msg)
		w.distances = append(w.distances, w.latest.Distance())
		if len(w.distances) > distanceLimit {
			w.distances = Downsample(w.distances, distanceLimit/2)
		}
		return w, w.waitProgress()
	case DoneMsg:
		w.finished = &msg
		return w, tea.Quit
	}
	return w, nil
}

func (w Watch) View() string {
	s := w.styles
	var b strings.Builder

	b.WriteString(GradientText(w.title, s.Theme.Primary, s.Theme.Secondary) + "\n\n")

	status := Spinner(w.frame) + " running"
	switch {
	case w.finished != nil && w.finished.Err != nil:
		status = s.Bad.Render("failed: " + w.finished.Err.Error())
	case w.finished != nil:
		status = s.Good.Render("done")
	case w.stopped:
		status = s.Bad.Render("stopping")
	}
	b.WriteString(status + "\n\n")

	p := w.latest
	b.WriteString(s.ProgressBar(p.Fraction(), barWidth) + fmt.Sprintf(" %5.1f%%\n", 100*p.Fraction()))
	rows := []Row{
		{"step", fmt.Sprintf("%d / %d", p.Step, p.Target)},
		{"elapsed", p.Elapsed.Round(time.Second)},
		{"steps/s", fmt.Sprintf("%.0f", p.StepsPerSecond)},
		{"remaining", p.Remaining.Round(time.Second)},
		{"position", fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)},
	}
	for _, r := range rows {
		b.WriteString(s.Label.Render(r.Label) + s.Value.Render(fmt.Sprint(r.Value)) + "\n")
	}

	if chart := DistanceChart(w.distances, chartWidth, chartHeight, "distance from origin"); chart != "" {
		b.WriteString(s.Graph.Render(chart) + "\n")
	}
	if w.finished != nil && w.finished.Summary != "" {
		b.WriteString("\n" + w.finished.Summary + "\n")
	}

	b.WriteString(s.Help.Render("Q: stop  T: theme"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
