// Package ui renders the terminal progress view of a chunking run.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"textchunk/internal/driver"
)

// unitState is what the view shows for one input.
type unitState uint8

const (
	stateQueued unitState = iota
	stateLoading
	stateLoaded
	stateScanning
	stateDone
	stateCached
	stateError
)

var stateLabels = [...]string{"queued", "loading", "loaded", "scanning", "done", "cached", "error"}

func (s unitState) String() string { return stateLabels[s] }

func (s unitState) finished() bool {
	return s == stateDone || s == stateCached || s == stateError
}

var (
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFailed = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleBusy   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
)

func (s unitState) style() lipgloss.Style {
	switch s {
	case stateDone, stateCached:
		return styleOK
	case stateError:
		return styleFailed
	case stateLoading, stateLoaded, stateScanning:
		return styleBusy
	}
	return styleIdle
}

type unitItem struct {
	path       string
	state      unitState
	stage      driver.Stage
	shards     int
	shardsDone int
	chunks     int
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	items   []unitItem
	index   map[string]int
	width   int
	done    bool
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model showing per-unit progress
// until events is closed.
func NewProgressModel(title string, units []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleBusy)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		items:   make([]unitItem, len(units)),
		index:   make(map[string]int, len(units)),
		width:   80,
	}
	for i, unit := range units {
		m.items[i] = unitItem{path: unit}
		m.index[unit] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for the following driver event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	i, ok := m.index[ev.Unit]
	if !ok {
		return nil
	}
	it := &m.items[i]
	it.stage = ev.Stage

	if ev.Shard >= 0 {
		// события шардов только двигают счётчик
		it.shards = ev.Shards
		switch ev.Status {
		case driver.StatusWorking:
			it.state = stateScanning
		case driver.StatusDone, driver.StatusError:
			it.shardsDone++
			it.chunks += ev.Chunks
		}
	} else if st, ok := unitStateOf(ev.Stage, ev.Status); ok {
		it.state = st
		if st == stateDone || st == stateCached {
			it.chunks = ev.Chunks
		}
	}

	var sum float64
	for _, it := range m.items {
		sum += itemProgress(it)
	}
	return m.bar.SetPercent(sum / float64(len(m.items)))
}

func unitStateOf(stage driver.Stage, status driver.Status) (unitState, bool) {
	switch status {
	case driver.StatusQueued:
		return stateQueued, true
	case driver.StatusCached:
		return stateCached, true
	case driver.StatusError:
		return stateError, true
	case driver.StatusDone:
		if stage == driver.StageLoad {
			return stateLoaded, true
		}
		return stateDone, true
	case driver.StatusWorking:
		switch stage {
		case driver.StageLoad:
			return stateLoading, true
		case driver.StageScan:
			return stateScanning, true
		}
	}
	return 0, false
}

// itemProgress weighs a unit: loading is a sliver, shards share the rest.
func itemProgress(it unitItem) float64 {
	switch {
	case it.state.finished():
		return 1
	case it.shards > 0:
		return 0.1 + 0.9*float64(it.shardsDone)/float64(it.shards)
	case it.stage == driver.StageScan:
		return 0.3
	case it.stage == driver.StageLoad:
		return 0.05
	}
	return 0
}

func itemDetail(it unitItem) string {
	switch {
	case it.state == stateDone || it.state == stateCached:
		return fmt.Sprintf("%d chunks", it.chunks)
	case it.shards > 0:
		return fmt.Sprintf("shards %d/%d", it.shardsDone, it.shards)
	}
	return ""
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := m.spinner.View() + " " + m.title
	if m.done {
		header = "done: " + m.title
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render(header))
	b.WriteString("\n\n")

	const stateWidth, detailWidth = 12, 16
	nameWidth := max(m.width-stateWidth-detailWidth-6, 20)
	for _, it := range m.items {
		label := it.state.style().Render(fmt.Sprintf("%*s", stateWidth, it.state))
		fmt.Fprintf(&b, "  %s %-*s %s\n", label, detailWidth, itemDetail(it), truncate(it.path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// truncate clips value to width terminal cells, marking the cut with "...".
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
