package ui

//go:generate mockgen -destination=../../test/mock_controller.go -package=test . Controller

import (
	"context"
	"fmt"

	"github.com/aschey/stopwatch/internal/driver"
	"github.com/aschey/stopwatch/internal/stopwatch"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathan-fiscaletti/consolesize-go"
)

const (
	fallbackWidth = 40
	invalidTime   = "--:--:--.--"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)
	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 3)
	handStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).PaddingRight(2)
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Background(lipgloss.Color("#888B7E")).
			Padding(0, 3).
			MarginTop(1).
			MarginRight(2)
	startButtonStyle    = buttonStyle.Background(lipgloss.Color("#43BF6D"))
	pauseButtonStyle    = buttonStyle.Background(lipgloss.Color("#E5534B"))
	lapButtonStyle      = buttonStyle.Background(lipgloss.Color("#D4A72C"))
	disabledButtonStyle = buttonStyle.Foreground(lipgloss.Color("#5C5C5C")).Background(lipgloss.Color("#383838"))
	resetButtonStyle    = buttonStyle.Background(lipgloss.Color("#6C5CE7"))
	lastPausedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1)
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).MarginTop(1)
	hands               = []string{"↑", "↗", "→", "↘", "↓", "↙", "←", "↖"}
)

// Controller forwards user intents to whatever owns the stopwatch.
type Controller interface {
	Send(ctx context.Context, intent driver.Intent) (stopwatch.Snapshot, error)
}

type snapshotMsg stopwatch.Snapshot

type sentMsg stopwatch.Snapshot

type errMsg struct {
	err error
}

type Model struct {
	ctx        context.Context
	controller Controller
	snapshots  <-chan stopwatch.Snapshot
	snapshot   stopwatch.Snapshot
	laps       list.Model
	help       help.Model
	keys       keyMap
	err        error
}

func New(ctx context.Context, controller Controller, snapshots <-chan stopwatch.Snapshot) Model {
	width, _ := consolesize.GetConsoleSize()
	if width <= 0 {
		width = fallbackWidth
	}
	h := help.New()
	h.Width = width

	return Model{
		ctx:        ctx,
		controller: controller,
		snapshots:  snapshots,
		snapshot:   stopwatch.Snapshot{Status: stopwatch.Idle, Laps: []int64{}},
		laps:       newLapList(width),
		help:       h,
		keys:       newKeyMap(),
	}
}

func waitForSnapshot(snapshots <-chan stopwatch.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-snapshots
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (m Model) send(intent driver.Intent) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.controller.Send(m.ctx, intent)
		if err != nil {
			return errMsg{fmt.Errorf("%s: %w", intent, err)}
		}
		return sentMsg(snap)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.snapshots)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.laps.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.setSnapshot(stopwatch.Snapshot(msg))
		return m, waitForSnapshot(m.snapshots)

	case sentMsg:
		m.err = nil
		m.setSnapshot(stopwatch.Snapshot(msg))
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			return m, m.send(driver.IntentToggle)
		case key.Matches(msg, m.keys.Lap):
			return m, m.send(driver.IntentLap)
		case key.Matches(msg, m.keys.Reset):
			return m, m.send(driver.IntentReset)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		var cmd tea.Cmd
		m.laps, cmd = m.laps.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

func (m *Model) setSnapshot(snap stopwatch.Snapshot) {
	if len(snap.Laps) != len(m.snapshot.Laps) {
		m.laps.SetItems(getItems(snap))
		if len(snap.Laps) > 0 {
			m.laps.Select(len(snap.Laps) - 1)
		}
	}
	m.snapshot = snap
	m.keys.Lap.SetEnabled(snap.CanLap())
}

func formatMs(ms int64) string {
	out, err := stopwatch.Format(ms)
	if err != nil {
		return invalidTime
	}
	return out
}

func handGlyph(angle float64) string {
	segment := 360.0 / float64(len(hands))
	return hands[int((angle+segment/2)/segment)%len(hands)]
}

func (m Model) renderButtons() string {
	toggle := startButtonStyle.Render("Start")
	if m.snapshot.CanPause() {
		toggle = pauseButtonStyle.Render("Pause")
	}
	lap := disabledButtonStyle.Render("Lap")
	if m.snapshot.CanLap() {
		lap = lapButtonStyle.Render("Lap")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, toggle, lap, resetButtonStyle.Render("Reset"))
}

func (m Model) View() string {
	display := lipgloss.JoinHorizontal(lipgloss.Center,
		handStyle.Render(handGlyph(m.snapshot.HandAngle())),
		displayStyle.Render(formatMs(m.snapshot.ElapsedMs)))

	sections := []string{
		titleStyle.Render("STOPWATCH"),
		display,
		m.renderButtons(),
		lastPausedStyle.Render("Last paused: " + formatMs(m.snapshot.LastPausedMs)),
		renderLaps(m.laps),
	}
	if m.err != nil {
		sections = append(sections, errorStyle.Render(m.err.Error()))
	}
	sections = append(sections, "", m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
