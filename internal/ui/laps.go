package ui

import (
	"fmt"
	"io"

	"github.com/aschey/stopwatch/internal/stopwatch"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

var (
	lapLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	lapTimeStyle    = lipgloss.NewStyle()
	splitStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	itemStyle       = lipgloss.NewStyle().PaddingLeft(4)
	selectedStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	emptyLapsStyle  = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("245"))
	lapsHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginTop(1)
	paginationStyle = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
)

const defaultLapsLines = 8

type lapItem struct {
	number  int
	elapsed int64
	split   int64
}

func (i lapItem) FilterValue() string { return fmt.Sprintf("Lap %d", i.number) }

type lapDelegate struct{}

func (d lapDelegate) Height() int                               { return 1 }
func (d lapDelegate) Spacing() int                              { return 0 }
func (d lapDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d lapDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(lapItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%s  %s  %s",
		lapLabelStyle.Render(fmt.Sprintf("Lap %-3d", i.number)),
		lapTimeStyle.Render(formatMs(i.elapsed)),
		splitStyle.Render("+"+formatMs(i.split)))

	if index == m.Index() {
		fmt.Fprint(w, selectedStyle.Render("▶ "+str))
		return
	}
	fmt.Fprint(w, itemStyle.Render(str))
}

func getItems(snap stopwatch.Snapshot) []list.Item {
	splits := snap.Splits()
	return lo.Map(snap.Laps, func(lap int64, i int) list.Item {
		return lapItem{number: i + 1, elapsed: lap, split: splits[i]}
	})
}

func newLapList(width int) list.Model {
	l := list.New([]list.Item{}, lapDelegate{}, width, defaultLapsLines)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.PaginationStyle = paginationStyle
	return l
}

func renderLaps(l list.Model) string {
	header := lapsHeaderStyle.Render("Lap Times")
	if len(l.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, emptyLapsStyle.Render("No laps recorded"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, l.View())
}
