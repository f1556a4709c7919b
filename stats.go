package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/youenchene/ACE/internal/sprite"
	"github.com/youenchene/ACE/pkg/utils"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)).PaddingRight(2)
	cellStyle    = lipgloss.NewStyle().PaddingRight(2)
	claimedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)).PaddingRight(2)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)).PaddingRight(2)
)

// channelTable renders the channel table as aligned columns, one row per
// channel.
func channelTable(infos []sprite.ChannelInfo) string {
	columns := [][]string{
		{"CH"}, {"OWNER"}, {"ENABLED"}, {"ELEMENTS"}, {"POINTER"}, {"BLOCK"}, {"REGEN"},
	}
	for _, info := range infos {
		owner := "-"
		if info.Claimed {
			owner = "claimed"
		}
		for i, cell := range []string{
			fmt.Sprintf("%d", info.Channel),
			owner,
			utils.BoolToString(info.Enabled),
			fmt.Sprintf("%d", info.Elements),
			fmt.Sprintf("$%06X", info.Address),
			utils.BoolToString(info.HasBlock),
			fmt.Sprintf("%d", info.Regen),
		} {
			columns[i] = append(columns[i], cell)
		}
	}

	rendered := make([]string, len(columns))
	for i, col := range columns {
		cells := make([]string, len(col))
		for row, cell := range col {
			style := cellStyle
			switch {
			case row == 0:
				style = headerStyle
			case i == 1 && infos[row-1].Claimed:
				style = claimedStyle
			case i == 6 && infos[row-1].Regen > 0:
				style = pendingStyle
			}
			cells[row] = style.Render(cell)
		}
		rendered[i] = lipgloss.JoinVertical(lipgloss.Left, cells...)
	}
	return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, rendered...), " ")
}
