package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/HaPhanBaoMinh/mfgdash/help"
	"github.com/HaPhanBaoMinh/mfgdash/internal/domain"
)

var (
	Title     = lipgloss.NewStyle().Bold(true)
	TabActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DCE13"))
	Tab       = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	Header    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	Footer    = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	Box       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	Card      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(26)
	Danger    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	Warn      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	Good      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD7AF"))
	Info      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF"))
	Faint     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
)

// Severity colors an alert: red critical, magenta major, orange warning, blue info.
func Severity(s domain.Severity) lipgloss.Style {
	switch s.Rank() {
	case 3:
		return Danger.Bold(true)
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#D75FD7"))
	case 1:
		return Warn
	default:
		return Info
	}
}

func Status(s domain.MachineState) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(help.StatusColor(string(s)))).
		Padding(0, 1)
}

// Delta colors a trend: up is good unless lowerIsBetter.
func Delta(v float64, lowerIsBetter bool) lipgloss.Style {
	if v == 0 {
		return Faint
	}
	if (v > 0) != lowerIsBetter {
		return Good
	}
	return Danger
}
