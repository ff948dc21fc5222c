// Package termcal renders calendar markings as a coloured month grid for
// terminals.
package termcal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/cyclekit/cyclekit/internal/services"
)

var (
	colorMuted  = lipgloss.Color("#666666")
	colorAccent = lipgloss.Color("#FF6B9D")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Padding(0, 1)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	todayStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

var weekdays = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// MonthRange returns the first and last day of the month containing day.
func MonthRange(day time.Time) (time.Time, time.Time) {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	return first, first.AddDate(0, 1, -1)
}

// Render draws the month containing month. Days with mood markers carry a
// trailing asterisk.
func Render(month time.Time, markings map[string]services.CalendarMarking, today time.Time) string {
	first, last := MonthRange(month)

	var grid strings.Builder
	header := make([]string, 0, len(weekdays))
	for _, name := range weekdays {
		header = append(header, weekdayStyle.Render(name+" "))
	}
	grid.WriteString(strings.Join(header, " "))
	grid.WriteString("\n")

	// Weeks start on Monday.
	offset := (int(first.Weekday()) + 6) % 7
	cells := make([]string, 0, 7)
	for i := 0; i < offset; i++ {
		cells = append(cells, "   ")
	}

	for day := first; services.DaysFrom(day, last) >= 0; day = services.AddDays(day, 1) {
		cells = append(cells, renderCell(day, markings[services.FormatDate(day)], today))
		if len(cells) == 7 {
			grid.WriteString(strings.Join(cells, " "))
			grid.WriteString("\n")
			cells = cells[:0]
		}
	}
	if len(cells) > 0 {
		grid.WriteString(strings.Join(cells, " "))
		grid.WriteString("\n")
	}

	title := titleStyle.Render(first.Format("January 2006"))
	return lipgloss.JoinVertical(lipgloss.Left, title, panelStyle.Render(strings.TrimRight(grid.String(), "\n")))
}

func renderCell(day time.Time, marking services.CalendarMarking, today time.Time) string {
	suffix := " "
	if len(marking.Moods) > 0 {
		suffix = "*"
	}
	label := fmt.Sprintf("%2d%s", day.Day(), suffix)

	style := lipgloss.NewStyle()
	if hex, faint, ok := terminalColor(marking.Color); ok {
		if marking.BorderOnly {
			style = style.Foreground(lipgloss.Color(hex)).Underline(true)
		} else {
			style = style.Background(lipgloss.Color(hex))
			if text, _, textOK := terminalColor(marking.TextColor); textOK {
				style = style.Foreground(lipgloss.Color(text))
			}
		}
		style = style.Faint(faint)
	}
	if services.DaysFrom(today, day) == 0 {
		style = style.Inherit(todayStyle)
	}
	return style.Render(label)
}

// terminalColor turns a marking colour into a hex terminal colour. Dimmed
// rgba colours come back faint. CSS variables have no terminal equivalent.
func terminalColor(color string) (string, bool, bool) {
	switch {
	case strings.HasPrefix(color, "#") && len(color) == 7:
		return color, false, true
	case color == "white":
		return "#FFFFFF", false, true
	case strings.HasPrefix(color, "rgba("):
		var red, green, blue int
		var alpha float64
		if _, err := fmt.Sscanf(color, "rgba(%d, %d, %d, %g)", &red, &green, &blue, &alpha); err != nil {
			return "", false, false
		}
		return fmt.Sprintf("#%02X%02X%02X", red, green, blue), alpha < 1, true
	case color == "#333":
		return "#333333", false, true
	default:
		return "", false, false
	}
}

// Legend explains the colours used by Render.
func Legend() string {
	entries := []struct {
		label string
		color string
	}{
		{"period", services.ColorMenstrual},
		{"follicular", services.ColorFollicular},
		{"ovulation", services.ColorOvulation},
		{"luteal", services.ColorLuteal},
		{"predicted", services.ColorPrediction},
	}

	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.color)).Render("●")
		parts = append(parts, dot+" "+entry.label)
	}
	return weekdayStyle.Render("* mood logged  ") + strings.Join(parts, "  ")
}
