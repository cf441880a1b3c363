package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// Out receives all command output.
var Out io.Writer = os.Stdout

func Success(format string, args ...any) {
	fmt.Fprintln(Out, successStyle.Render("✓ ")+fmt.Sprintf(format, args...))
}

func Warning(format string, args ...any) {
	fmt.Fprintln(Out, warningStyle.Render("⚠ ")+fmt.Sprintf(format, args...))
}

func Error(format string, args ...any) {
	fmt.Fprintln(Out, errorStyle.Render("✗ ")+fmt.Sprintf(format, args...))
}

func Muted(format string, args ...any) {
	fmt.Fprintln(Out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// JSON writes v as indented JSON.
func JSON(v any) error {
	enc := json.NewEncoder(Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders rows under a styled header with padded columns.
func Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	cell := func(s string, w int) string {
		return lipgloss.NewStyle().Width(w + 2).Render(s)
	}

	line := ""
	for i, h := range headers {
		line += cell(headerStyle.Render(h), widths[i])
	}
	fmt.Fprintln(Out, line)
	for _, row := range rows {
		line = ""
		for i := range headers {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			line += cell(v, widths[i])
		}
		fmt.Fprintln(Out, line)
	}
}
