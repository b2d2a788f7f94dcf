package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/histlens/histlens/internal/analyze"
)

// Semantic styles shared by the report renderers.
var (
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

const headerWidth = 55

// printHeader prints the boxed report title.
func printHeader(title string) {
	line := strings.Repeat("═", headerWidth)
	fmt.Println(line)
	fmt.Println("  " + titleStyle.Render(title))
	fmt.Println(line)
	fmt.Println()
}

// printSection prints a section divider padded to the header width.
func printSection(name string) {
	divider := "─── " + name + " "
	if pad := headerWidth - len([]rune(divider)); pad > 0 {
		divider += strings.Repeat("─", pad)
	}
	fmt.Println(divider)
}

// severityText colors a severity label.
func severityText(s analyze.Severity) string {
	label := fmt.Sprintf("[%s]", s)
	switch s {
	case analyze.SeverityCritical, analyze.SeverityHigh:
		return dangerStyle.Render(label)
	case analyze.SeverityMedium:
		return warnStyle.Render(label)
	default:
		return infoStyle.Render(label)
	}
}

// healthText colors a 0..1 score where high is good.
func healthText(score float64) string {
	text := fmt.Sprintf("%.2f", score)
	switch {
	case score >= 0.8:
		return successStyle.Render(text)
	case score >= 0.5:
		return warnStyle.Render(text)
	default:
		return dangerStyle.Render(text)
	}
}

// scoreText colors a 0..100 score where high is good.
func scoreText(score float64) string {
	text := fmt.Sprintf("%.0f%%", score)
	switch {
	case score >= 80:
		return successStyle.Render(text)
	case score >= 50:
		return warnStyle.Render(text)
	default:
		return dangerStyle.Render(text)
	}
}

// dangerText colors a per-command danger score against the configured
// highlight threshold.
func dangerText(score float64) string {
	text := fmt.Sprintf("%.2f", score)
	if score >= cfg.DangerThreshold {
		return dangerStyle.Render(text)
	}
	if score > 0.5 {
		return warnStyle.Render(text)
	}
	return text
}

func percentText(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// bar renders a proportional block bar of at most width cells. Any
// non-zero value shows at least one cell.
func bar(value, max float64, width int) string {
	if max <= 0 || width <= 0 || value <= 0 {
		return ""
	}
	n := int(value / max * float64(width))
	if n > width {
		n = width
	}
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if max < 2 || len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// formatMillis renders a millisecond quantity human-readably.
func formatMillis(ms float64) string {
	switch {
	case ms >= 60_000:
		return fmt.Sprintf("%.1fm", ms/60_000)
	case ms >= 1000:
		return fmt.Sprintf("%.1fs", ms/1000)
	default:
		return fmt.Sprintf("%.0fms", ms)
	}
}

// durationLabel renders whole minutes as h/m text.
func durationLabel(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// collapseHome abbreviates the home directory prefix for display.
func collapseHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}

// terminalWidth reports the attached terminal's width, defaulting to 80
// when stdout is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
