package ui

import (
	"fmt"
	"image"

	"github.com/charmbracelet/lipgloss"

	"selfeval/internal/evaluation"
	"selfeval/internal/host"
	"selfeval/internal/wizard"
)

var (
	colorTitle = lipgloss.Color("33")
	colorArea  = lipgloss.Color("39")
	colorMuted = lipgloss.Color("244")
	colorPass  = lipgloss.Color("42")
	colorWarn  = lipgloss.Color("220")
	colorError = lipgloss.Color("196")
)

// formatValue renders an answer as a fixed-width label.
func formatValue(value evaluation.Value) string {
	switch value {
	case evaluation.Yes:
		return "[yes]"
	case evaluation.No:
		return "[no ]"
	case evaluation.NA:
		return "[n/a]"
	default:
		return "[   ]"
	}
}

func valueColor(value evaluation.Value) lipgloss.Color {
	switch value {
	case evaluation.Yes:
		return colorPass
	case evaluation.No:
		return colorError
	case evaluation.NA:
		return colorMuted
	default:
		return colorWarn
	}
}

func hapticColor(kind host.HapticKind) lipgloss.Color {
	switch kind {
	case host.HapticSuccess:
		return colorPass
	case host.HapticWarning:
		return colorWarn
	case host.HapticError:
		return colorError
	default:
		return colorArea
	}
}

// formatScore renders a 0..100 score with two decimals.
func formatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

func formatProgress(progress wizard.Progress) string {
	return fmt.Sprintf("Answered %d/%d overall · %d photo(s)", progress.Answered, progress.Total, progress.Photos)
}

// truncate cuts text to width runes; zero width leaves it alone.
func truncate(text string, width int) string {
	runes := []rune(text)
	if width <= 0 || len(runes) <= width {
		return text
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// cellInked reports whether the padScale block at (x, y) holds ink.
func cellInked(img image.Image, x, y int) bool {
	bounds := img.Bounds()
	for py := y; py < y+padScale && py < bounds.Max.Y; py++ {
		for px := x; px < x+padScale && px < bounds.Max.X; px++ {
			r, g, b, _ := img.At(px, py).RGBA()
			if r < 0x8000 && g < 0x8000 && b < 0x8000 {
				return true
			}
		}
	}
	return false
}
