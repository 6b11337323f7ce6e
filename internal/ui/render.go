package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"selfeval/internal/capture"
	"selfeval/internal/wizard"
)

// View renders the current wizard step followed by the footer.
func (m Model) View() string {
	var body string
	switch m.wizard.Step() {
	case wizard.StepLoading:
		body = m.renderBusy()
	case wizard.StepError:
		body = m.renderError()
	case wizard.StepLocationSelect:
		body = m.renderLocations()
	case wizard.StepQuestions:
		body = m.renderQuestions()
	case wizard.StepSignature:
		body = m.renderSignature()
	case wizard.StepSubmitting:
		body = m.renderBusy()
	case wizard.StepComplete:
		body = m.renderComplete()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, "", m.renderFooter())
}

// renderHeader renders the single title line.
func (m Model) renderHeader() string {
	line := m.wizard.Template().Name
	if line == "" {
		line = "Self-evaluation"
	}
	if location, ok := m.wizard.Location(); ok {
		line += " · " + location.Name
	}
	return stylize(truncate(line, m.width), m.noColor, colorTitle)
}

func (m Model) renderBusy() string {
	text := m.busy
	if text == "" {
		text = "Working…"
	}
	return stylize(text, m.noColor, colorMuted)
}

func (m Model) renderError() string {
	lines := []string{
		stylize("Unable to start the evaluation", m.noColor, colorError),
		m.wizard.ErrorMessage(),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLocations() string {
	user := m.wizard.User()
	lines := []string{fmt.Sprintf("Hello %s, choose the location to evaluate:", user.Name)}
	for i, location := range user.Locations {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		line := marker + location.Name
		if location.Address != "" {
			line += stylize(" · "+location.Address, m.noColor, colorMuted)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderQuestions() string {
	area, ok := m.wizard.Area()
	if !ok {
		return ""
	}
	progress := m.wizard.Progress()
	session := m.wizard.Session()
	title := fmt.Sprintf("Area %d/%d · %s  (%d/%d answered)",
		progress.AreaIndex+1, progress.AreaCount, area.Name, progress.AreaAnswered, progress.AreaTotal)
	lines := []string{stylize(title, m.noColor, colorArea)}
	for i, question := range area.Questions {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		value := session.ValueOf(question.ID)
		line := marker + stylize(formatValue(value), m.noColor, valueColor(value)) + " " + question.Text
		var tags []string
		if question.RequiresPhoto {
			tags = append(tags, "photo required")
		}
		if session.PhotoFor(question.ID) != nil {
			tags = append(tags, "photo ✓")
		}
		if len(tags) > 0 {
			line += stylize(" ("+strings.Join(tags, ", ")+")", m.noColor, colorMuted)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", stylize(formatProgress(progress), m.noColor, colorMuted))
	if m.mode == inputPhotoPath {
		lines = append(lines, m.pathInput.View())
	}
	if m.busy != "" {
		lines = append(lines, m.renderBusy())
	}
	return strings.Join(lines, "\n")
}

// renderSignature draws the pad at padOrigin: the header occupies row 0, the
// title row 1 and the box border row 2.
func (m Model) renderSignature() string {
	title := stylize("Sign inside the box with the mouse", m.noColor, colorArea)
	box := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Render(renderPad(m.pad))
	lines := []string{title, box, m.nameInput.View()}
	report := m.wizard.Score()
	lines = append(lines, stylize(fmt.Sprintf("Estimated score %s (pass at %s)",
		formatScore(report.Score), formatScore(report.Threshold)), m.noColor, colorMuted))
	if msg := m.wizard.SubmitErrorMessage(); msg != "" {
		lines = append(lines, stylize(msg, m.noColor, colorError))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderComplete() string {
	result, ok := m.wizard.Result()
	if !ok {
		return ""
	}
	verdict := stylize("PASSED", m.noColor, colorPass)
	if !result.Passed {
		verdict = stylize("NOT PASSED", m.noColor, colorError)
	}
	lines := []string{
		stylize("Evaluation sent", m.noColor, colorTitle),
		fmt.Sprintf("Location: %s", result.LocationName),
		fmt.Sprintf("Score: %s  %s", formatScore(result.Score), verdict),
		fmt.Sprintf("Reference: %s", result.ID),
	}
	return strings.Join(lines, "\n")
}

// renderFooter shows the open dialog, the alert banner or the key help.
func (m Model) renderFooter() string {
	if message, open := m.bridge.Confirming(); open {
		return stylize(message+" [y/n]", m.noColor, colorWarn)
	}
	if alert := m.bridge.Alert(); alert != "" {
		return stylize(alert, m.noColor, colorWarn) + "\n" + stylize("press any key", m.noColor, colorMuted)
	}
	footer := m.help.ShortHelpView(m.bindings())
	if m.flash != "" {
		footer = stylize("●", m.noColor, hapticColor(m.flash)) + " " + footer
	}
	return footer
}

// bindings returns the keys active on the current screen. Back is listed only
// while the host back button is bound.
func (m Model) bindings() []key.Binding {
	var out []key.Binding
	if m.mode != inputNone {
		return []key.Binding{m.keys.Select, m.keys.Cancel}
	}
	switch m.wizard.Step() {
	case wizard.StepLocationSelect:
		out = append(out, m.keys.Up, m.keys.Down, m.keys.Select)
	case wizard.StepQuestions:
		out = append(out, m.keys.Up, m.keys.Down, m.keys.Yes, m.keys.No, m.keys.NA, m.keys.Photo, m.keys.RemovePhoto, m.keys.Next)
	case wizard.StepSignature:
		out = append(out, m.keys.Clear, m.keys.Name, m.keys.Submit)
	}
	if m.bridge.BackVisible() {
		out = append(out, m.keys.Back)
	}
	if m.wizard.Step() != wizard.StepSubmitting {
		out = append(out, m.keys.Close)
	}
	return out
}

// renderPad draws one character per terminal cell, inked when any pixel of
// the cell's raster block is dark.
func renderPad(pad *capture.Pad) string {
	img := pad.Image()
	bounds := pad.Bounds()
	var b strings.Builder
	for cy := 0; cy < bounds.Dy(); cy++ {
		if cy > 0 {
			b.WriteByte('\n')
		}
		for cx := 0; cx < bounds.Dx(); cx++ {
			if cellInked(img, cx*padScale, cy*padScale) {
				b.WriteString("█")
			} else {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}
