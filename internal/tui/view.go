package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kaizenlab/pdca-coach/internal/transcript"
	"github.com/kaizenlab/pdca-coach/internal/workflow"
)

func (a *App) View() string {
	switch a.state {
	case stateEditor:
		return a.viewEditor()
	default:
		return a.viewHome()
	}
}

func (a *App) viewHome() string {
	title := titleStyle.Render("PDCA Training Coach")
	subtitle := statusStyle.Render("Turn plan-do-check-act into a working habit, with an AI coach on the side.")

	cards := make([]string, 0, 2)
	descriptions := []string{
		"For new projects and quarterly OKR/KPI planning.\nFocus: driver metrics, definition of done, risk plans.",
		"For incident reviews and quality problems.\nFocus: 5-why analysis, layered countermeasures, standardization.",
	}
	for i, v := range workflow.Variants() {
		pct := a.store.Completion(v)
		body := fmt.Sprintf("%s\n\n%s\n\n%s %3d%%",
			fieldLabelStyle.Render(fmt.Sprintf("%s) %s", v.Key(), v.Label())),
			statusStyle.Render(descriptions[i]),
			progressBar(pct, 24), pct)
		style := cardStyle
		if a.homeChoice == i {
			style = cardSelectedStyle
		}
		cards = append(cards, style.Render(body))
	}

	help := helpStyle.Render("1/2 or ↑/↓ + enter: open · q: quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		lipgloss.JoinVertical(lipgloss.Left, cards...),
		"",
		help,
	)
}

func (a *App) viewEditor() string {
	left := a.renderForm()
	right := a.renderChatPanel()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	footer := a.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), body, footer)
}

func (a *App) renderHeader() string {
	title := titleStyle.Render(fmt.Sprintf("PDCA · %s", a.variant.Label()))

	tabs := make([]string, 0, 4)
	for _, s := range workflow.Stages() {
		label := fmt.Sprintf("%s %s", strings.ToUpper(s.Key()), s.Label())
		switch {
		case s == a.stage:
			tabs = append(tabs, stageActiveStyle.Render(label))
		case s < a.stage:
			tabs = append(tabs, stageDoneStyle.Render(label))
		default:
			tabs = append(tabs, stageIdleStyle.Render(label))
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	pct := a.store.Completion(a.variant)
	progress := fmt.Sprintf("%s %3d%%  %s", progressBar(pct, 20), pct, statusStyle.Render(a.stage.Description()))

	return lipgloss.JoinVertical(lipgloss.Left, title, tabBar, progress, "")
}

func (a *App) renderForm() string {
	sections := make([]string, 0, len(a.fields)+1)
	for i, f := range a.fields {
		label := fieldLabelStyle
		marker := "  "
		if i == a.focus {
			label = fieldLabelFocusStyle
			marker = "▸ "
		}
		section := lipgloss.JoinVertical(lipgloss.Left,
			marker+label.Render(f.label),
			hintStyle.Render("  "+f.hint),
			f.ta.View(),
		)
		sections = append(sections, section)
	}

	if text, ok := a.log.Audit(); ok {
		audit := auditPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			fieldLabelStyle.Render("Teacher Review"),
			chatBodyStyle.Render(text),
			helpStyle.Render("x: dismiss"),
		))
		sections = append(sections, audit)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderChatPanel() string {
	status := "● ready"
	if a.thinking {
		status = a.spin.View() + " thinking"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		fieldLabelStyle.Render("AI Coach "),
		statusStyle.Render(status),
	)

	quick := make([]string, 0, len(a.quickSlots))
	for i, q := range a.quickSlots {
		quick = append(quick, helpStyle.Render(fmt.Sprintf("%d: %s", i+1, q.Title)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		a.chat.View(),
		"",
		strings.Join(quick, "\n"),
	)
	return panelStyle.Width(a.chatPanelWidth()).Render(content)
}

func (a *App) renderTranscript() string {
	entries := a.log.Entries()
	if len(entries) == 0 {
		return statusStyle.Render("I am your PDCA coach. Press 1-4 to ask for\nhelp with the current stage, or g for a full review.")
	}

	lines := make([]string, 0, len(entries)*2)
	for _, e := range entries {
		name := chatCoachStyle.Render("Coach")
		if e.Role == transcript.RoleUser {
			name = chatUserStyle.Render("You")
		}
		body := e.Content
		if body == "" {
			body = "..."
		}
		lines = append(lines, name, chatBodyStyle.Render(body), "")
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderFooter() string {
	var parts []string
	if a.editing {
		parts = append(parts, "esc: done editing · tab: next field")
	} else {
		parts = append(parts, "enter: edit · j/k: field · h/l or p/d/c/a: stage · 1-4: ask coach · g: review · e/E: export · R: reset · esc: home")
	}
	footer := helpStyle.Render(strings.Join(parts, " "))

	if a.errMsg != "" {
		return lipgloss.JoinVertical(lipgloss.Left, errorStyle.Render(a.errMsg), footer)
	}
	if a.statusMsg != "" {
		return lipgloss.JoinVertical(lipgloss.Left, statusStyle.Render(a.statusMsg), footer)
	}
	return footer
}

// progressBar renders a fixed-width completion bar.
func progressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressRestStyle.Render(strings.Repeat("░", width-filled))
}
