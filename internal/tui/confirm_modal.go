package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmFocus int

const (
	confirmFocusCancel confirmFocus = iota
	confirmFocusConfirm
)

func (f confirmFocus) toggle() confirmFocus {
	if f == confirmFocusConfirm {
		return confirmFocusCancel
	}
	return confirmFocusConfirm
}

func modalWidth(total int) int {
	return min(max(total-8, 30), 64)
}

// renderModalBox draws a titled, bordered box sized for a terminal of total columns.
func renderModalBox(total int, title, content string) string {
	w := modalWidth(total)
	head := styleHeading().Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(w).
		Render(head + "\n\n" + content)
}

func renderConfirmModal(total int, title, body, confirmLabel, cancelLabel string, focus confirmFocus) string {
	// Buttons stay borderless inside the bordered box.
	btn := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
	active := btn.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)

	confirm, cancel := btn.Render(confirmLabel), btn.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = active.Render(confirmLabel)
	} else {
		cancel = active.Render(cancelLabel)
	}

	inner := modalWidth(total) - 4
	content := strings.Join([]string{
		lipgloss.NewStyle().Width(inner).Render(body),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel),
		"",
		styleMuted().Width(inner).Render("tab: focus   enter: select   y/n   esc: cancel"),
	}, "\n")
	return renderModalBox(total, title, content)
}
