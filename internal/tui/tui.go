package tui

import (
	"context"

	"menu-admin/internal/format"
	"menu-admin/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	APIURL string
	Glyphs format.Glyphs
	Logger *zap.Logger
	// MarkdownStyle is the glamour style of the help overlay; empty detects it.
	MarkdownStyle string
}

// Run starts the interactive menu manager and blocks until it exits.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(ctx, sess, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
