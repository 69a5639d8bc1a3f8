package app

import (
	"context"
	"fmt"

	"github.com/mpruett/stacks/internal/config"
	"github.com/mpruett/stacks/internal/library"
	"github.com/mpruett/stacks/internal/prefs"
	"github.com/mpruett/stacks/internal/session"
	"github.com/mpruett/stacks/internal/ui"
)

// Options configure the Stacks application.
type Options struct {
	ConfigPath string // empty uses default ~/.config/stacks/config.toml
	PrefsPath  string // empty uses default ~/.config/stacks/prefs.toml
	ServerURL  string // overrides the configured service URL when set
}

// Run boots the Stacks TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ServerURL != "" {
		cfg.ServerURL = opts.ServerURL
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}

	client, err := library.NewClient(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("init library client: %w", err)
	}

	sessions, err := session.Open(cfg.SessionPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer sessions.Close()

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Sessions:  sessions,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		PageSize:  userPrefs.PageSize,
	})
}
