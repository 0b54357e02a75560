package commands

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/PolicyFinder/internal/app"
	"github.com/atinyakov/PolicyFinder/internal/client/shell"
	"github.com/atinyakov/PolicyFinder/internal/client/storage"
	"github.com/atinyakov/PolicyFinder/internal/config"
	"github.com/atinyakov/PolicyFinder/internal/favorites"
	"github.com/atinyakov/PolicyFinder/internal/logger"
	"github.com/atinyakov/PolicyFinder/internal/view"
)

var (
	home       string
	configPath string
	appCtx     *clientApp
)

// clientApp is what every subcommand runs against.
type clientApp struct {
	Policies  policyService
	Feedback  view.FeedbackSender
	Favorites *favorites.Store
	Clipboard view.Clipboard
	SiteURL   string
	Log       *zap.Logger

	close func() error
}

type policyService interface {
	view.PolicyLister
	view.PolicyGetter
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, version, buildDate string) error {
	return newRootCmd(version, buildDate, nil).ExecuteContext(ctx)
}

// newRootCmd builds the command tree. A non-nil build replaces the default
// wiring, which lets tests run commands against fakes.
func newRootCmd(version, buildDate string, build func() (*clientApp, error)) *cobra.Command {
	if build == nil {
		build = buildApp
	}
	root := &cobra.Command{
		Use:          "policyfinder",
		Short:        "Browse government policies and subsidies",
		Version:      fmt.Sprintf("%s (built %s)", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A")),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			appCtx = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx == nil || appCtx.close == nil {
				return nil
			}
			return appCtx.close()
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.policyfinder)")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (JSON or YAML)")

	root.AddCommand(listCmd(), showCmd(), favCmd(), favsCmd(), feedbackCmd(), shareCmd(), shellCmd())
	return root
}

// buildApp loads the configuration and wires the real dependencies.
func buildApp() (*clientApp, error) {
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		home = filepath.Join(dir, ".policyfinder")
	}

	opts, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.New()
	if err := log.Init(opts.LogLevel); err != nil {
		return nil, err
	}

	wire, err := app.NewWire(opts)
	if err != nil {
		return nil, err
	}

	ls := storage.NewLocalStorage(filepath.Join(home, storage.DefaultFile))
	if err := ls.Load(); err != nil {
		_ = wire.Close()
		return nil, fmt.Errorf("open local storage: %w", err)
	}
	favs := favorites.New(ls)
	if _, err := favs.Load(); err != nil {
		log.Log.Warn("Error loading favorites", zap.Error(err))
	}

	return &clientApp{
		Policies:  wire.Policies,
		Feedback:  wire.Feedback,
		Favorites: favs,
		Clipboard: shell.SystemClipboard{},
		SiteURL:   cmp.Or(opts.PublicURL, "http://"+opts.Port),
		Log:       log.Log,
		close: func() error {
			_ = log.Log.Sync()
			return wire.Close()
		},
	}, nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
