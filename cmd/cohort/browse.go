// ABOUTME: browse subcommand running the interactive member and chapter terminal UI.
// ABOUTME: The alt screen owns the terminal, so logs go to --log-file or nowhere while it runs.
package main

import (
	"bytes"
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/cohort/appdata"
	"github.com/2389-research/cohort/logging"
	"github.com/2389-research/cohort/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		api     string
		style   string
		logFile string
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse members and chapters in an interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.browse(cmd.Context(), api, style, logFile)
		},
	}
	cmd.Flags().StringVar(&api, "api", "", "read members from a running server's API instead of the content directory")
	cmd.Flags().StringVar(&style, "style", "dark", "glamour style for chapter bodies (dark, light, notty)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file while browsing (default: discard)")
	return cmd
}

func (a *app) browse(ctx context.Context, api, style, logFile string) error {
	model, log, err := a.browseModel(ctx, api, style, logFile)
	if err != nil {
		return err
	}
	defer log.Sync()

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// browseModel builds the browser. Nothing it triggers logs to the terminal.
func (a *app) browseModel(ctx context.Context, api, style, logFile string) (tui.AppModel, *logging.Logger, error) {
	log := logging.NewNop()
	if logFile != "" {
		l, err := logging.NewFile(a.cfg.LogMode, a.cfg.LogLevel, logFile)
		if err != nil {
			return tui.AppModel{}, nil, err
		}
		log = l
	}
	quiet := *a
	quiet.log = log

	var f appdata.Fetcher = appdata.LibraryFetcher{Lib: quiet.library()}
	if api != "" {
		f = appdata.NewHTTPClient(api, quiet.cfg.FetchTimeout)
	}
	store := appdata.NewStore(f, log)
	return tui.NewAppModel(ctx, store, quiet.chapterFunc(style)), log, nil
}

// chapterFunc renders chapters with the same output as the show command.
func (a *app) chapterFunc(style string) tui.ChapterFunc {
	return func(ctx context.Context, member string, chapter, width int) (string, error) {
		var buf bytes.Buffer
		if err := a.show(ctx, &buf, member, strconv.Itoa(chapter), width, style); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}
