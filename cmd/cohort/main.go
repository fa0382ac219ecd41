// ABOUTME: CLI entrypoint for cohort with serve, show, members, browse, and version subcommands.
// ABOUTME: Loads .env, then COHORT_* env config, then flag overrides, and wires signal handling.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389-research/cohort/config"
	"github.com/2389-research/cohort/curriculum"
	"github.com/2389-research/cohort/logging"
)

var version = "dev"

// app carries flag values and the resolved configuration across subcommands.
type app struct {
	out io.Writer

	manifest   string
	contentDir string
	logMode    string
	verbose    bool

	cfg *config.Config
	log *logging.Logger
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(&app{out: os.Stdout}).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "cohort",
		Short:        "Serve and browse cohort members' chapter content",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}
	root.SetOut(a.out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.manifest, "manifest", "", "curriculum manifest path (default $COHORT_MANIFEST or public/curriculum.json)")
	pf.StringVar(&a.contentDir, "content-dir", "", "content root (default $COHORT_CONTENT_DIR or content)")
	pf.StringVar(&a.logMode, "log-mode", "", "log format: dev or prod (default $COHORT_LOG_MODE or dev)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newServeCmd(a),
		newShowCmd(a),
		newMembersCmd(a),
		newBrowseCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup resolves configuration from the environment and flags and builds the
// logger unless one was injected.
func (a *app) setup() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if a.manifest != "" {
		cfg.ManifestPath = a.manifest
	}
	if a.contentDir != "" {
		cfg.ContentDir = a.contentDir
	}
	if a.logMode != "" {
		cfg.LogMode = a.logMode
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.log == nil {
		log, err := logging.New(cfg.LogMode, cfg.LogLevel)
		if err != nil {
			return err
		}
		a.log = log
	}
	return nil
}

func (a *app) library() *curriculum.Library {
	return curriculum.NewLibrary(a.cfg.ManifestPath, a.cfg.ContentDir)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No config needed.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cohort %s\n", version)
		},
	}
}
