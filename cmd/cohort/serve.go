// ABOUTME: serve subcommand binding the listener, starting tracing, and loading the store from its own API.
package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/cohort/appdata"
	"github.com/2389-research/cohort/telemetry"
	"github.com/2389-research/cohort/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $COHORT_ADDR or 127.0.0.1:3000)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	shutdownTracing, err := telemetry.Init(ctx, a.log, telemetry.Config{
		Enabled:  a.cfg.Trace,
		Version:  version,
		Sampling: a.cfg.TraceSampling,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			a.log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Addr, err)
	}
	return a.serveOn(ctx, ln)
}

// serveOn serves on ln until ctx ends. The store loads in the background from
// the configured API, which by default is this server itself.
func (a *app) serveOn(ctx context.Context, ln net.Listener) error {
	base := a.cfg.APIBase(ln.Addr().String())
	store := appdata.NewStore(appdata.NewHTTPClient(base, a.cfg.FetchTimeout), a.log)

	srv, err := web.NewServer(web.ServerConfig{
		Addr:      ln.Addr().String(),
		Library:   a.library(),
		Store:     store,
		RenderTTL: a.cfg.RenderTTL,
		Logger:    a.log,
	})
	if err != nil {
		_ = ln.Close()
		return err
	}

	a.log.Info("cohort server listening",
		"addr", ln.Addr().String(),
		"api", base,
		"manifest", a.cfg.ManifestPath,
		"content_dir", a.cfg.ContentDir,
	)

	// Load failures are logged by the store; the site keeps serving defaults.
	go func() { _ = store.Load(ctx) }()

	return srv.Serve(ctx, ln)
}
