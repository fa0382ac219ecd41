// ABOUTME: members subcommand listing members with their icons from disk or a running API.
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/2389-research/cohort/appdata"
	"github.com/2389-research/cohort/render"
)

func newMembersCmd(a *app) *cobra.Command {
	var api string
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List members with their icons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.members(cmd.Context(), cmd.OutOrStdout(), api)
		},
	}
	cmd.Flags().StringVar(&api, "api", "", "read from a running server's API instead of the content directory")
	return cmd
}

func (a *app) members(ctx context.Context, w io.Writer, api string) error {
	var f appdata.Fetcher = appdata.LibraryFetcher{Lib: a.library()}
	if api != "" {
		f = appdata.NewHTTPClient(api, a.cfg.FetchTimeout)
	}

	store := appdata.NewStore(f, a.log)
	if err := store.Load(ctx); err != nil {
		return err
	}

	snap := store.Snapshot()
	for _, m := range snap.Members {
		fmt.Fprintln(w, render.MemberIconStyle.Render(m.Icon)+render.MemberNameStyle.Render(m.Name))
	}
	fmt.Fprintln(w, render.MutedStyle.Render(fmt.Sprintf("%d members, %d chapters", len(snap.Members), len(snap.Curriculum))))
	return nil
}
