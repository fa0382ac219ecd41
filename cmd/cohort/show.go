// ABOUTME: show subcommand rendering one member chapter to the terminal with glamour.
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/2389-research/cohort/curriculum"
	"github.com/2389-research/cohort/render"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		width int
		style string
	)
	cmd := &cobra.Command{
		Use:   "show <name> <chapter>",
		Short: "Render one member's chapter in the terminal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.show(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], width, style)
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	cmd.Flags().StringVar(&style, "style", "", "glamour style (dark, light, notty; default detects the terminal)")
	return cmd
}

func (a *app) show(ctx context.Context, w io.Writer, name, idx string, width int, style string) error {
	items, err := curriculum.NewResolver(a.library(), a.log).Resolve(ctx, name, idx)
	if err != nil {
		return err
	}
	term, err := render.NewTerminal(width, style)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(w, render.MutedStyle.Render("This chapter has no parts."))
		return nil
	}
	for _, item := range items {
		if item.Err != nil {
			fmt.Fprintln(w, render.Heading(item.Icon, item.Title))
			fmt.Fprintln(w, render.WarningStyle.Render(item.Content))
			continue
		}
		fmt.Fprintln(w, render.Heading(item.Icon, render.PartTitle(item.Title, item.Content)))
		body, err := term.Render(item.Content)
		if err != nil {
			a.log.Warn("failed to render chapter content", "member", name, "chapter", idx, "title", item.Title, "error", err)
			fmt.Fprintln(w, render.WarningStyle.Render(curriculum.FallbackContent))
			continue
		}
		fmt.Fprint(w, body)
	}
	return nil
}
