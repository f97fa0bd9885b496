package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/mdblog"
	"github.com/eringen/mdblog/markdown"
	"github.com/eringen/mdblog/views"
)

func newServeCommand(configPath *string) *cobra.Command {
	var addr, dir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the blog server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := mdblog.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if dir != "" {
				cfg.Content.Dir = dir
			}

			app, err := mdblog.New(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&dir, "dir", "", "content directory (overrides content.dir)")
	return cmd
}

func newListCommand(configPath *string) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the posts in the content directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := mdblog.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.Content.Dir = dir
			}
			store := mdblog.NewStore(cfg.Content.Dir,
				mdblog.WithExtension(cfg.Content.Extension),
				mdblog.WithSortOrder(mdblog.SortOrder(cfg.Index.Sort)),
			)
			entries, err := store.ListEntries()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tMODIFIED\tPATH")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Slug, e.LastModified.Format(time.RFC3339), views.BlogURL(e.Slug))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "content directory (overrides content.dir)")
	return cmd
}

func newRenderCommand(configPath *string) *cobra.Command {
	var engine string

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Convert a markdown file to HTML on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if engine == "" {
				cfg, err := mdblog.LoadConfig(*configPath)
				if err != nil {
					return err
				}
				engine = cfg.Markdown.Engine
			}
			conv, err := markdown.New(engine)
			if err != nil {
				return err
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return markdown.Component(conv, string(src)).Render(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&engine, "engine", "", "markdown engine: builtin or goldmark (overrides markdown.engine)")
	return cmd
}
