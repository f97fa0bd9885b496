package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eringen/mdblog"
	"github.com/eringen/mdblog/scaffold"
)

func newInitCommand() *cobra.Command {
	var siteURL, author string

	cmd := &cobra.Command{
		Use:   "init <dir>",
		Short: "Create a new blog directory with config, templates and a first post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args[0], siteURL, author)
		},
	}
	cmd.Flags().StringVar(&siteURL, "url", "http://localhost:3000", "canonical site URL")
	cmd.Flags().StringVar(&author, "author", "", "site author")
	return cmd
}

func runInit(cmd *cobra.Command, dir, siteURL, author string) error {
	out := cmd.OutOrStdout()
	data := scaffold.Data{
		SiteName: scaffold.ToTitle(filepath.Base(dir)),
		SiteURL:  siteURL,
		Author:   author,
	}

	fmt.Fprintf(out, "Creating new mdblog site: %s\n\n", dir)
	if err := scaffold.Generate(dir, data, mdblog.DefaultTemplates(), out); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done! Next steps:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  cd %s\n", dir)
	fmt.Fprintln(out, "  mdblog serve --config config.yaml")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Add markdown files to blogs/ and edit templates/*.html to customize the pages.")
	return nil
}
