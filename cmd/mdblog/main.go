package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "mdblog",
		Short:         "Serve a directory of markdown files as a blog",
		Long:          `mdblog lists the markdown files in a directory as a blog index and renders each one as an HTML page on request.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (yaml, toml or json)")

	rootCmd.AddCommand(newServeCommand(&configPath))
	rootCmd.AddCommand(newListCommand(&configPath))
	rootCmd.AddCommand(newRenderCommand(&configPath))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the mdblog version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mdblog %s\n", version)
		},
	})
	return rootCmd
}
