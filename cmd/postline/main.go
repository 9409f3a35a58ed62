package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "postline",
	Short: "A markdown blog with a scroll-aware table of contents",
	Long: `postline serves the markdown posts of a content directory as a blog.

Every post page carries syntax-highlighted code, a light/dark theme and
a table of contents that highlights the heading being read.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the postline version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "postline %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./postline.yaml)")
	rootCmd.AddCommand(serveCmd, tocCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
