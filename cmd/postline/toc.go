package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/postline/markdown"
)

var showSkipped bool

var tocCmd = &cobra.Command{
	Use:   "toc <file.md>",
	Short: "Print the table of contents of a markdown file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		printTOC(cmd.OutOrStdout(), string(raw), showSkipped)
		return nil
	},
}

func init() {
	tocCmd.Flags().BoolVarP(&showSkipped, "skipped", "s", false, "also list '#' lines that are not headings")
}

func printTOC(w io.Writer, md string, skipped bool) {
	headings, rejected := markdown.Outline(md)
	for _, h := range headings {
		fmt.Fprintf(w, "%s- %s", strings.Repeat(" ", h.Level), h.Title)
		if h.ID != h.Title {
			fmt.Fprintf(w, " (#%s)", h.ID)
		}
		fmt.Fprintln(w)
	}
	if !skipped {
		return
	}
	for _, res := range rejected {
		fmt.Fprintf(w, "line %d: skipped (%s)\n", res.Line, res.Skipped)
	}
}
