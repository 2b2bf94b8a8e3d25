// Copyright © 2021 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/reflow/indent"
	"github.com/spf13/cobra"

	"github.com/jshint/jshint-sub001/docs"
	"github.com/jshint/jshint-sub001/options"
)

var docList bool

// docCmd represents the doc command
var docCmd = &cobra.Command{
	Use:   "doc [flags] [OPTION]",
	Short: "Show documentation for jshint options",
	Long: `Show the reference for jshint options.

With no arguments, prints the whole option reference.  Given an option name,
prints only the description of that option.

Examples:
  jshint doc                 Show the full option reference
  jshint doc undef           Show docs for the undef option
  jshint doc -l              List all option names`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := docExec(cmd.OutOrStdout(), args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func docExec(w io.Writer, args []string) error {
	switch {
	case docList:
		for _, name := range options.Names() {
			fmt.Fprintln(w, name) //nolint:errcheck // best-effort output
		}
	case len(args) == 0:
		fmt.Fprint(w, docs.OptionsGuide) //nolint:errcheck // best-effort output
	default:
		text, ok := docs.Option(args[0])
		if !ok {
			return fmt.Errorf("no documentation for option %q", args[0])
		}
		fmt.Fprintf(w, "%s\n%s\n", args[0], indent.String(text, 4)) //nolint:errcheck // best-effort output
	}
	return nil
}

func init() {
	rootCmd.AddCommand(docCmd)

	docCmd.Flags().BoolVarP(&docList, "list", "l", false,
		"List the names of all options.")
}
