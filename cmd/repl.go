// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jshint/jshint-sub001/repl"
)

var replSet []string

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Check JavaScript interactively",
	Long: `Start an interactive console which checks JavaScript as it is typed.

Lines are collected until their brackets balance, or until a blank line is
entered, and then checked together with everything entered before.  Only
problems on the new lines are shown.  Options from .jshintrc apply; use
.set to change them during the session and .help for other commands.
Use Ctrl-D or .exit to leave.

Example session:
  jshint> .set undef
  jshint> function f(a) {
          return b;
          }
  warning[W117]: 'b' is not defined.
  jshint> .summary
  1:1 function f(a) statements=1 complexity=1`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := buildOptions(viper.GetViper(), rc, replSet)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		repl.RunRepl(filepath.Base(os.Args[0])+"> ",
			repl.WithOptions(opts),
			repl.WithColor(colorMode()))
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringArrayVar(&replSet, "set", nil,
		`Set an option: "name", "name=value", "-W117" (may be repeated).`)
}
