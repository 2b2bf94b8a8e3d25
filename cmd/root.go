// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jshint/jshint-sub001/diagnostic"
)

var (
	cfgFile   string
	colorFlag string
	logLevel  string

	// rc is the configuration file read by initConfig, if any.
	rc *rcFile

	logger = logrus.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jshint",
	Short: "jshint: a static code analysis tool for JavaScript",
	Long: `jshint detects errors and potential problems in JavaScript code and
enforces coding conventions.  It checks a file in a single pass and reports
problems with the line and column they were found at.

Getting started:
  jshint lint file.js            Check a file
  jshint lint src/...            Check every .js file below src
  jshint lint --report file.js   Print diagnostics and a scope summary as JSON
  jshint repl                    Check source interactively
  jshint lsp                     Start the language server
  jshint doc undef               Describe an option

Configuration:
  Options are read from a .jshintrc file (JSON, comments allowed) found in
  the working directory or one of its parents, or in the home directory.
  Use --config to name a file explicitly.  Options can also be set with
  JSHINT_<OPTION> environment variables and, inside a file, with directive
  comments such as /* jshint undef:true */ and /* global jQuery */.

More information:
  Documentation:   https://jshint.com/docs/`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(lvl)
		_, err = diagnostic.ParseColorMode(colorFlag)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Options file (default is the nearest .jshintrc)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warning",
		"Logging level: debug, info, warning or error.")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	v := viper.GetViper()
	v.SetEnvPrefix("jshint")
	v.AutomaticEnv() // read in environment variables that match

	path := cfgFile
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		home, _ := os.UserHomeDir()
		path = findConfig(wd, home)
	}
	if path == "" {
		return
	}
	var err error
	rc, err = readConfig(v, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.WithField("file", path).Debug("using config file")
}
