// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jshint/jshint-sub001/lsp"
)

// LSPCommand creates the "lsp" cobra command.  Embedders can pass
// WithAnalyzers, WithPredefined or WithOptions to configure the checks
// run on every document.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the jshint Language Server Protocol server",
		Long: `Start an LSP server for JavaScript source files.

The language server lints documents as they are edited and publishes the
problems found.  It also provides quick fixes to silence a problem, hover
summaries of functions and implied globals, document and workspace symbols,
and folding ranges.  Options are read from .jshintrc as for "jshint lint".

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  jshint lsp                         Start with stdio transport
  jshint lsp --port 7998             Start with TCP on port 7998`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			lintOpts, err := buildOptions(viper.GetViper(), rc, nil)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			cfg.apply(lintOpts)

			srv := lsp.New(
				lsp.WithOptions(lintOpts),
				lsp.WithAnalyzers(cfg.analyzers...),
				lsp.WithLogger(logger),
			)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				logger.WithField("addr", addr).Info("jshint LSP server listening")
				if err := srv.RunTCP(addr); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			} else {
				if err := srv.RunStdio(); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
