// Copyright © 2018 The ELPS authors

// Package repl implements an interactive lint console.  Source typed at the
// prompt is appended to a growing program which is linted each time a
// complete chunk has been entered.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"

	"github.com/jshint/jshint-sub001/diagnostic"
	"github.com/jshint/jshint-sub001/options"
)

type config struct {
	stdin  io.ReadCloser
	stderr io.WriteCloser
	opts   *options.Options
	color  diagnostic.ColorMode
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithOptions sets the lint options the session starts with.
func WithOptions(opts *options.Options) Option {
	return func(c *config) {
		c.opts = opts
	}
}

// WithColor selects colored diagnostics.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// RunRepl runs the lint console until end of input or ".exit".
func RunRepl(prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}
	sess := NewSession(out, cfg.opts)
	sess.Renderer.Color = cfg.color

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       historyPath(),
		HistorySearchFold: true,
		AutoComplete:      &commandCompleter{},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	ensureHistoryFilePermissions(rlCfg.HistoryFile)
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	cont := strings.Repeat(" ", len(prompt))
	for {
		if sess.Pending() {
			rl.SetPrompt(cont)
		} else {
			rl.SetPrompt(prompt)
		}
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			sess.Discard()
			continue
		}
		if err != nil {
			break
		}
		if !sess.Eval(line) {
			return
		}
	}
	sess.Flush()
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jshint_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	if err := os.Chmod(path, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot restrict history file %s: %v\n", path, err) //nolint:errcheck // best-effort warning
	}
}
