// Copyright © 2024 The ELPS authors

package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jshint/jshint-sub001/options"
)

const (
	rcName     = ".jshintrc"
	ignoreName = ".jshintignore"
)

// rcFile is a decoded options file.
type rcFile struct {
	Path string
	// Globals holds the "globals" and "predef" entries.  Viper folds key
	// case so these are decoded separately.
	Globals map[string]bool
}

// findConfig returns the nearest .jshintrc in dir or one of its parents,
// falling back to one in home.  It returns "" when there is none.
func findConfig(dir, home string) string {
	for {
		p := filepath.Join(dir, rcName)
		if isFile(p) {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if home != "" {
		if p := filepath.Join(home, rcName); isFile(p) {
			return p
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// readConfig loads the options file at path into v.  The file is JSON
// which may contain comments.
func readConfig(v *viper.Viper, path string) (*rcFile, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	clean := stripComments(src)
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(clean)); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	var raw struct {
		Globals interface{} `json:"globals"`
		Predef  interface{} `json:"predef"`
	}
	if err := json.Unmarshal(clean, &raw); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	globals := options.Default()
	for name, value := range map[string]interface{}{"globals": raw.Globals, "predef": raw.Predef} {
		if value == nil {
			continue
		}
		if err := globals.Set(name, value); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return &rcFile{Path: path, Globals: globals.Globals}, nil
}

// buildOptions resolves the options in force at the start of every file:
// the defaults, then settings from v (config file and JSHINT_ environment
// variables), then overrides given as "name", "name=value", "-W117" or
// "+W117".
func buildOptions(v *viper.Viper, rc *rcFile, overrides []string) (*options.Options, error) {
	opts := options.Default()
	for _, name := range options.Names() {
		if name == "globals" || name == "predef" || !v.IsSet(name) {
			continue
		}
		if err := opts.Set(name, v.Get(name)); err != nil {
			return nil, err
		}
	}
	if rc != nil {
		for name, writable := range rc.Globals {
			opts.Globals[name] = writable
		}
	}
	for _, o := range overrides {
		if code, enable, ok := options.ParseCodeToggle(o); ok {
			opts.Ignore(code, enable)
			continue
		}
		name, value, found := strings.Cut(o, "=")
		var val interface{} = true
		if found {
			val = value
		}
		if name == "globals" || name == "predef" {
			val = strings.Split(value, ",")
		}
		if err := opts.Set(strings.TrimSpace(name), val); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// stripComments blanks out // and /* */ comments outside of strings so the
// result can be decoded as JSON.  Line structure is preserved.
func stripComments(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	blank := func(i int) {
		if out[i] != '\n' && out[i] != '\r' {
			out[i] = ' '
		}
	}
	inString := false
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(out) && out[i+1] == '/':
			for ; i < len(out) && out[i] != '\n'; i++ {
				blank(i)
			}
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			blank(i)
			blank(i + 1)
			i += 2
			for ; i < len(out) && !(out[i] == '*' && i+1 < len(out) && out[i+1] == '/'); i++ {
				blank(i)
			}
			if i < len(out) {
				blank(i)
				blank(i + 1)
				i++
			}
		}
	}
	return out
}

// readIgnoreFile returns the exclude patterns listed in dir/.jshintignore.
// Blank lines and lines starting with # are skipped.
func readIgnoreFile(dir string) ([]string, error) {
	f, err := os.Open(filepath.Join(dir, ignoreName)) //#nosec G304
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only
	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, strings.TrimSuffix(filepath.FromSlash(line), string(filepath.Separator)))
	}
	return patterns, sc.Err()
}
