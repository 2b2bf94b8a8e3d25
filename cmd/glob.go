// Copyright © 2024 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-zglob"
)

// defaultExtensions are the file extensions searched for when a directory is
// named on the command line.
var defaultExtensions = []string{".js"}

// expandArgs expands arguments into the files to lint.  A directory, or a
// pattern ending with "/...", is searched recursively for files with one of
// exts.  Arguments containing glob metacharacters ("**" included) are
// expanded.  Other arguments pass through unchanged.  Paths matching one of
// excludes are dropped.
func expandArgs(args []string, excludes []string, exts []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		dir, recursive := strings.CutSuffix(arg, "/...")
		if recursive && dir == "" {
			dir = "."
		}
		if !recursive {
			if info, err := os.Stat(arg); err == nil && info.IsDir() {
				dir, recursive = arg, true
			}
		}
		switch {
		case recursive:
			files, err := findSourceFiles(dir, exts)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		case strings.ContainsAny(arg, "*?["):
			files, err := zglob.Glob(arg)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			sort.Strings(files)
			out = append(out, files...)
		default:
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

func findSourceFiles(root string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = defaultExtensions
	}
	var files []string
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		matches, err := zglob.Glob(filepath.Join(root, "**", "*"+ext))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// filterExcludes removes paths matching any of patterns.  A pattern matches
// the whole path, the file name or any directory in the path.
func filterExcludes(paths []string, patterns []string) []string {
	if len(patterns) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !excluded(p, patterns) {
			out = append(out, p)
		}
	}
	return out
}

func excluded(path string, patterns []string) bool {
	clean := filepath.Clean(path)
	parts := strings.Split(filepath.ToSlash(clean), "/")
	for _, pat := range patterns {
		if ok, _ := zglob.Match(filepath.ToSlash(pat), filepath.ToSlash(clean)); ok {
			return true
		}
		for _, part := range parts {
			if ok, _ := filepath.Match(pat, part); ok {
				return true
			}
		}
	}
	return false
}
