// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/jshint/jshint-sub001/options"
)

// commandCompleter implements readline.AutoCompleter for console commands
// and the option names accepted by .set and .unset.
type commandCompleter struct{}

func (c *commandCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	if !strings.HasPrefix(strings.TrimLeft(text, " \t"), ".") {
		return nil, 0
	}
	start := pos
	for start > 0 && line[start-1] != ' ' && line[start-1] != '\t' {
		start--
	}
	prefix := string(line[start:pos])

	var candidates []string
	if strings.TrimSpace(string(line[:start])) == "" {
		candidates = matching(commands, prefix)
	} else {
		fields := strings.Fields(string(line[:start]))
		if len(fields) == 1 && (fields[0] == ".set" || fields[0] == ".unset") {
			candidates = matching(options.Names(), prefix)
		}
	}
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name[len(prefix):]))
	}
	return result, len(prefix)
}

func matching(names []string, prefix string) []string {
	var result []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}
