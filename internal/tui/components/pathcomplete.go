package components

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PathCompleter completes filesystem paths on Tab and cycles through the
// matches on repeated presses. Directories always match; files match only
// when their extension is one of the accepted ones.
//
//	completer := NewPathCompleter(".epub")
//	input.SetValue(completer.Next(input.Value())) // on Tab
//	completer.Reset()                             // on any other key
type PathCompleter struct {
	exts       []string
	matches    []string
	cycleIndex int
	lastParent string
}

// NewPathCompleter creates a completer accepting files with the given
// extensions. With no extensions only directories are offered.
func NewPathCompleter(exts ...string) *PathCompleter {
	lowered := make([]string, len(exts))
	for i, e := range exts {
		lowered[i] = strings.ToLower(e)
	}
	return &PathCompleter{exts: lowered}
}

// Next returns the next completion for input. The first call after the
// input's directory changes extends to the longest common prefix when that
// adds something, otherwise it returns the first match.
func (c *PathCompleter) Next(input string) string {
	parent, prefix := splitPath(input)

	if c.matches == nil || parent != c.lastParent {
		c.matches = c.findMatches(parent, prefix)
		c.cycleIndex = 0
		c.lastParent = parent

		if len(c.matches) == 0 {
			return input
		}
		if len(c.matches) > 1 {
			candidate := filepath.Join(parent, longestCommonPrefix(c.matches))
			if len(candidate) > len(input) {
				return candidate
			}
		}
		return c.formatMatch(parent, c.matches[0])
	}

	if len(c.matches) == 0 {
		return input
	}
	c.cycleIndex = (c.cycleIndex + 1) % len(c.matches)
	return c.formatMatch(parent, c.matches[c.cycleIndex])
}

// Reset clears the cycle state.
func (c *PathCompleter) Reset() {
	c.matches = nil
	c.cycleIndex = 0
	c.lastParent = ""
}

func (c *PathCompleter) findMatches(parent, prefix string) []string {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return []string{}
	}

	matches := []string{}
	lowPrefix := strings.ToLower(prefix)
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if !entry.IsDir() && !c.acceptsFile(name) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(name), lowPrefix) {
			matches = append(matches, name)
		}
	}

	sort.Strings(matches)
	return matches
}

func (c *PathCompleter) acceptsFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range c.exts {
		if ext == e {
			return true
		}
	}
	return false
}

func (c *PathCompleter) formatMatch(parent, name string) string {
	result := filepath.Join(parent, name)
	if info, err := os.Stat(result); err == nil && info.IsDir() {
		result += string(filepath.Separator)
	}
	return result
}

// splitPath splits input into the directory to list and the name prefix.
//
//	"./lib/Dis" → ("lib", "Dis")
//	"./lib/"    → ("./lib", "")
//	"Dis"       → (".", "Dis")
//	""          → (".", "")
func splitPath(input string) (parent, prefix string) {
	if input == "" || input == "." {
		return ".", ""
	}
	if strings.HasSuffix(input, string(filepath.Separator)) || strings.HasSuffix(input, "/") {
		trimmed := strings.TrimRight(input, `/\`)
		if trimmed == "" {
			return string(filepath.Separator), ""
		}
		return trimmed, ""
	}
	return filepath.Dir(input), filepath.Base(input)
}

// longestCommonPrefix compares case-insensitively and returns the prefix as
// spelled in the first string.
func longestCommonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	first := strings.ToLower(strs[0])
	n := len(first)
	for _, s := range strs[1:] {
		s = strings.ToLower(s)
		i := 0
		for i < n && i < len(s) && s[i] == first[i] {
			i++
		}
		n = i
	}
	return strs[0][:n]
}
