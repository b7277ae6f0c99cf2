package ansi

import "regexp"

var escapeRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// Strip removes ANSI escape sequences from s.
func Strip(s string) string {
	return escapeRe.ReplaceAllString(s, "")
}
