// Package seq has test assertions about the order of lines in output.
package seq

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertStringContainsSequence(t *testing.T, str string, seq ...string) bool {
	t.Helper()
	return assert.NoError(t, StringContainsSequence(str, seq...))
}

func AssertContainsSequence(t *testing.T, lines []string, seq ...string) bool {
	t.Helper()
	return assert.NoError(t, ContainsSequence(lines, seq...))
}

func StringContainsSequence(str string, seq ...string) error {
	return ContainsSequence(strings.Split(str, "\n"), seq...)
}

// ContainsSequence checks that the lines which appear anywhere in seq occur
// in lines in exactly the order and number given by seq. Lines that aren't
// in seq are ignored, so unrelated output may be interleaved freely.
func ContainsSequence(lines []string, seq ...string) error {
	asserted := map[string]struct{}{}
	for _, l := range seq {
		asserted[l] = struct{}{}
	}

	var found []string
	for _, l := range lines {
		if _, ok := asserted[l]; ok {
			found = append(found, l)
		}
	}

	for i, expect := range seq {
		if i >= len(found) {
			return report("Not found in sequence.", i, expect, seq, lines)
		}
		if found[i] != expect {
			return report(fmt.Sprintf("Found '%s' out of sequence.", found[i]), i, expect, seq, lines)
		}
	}
	if len(found) > len(seq) {
		return report(fmt.Sprintf("Found '%s' after the sequence was consumed.", found[len(seq)]), len(seq)-1, seq[len(seq)-1], seq, lines)
	}
	return nil
}

func report(problem string, index int, expect string, seq, lines []string) error {
	return fmt.Errorf(strings.Join([]string{
		"%s",
		"Looking for sequence item %d: '%s'",
		"",
		"Sequence:",
		"%s",
		"",
		"Actual:",
		"%s",
	}, "\n"),
		problem,
		index+1, expect,
		strings.Join(seq, "\n"),
		strings.Join(lines, "\n"),
	)
}
