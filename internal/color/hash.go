package color

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

// Assign picks a palette color for a command. The choice depends only on the
// command text, so a command keeps its color across runs even if the order
// of commands changes. Different commands may share a color.
func Assign(command string) lipgloss.Color {
	return Palette[Index(command)]
}

// Index is the position in Palette that Assign would choose for command.
func Index(command string) int {
	return int(hash(command) % uint32(len(Palette)))
}

// ForIndex picks a palette color by launch position, for callers that prefer
// colors to follow the order of the command list.
func ForIndex(i int) lipgloss.Color {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

func hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
