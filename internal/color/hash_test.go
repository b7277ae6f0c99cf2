package color

import "testing"

func TestIndex(t *testing.T) {
	for _, tc := range []struct {
		command  string
		expected int
	}{
		{"echo A", 6},
		{"echo B", 5},
		{"npm run dev", 6},
		{"cd api && flask run", 7},
		{"", 7},
	} {
		got := Index(tc.command)
		if got != tc.expected {
			t.Errorf(`Index("%s") = %d, got %d`, tc.command, tc.expected, got)
		}
	}
}

func TestAssignIsStable(t *testing.T) {
	for _, cmd := range []string{"echo A", "sleep 100", "make -C api watch"} {
		first := Assign(cmd)
		for i := 0; i < 100; i++ {
			if got := Assign(cmd); got != first {
				t.Fatalf(`Assign("%s") changed from %s to %s`, cmd, first, got)
			}
		}
		if first != Palette[Index(cmd)] {
			t.Errorf(`Assign("%s") = %s, not Palette[Index]`, cmd, first)
		}
	}
}

func TestForIndex(t *testing.T) {
	for _, tc := range []struct {
		i        int
		expected int
	}{
		{0, 0},
		{8, 8},
		{9, 0},
		{20, 2},
		{-1, 1},
	} {
		if got := ForIndex(tc.i); got != Palette[tc.expected] {
			t.Errorf(`ForIndex(%d) = Palette[%d], got %s`, tc.i, tc.expected, got)
		}
	}
}

func TestPaletteIsDistinct(t *testing.T) {
	if len(Palette) < 8 {
		t.Fatalf("palette has %d colors, want at least 8", len(Palette))
	}
	seen := map[string]bool{}
	for _, c := range Palette {
		if seen[string(c)] {
			t.Errorf("palette color %s appears twice", c)
		}
		seen[string(c)] = true
	}
}
