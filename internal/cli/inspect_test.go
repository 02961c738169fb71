package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/anchorlayout/pkg/document"
	"github.com/matzehuels/anchorlayout/pkg/layout"
)

func browserFixture() FrameBrowserModel {
	return NewFrameBrowserModel("dialog.toml", document.FrameSet{
		Container: "root",
		Stage:     layout.StageDirect,
		Resolved:  true,
		Frames: []layout.Frame{
			{ID: "root", Kind: "container", Width: 400, Height: 200},
			{ID: "title", Kind: "view", X: 140, Y: 16, Width: 120, Height: 30},
			{ID: "ok", Kind: "view", X: 208, Y: 144, Width: 80, Height: 40},
		},
	})
}

func press(m FrameBrowserModel, keys ...string) FrameBrowserModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(FrameBrowserModel)
	}
	return m
}

func TestFrameBrowserNavigation(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{nil, "root"},
		{[]string{"down"}, "title"},
		{[]string{"j", "j", "j"}, "ok"},
		{[]string{"down", "up", "up"}, "root"},
		{[]string{"G"}, "ok"},
		{[]string{"G", "g"}, "root"},
	}
	for _, tt := range tests {
		m := press(browserFixture(), tt.keys...)
		if got := m.Selected().ID; got != tt.want {
			t.Errorf("keys %v: selected %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestFrameBrowserQuit(t *testing.T) {
	_, cmd := browserFixture().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestFrameBrowserScrolls(t *testing.T) {
	m := browserFixture()
	m.Height = 1
	m = press(m, "down", "down")
	if m.Offset != 2 {
		t.Errorf("offset = %d, want 2", m.Offset)
	}
	m = press(m, "g")
	if m.Offset != 0 {
		t.Errorf("offset = %d, want 0", m.Offset)
	}
}

func TestFrameBrowserView(t *testing.T) {
	view := press(browserFixture(), "down").View()
	for _, want := range []string{"dialog.toml", "title", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPreviewGrid(t *testing.T) {
	root := layout.Frame{Width: 400, Height: 200}
	sel := layout.Frame{X: 200, Y: 100, Width: 200, Height: 100}
	grid := previewGrid(root, sel, 10, 6)

	// Inner area is 8×4; the frame covers its bottom-right quadrant.
	for y := 1; y <= 4; y++ {
		for x := 1; x <= 8; x++ {
			want := ' '
			if x >= 5 && y >= 3 {
				want = '█'
			}
			if grid[y][x] != want {
				t.Errorf("cell (%d,%d) = %q, want %q", x, y, grid[y][x], want)
			}
		}
	}
	if grid[0][0] != '┌' || grid[5][9] != '┘' {
		t.Error("grid should be framed")
	}
}

func TestPreviewGridZeroSize(t *testing.T) {
	grid := previewGrid(layout.Frame{Width: 100, Height: 100}, layout.Frame{X: 50, Y: 50}, 12, 12)
	filled := 0
	for _, row := range grid {
		filled += strings.Count(string(row), "█")
	}
	if filled != 1 {
		t.Errorf("zero-size frame should fill one cell, filled %d", filled)
	}
}
