package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/anchorlayout/pkg/document"
	"github.com/matzehuels/anchorlayout/pkg/layout"
	"github.com/matzehuels/anchorlayout/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		noCache bool
		popts   pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "inspect [document]",
		Short: "Browse solved frames interactively",
		Long: `Solve a layout document and browse its frames in the terminal.

The preview pane draws the container scaled to the terminal with the selected
frame filled in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], c.mergeOptions(popts), noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	c.solveFlags(cmd, &popts)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, popts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.SolveFile(ctx, input, popts)
	if err != nil {
		return err
	}
	if len(res.Frames.Frames) == 0 {
		printInfo("Document has no widgets")
		return nil
	}

	_, err = tea.NewProgram(NewFrameBrowserModel(input, res.Frames), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	previewBoxStyle   = lipgloss.NewStyle().Foreground(colorGreen)
)

// preview dimensions in terminal cells
const (
	previewWidth  = 48
	previewHeight = 14
)

// =============================================================================
// FrameBrowserModel - Interactive frame browser
// =============================================================================

// FrameBrowserModel is the bubbletea model for browsing solved frames.
// The first frame is the container.
type FrameBrowserModel struct {
	Title  string
	Set    document.FrameSet
	Cursor int
	Height int
	Offset int
}

// NewFrameBrowserModel creates a browser over fs.
func NewFrameBrowserModel(title string, fs document.FrameSet) FrameBrowserModel {
	return FrameBrowserModel{Title: title, Set: fs, Height: 15}
}

func (m FrameBrowserModel) Init() tea.Cmd {
	return nil
}

func (m FrameBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Set.Frames)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = n - 1
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - previewHeight - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

// Selected returns the frame under the cursor.
func (m FrameBrowserModel) Selected() layout.Frame {
	return m.Set.Frames[m.Cursor]
}

func (m FrameBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString(" ")
	status := StyleSuccess.Render("resolved")
	if !m.Set.Resolved {
		status = StyleWarning.Render("unresolved")
	}
	b.WriteString(listDimStyle.Render("stage " + m.Set.Stage + " · "))
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Set.Frames))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, frameRow(m.Set.Frames[i])...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Kind", "X", "Y", "Width", "Height", "Baseline").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Set.Frames) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.Set.Frames[idx].Gone:
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Set.Frames))))
	b.WriteString("\n\n")
	b.WriteString(m.preview())

	return b.String()
}

// preview draws the container scaled into a fixed cell grid with the
// selected frame filled.
func (m FrameBrowserModel) preview() string {
	root := m.Set.Frames[0]
	grid := previewGrid(root, m.Selected(), previewWidth, previewHeight)
	lines := make([]string, len(grid))
	for i, row := range grid {
		line := string(row)
		line = strings.ReplaceAll(line, "█", previewBoxStyle.Render("█"))
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// previewGrid rasterizes sel relative to root into a w×h rune grid framed
// by a border. Frames of zero size still occupy one cell.
func previewGrid(root, sel layout.Frame, w, h int) [][]rune {
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", w))
		grid[y][0], grid[y][w-1] = '│', '│'
	}
	for x := range w {
		grid[0][x], grid[h-1][x] = '─', '─'
	}
	grid[0][0], grid[0][w-1], grid[h-1][0], grid[h-1][w-1] = '┌', '┐', '└', '┘'

	innerW, innerH := w-2, h-2
	scale := func(v, total, cells int) int {
		if total <= 0 {
			return 0
		}
		return v * cells / total
	}
	x0 := scale(sel.X-root.X, root.Width, innerW)
	y0 := scale(sel.Y-root.Y, root.Height, innerH)
	x1 := max(scale(sel.X-root.X+sel.Width, root.Width, innerW), x0+1)
	y1 := max(scale(sel.Y-root.Y+sel.Height, root.Height, innerH), y0+1)
	for y := max(y0, 0); y < min(y1, innerH); y++ {
		for x := max(x0, 0); x < min(x1, innerW); x++ {
			grid[y+1][x+1] = '█'
		}
	}
	return grid
}
