package render

import (
	"fmt"
	"io"
	"strings"

	"snake/game"

	"github.com/charmbracelet/lipgloss"
)

// Renderer draws the live state after every tick.
type Renderer interface {
	Render(state *game.State)
	Clear()
}

const (
	emptyRune = '·'
	bodyRune  = '█'
	foodRune  = '●'
	crashRune = '✖'
)

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(0, 1)

	headStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	bodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	foodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))

	headRunes = map[game.Position]rune{
		game.Up:    '▲',
		game.Down:  '▼',
		game.Left:  '◀',
		game.Right: '▶',
	}
)

// Grid returns one row of runes per board line, top row first.
func Grid(s *game.State) [][]rune {
	rows := make([][]rune, s.Height)
	for y := range rows {
		rows[y] = []rune(strings.Repeat(string(emptyRune), s.Width))
	}
	if s.InBounds(s.Food) {
		rows[s.Food.Y][s.Food.X] = foodRune
	}
	for i := len(s.Snake) - 1; i >= 1; i-- {
		if segment := s.Snake[i]; s.InBounds(segment) {
			rows[segment.Y][segment.X] = bodyRune
		}
	}
	if head := s.Head(); s.InBounds(head) {
		r, ok := headRunes[s.Direction]
		if !ok || s.IsGameOver() {
			r = crashRune
		}
		rows[head.Y][head.X] = r
	}
	return rows
}

// Frame draws the board inside a border followed by a status line.
func Frame(s *game.State) string {
	var b strings.Builder
	for y, row := range Grid(s) {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, r := range row {
			b.WriteString(styleFor(r).Render(string(r)))
		}
	}

	status := fmt.Sprintf("score %d  length %d  %dx%d", s.Score, len(s.Snake), s.Width, s.Height)
	if s.Cleared() {
		status += "  cleared"
	} else if s.IsGameOver() {
		status += "  game over"
	}
	return lipgloss.JoinVertical(lipgloss.Left, boardStyle.Render(b.String()), statusStyle.Render(status))
}

func styleFor(r rune) lipgloss.Style {
	switch r {
	case emptyRune:
		return emptyStyle
	case bodyRune:
		return bodyStyle
	case foodRune:
		return foodStyle
	default:
		return headStyle
	}
}

type Headless struct{}

func (Headless) Render(*game.State) {}
func (Headless) Clear()             {}

// Terminal redraws the frame in place on an ANSI terminal.
type Terminal struct {
	w io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Render(s *game.State) {
	fmt.Fprint(t.w, "\033[H", Frame(s), "\n")
}

func (t *Terminal) Clear() {
	fmt.Fprint(t.w, "\033[H\033[2J")
}
