package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tebeka/atexit"
	"golang.org/x/image/font/basicfont"

	"gobf/pkg/compiler"
	"gobf/pkg/config"
	"gobf/pkg/machine"
	"gobf/pkg/utils"
)

const (
	cellWidth   = 36
	cellHeight  = 24
	lineHeight  = 16
	outputLines = 10
)

var (
	colorBackground = color.RGBA{0x1d, 0x2b, 0x53, 0xff}
	colorCell       = color.RGBA{0x5f, 0x57, 0x4f, 0xff}
	colorCursor     = color.RGBA{0xff, 0xa3, 0x00, 0xff}
	colorText       = color.RGBA{0xff, 0xf1, 0xe8, 0xff}
	colorError      = color.RGBA{0xff, 0x00, 0x4d, 0xff}
)

// keyQueue is the machine's Input while the window is open. Keys typed into
// the window are appended; IN consumes them in order.
type keyQueue struct {
	buf []byte
}

func (q *keyQueue) Push(b ...byte) {
	q.buf = append(q.buf, b...)
}

func (q *keyQueue) Len() int { return len(q.buf) }

func (q *keyQueue) Read(p []byte) (int, error) {
	if len(q.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(p, q.buf)
	q.buf = q.buf[n:]
	return n, nil
}

type Game struct {
	cfg    *config.Config
	logger *slog.Logger
	face   text.Face

	units  []utils.Unit
	unit   int
	vm     *machine.Machine
	runner *machine.Runner
	keys   *keyQueue
	out    bytes.Buffer

	waiting  bool
	finished bool
	err      error
}

func NewGame(units []utils.Unit, cfg *config.Config, logger *slog.Logger) (*Game, error) {
	policy, err := cfg.UnderflowPolicy()
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:    cfg,
		logger: logger,
		face:   text.NewGoXFace(basicfont.Face7x13),
		units:  units,
		vm:     machine.NewMachine(),
		keys:   &keyQueue{},
	}
	g.vm.Input = g.keys
	g.vm.Output = &g.out
	g.vm.Underflow = policy
	return g, nil
}

// loadNext compiles the next unit into a fresh runner. It reports false once
// every unit has been consumed or compilation failed.
func (g *Game) loadNext() bool {
	if g.unit >= len(g.units) {
		g.finished = true
		g.runner = nil
		return false
	}
	u := g.units[g.unit]
	g.unit++

	program, err := compiler.Compile(u.Source, 0, compiler.WithLogger(g.logger))
	if err != nil {
		g.err = fmt.Errorf("%s: %w", u.Name, err)
		return false
	}
	g.logger.Debug("loaded unit", "name", u.Name, "instructions", len(program))
	g.runner = machine.NewRunner(program, g.vm)
	return true
}

// advance executes at most budget instructions. It stops early when IN has
// no key to read, so the machine never sees an exhausted stream.
func (g *Game) advance(budget int) {
	for i := 0; i < budget; i++ {
		if g.err != nil || g.finished {
			return
		}
		if g.runner == nil || g.runner.Done() {
			if !g.loadNext() {
				return
			}
			continue
		}

		next, _ := g.runner.Next()
		if next.Op == machine.OpInput && g.keys.Len() == 0 {
			g.waiting = true
			return
		}
		g.waiting = false

		if err := g.runner.Step(); err != nil {
			g.err = fmt.Errorf("%s: %w", g.units[g.unit-1].Name, err)
			return
		}
	}
}

func (g *Game) Update() error {
	for _, r := range ebiten.AppendInputChars(nil) {
		g.keys.Push(utf8.AppendRune(nil, r)...)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.keys.Push('\n')
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.keys.Push(8)
	}

	g.advance(g.cfg.StepsPerFrame)
	return nil
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}

func (g *Game) status() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "unit %d/%d", g.unit, len(g.units))
	if g.runner != nil {
		fmt.Fprintf(&sb, "  ip=%d steps=%d", g.runner.IP(), g.runner.Steps())
	}
	fmt.Fprintf(&sb, "  cursor=%d tape=%d", g.vm.Cursor, len(g.vm.Tape))
	switch {
	case g.err != nil:
		sb.WriteString("  [FAILED]")
	case g.finished:
		sb.WriteString("  [DONE]")
	case g.waiting:
		sb.WriteString("  [WAITING FOR INPUT]")
	}
	return sb.String()
}

func (g *Game) drawTape(screen *ebiten.Image, y float64) {
	visible := g.cfg.Window.Width/cellWidth - 1
	start, cells := g.vm.Window(visible)
	for i, v := range cells {
		x := float32(cellWidth/2 + i*cellWidth)
		clr := colorCell
		if start+i == g.vm.Cursor {
			clr = colorCursor
		}
		vector.DrawFilledRect(screen, x, float32(y), cellWidth-4, cellHeight, clr, false)
		g.drawText(screen, fmt.Sprintf("%02X", v), float64(x)+8, y+4, colorText)
		if (start+i)%4 == 0 {
			g.drawText(screen, fmt.Sprintf("%d", start+i), float64(x), y+cellHeight+2, colorText)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	g.drawText(screen, g.status(), 8, 8, colorText)
	g.drawTape(screen, 32)

	y := 32.0 + cellHeight + 2*lineHeight
	for _, line := range tailLines(g.out.String(), outputLines) {
		g.drawText(screen, line, 8, y, colorText)
		y += lineHeight
	}
	if g.err != nil {
		g.drawText(screen, g.err.Error(), 8, y+lineHeight, colorError)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

// tailLines returns the last n lines of s with control bytes other than
// newline replaced by '.'.
func tailLines(s string, n int) []string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || (r >= 0x20 && r != 0x7f) {
			return r
		}
		return '.'
	}, s)
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

func main() {
	fromFiles := flag.Bool("f", false, "treat arguments as source file paths")
	configPath := flag.String("config", "", "YAML config file")
	verbose := flag.Bool("v", false, "log skipped source characters")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := utils.NewLogger(*verbose || cfg.Verbose)

	units, err := utils.LoadUnits(flag.Args(), *fromFiles)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	game, err := NewGame(units, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Mirror whatever the program printed to the terminal once the window closes.
	atexit.Register(func() {
		_, _ = os.Stdout.Write(game.out.Bytes())
	})

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("gobf tape")

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("desktop exited", "err", err)
		atexit.Exit(1)
	}
	if game.err != nil {
		fmt.Fprintln(os.Stderr, game.err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
