package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"propc/pkg/generator"
	"propc/pkg/propc"
)

const (
	screenWidth  = 800
	screenHeight = 600
	lineHeight   = 14
	gutterWidth  = 40
	statusHeight = 20
)

var (
	face      = text.NewGoXFace(basicfont.Face7x13)
	codeColor = color.RGBA{0xd0, 0xd0, 0xd0, 0xff}
	numColor  = color.RGBA{0x70, 0x70, 0x70, 0xff}
	diagColor = color.RGBA{0xff, 0x60, 0x60, 0xff}
)

type Game struct {
	path    string
	opts    generator.Options
	view    *View
	res     *generator.Result
	status  string
	changed <-chan struct{}
}

func (g *Game) regenerate() {
	res, err := propc.GenerateFile(g.path, g.opts)
	if err != nil {
		// keep the last good source on screen
		g.status = fmt.Sprintf("%s: %v", g.path, err)
		log.Print(err)
		return
	}
	g.res = res
	g.view.SetSource(res.Source)
	g.status = statusLine(g.path, res, g.view)
}

func (g *Game) Update() error {
	select {
	case <-g.changed:
		g.regenerate()
	default:
	}

	moved := true
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.regenerate()
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.view.Home()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		g.view.End()
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		g.view.Page(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.view.Page(-1)
	case repeating(ebiten.KeyDown):
		g.view.Scroll(1)
	case repeating(ebiten.KeyUp):
		g.view.Scroll(-1)
	default:
		moved = false
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.view.Scroll(-int(dy * 3))
		moved = true
	}
	if moved && g.res != nil {
		g.status = statusLine(g.path, g.res, g.view)
	}
	return nil
}

// repeating reports a key press, auto-repeating while held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d > 20 && d%3 == 0)
}

func (g *Game) Draw(screen *ebiten.Image) {
	lines, first := g.view.Visible()
	for i, line := range lines {
		y := float64(i * lineHeight)

		op := &text.DrawOptions{}
		op.GeoM.Translate(4, y)
		op.ColorScale.ScaleWithColor(numColor)
		text.Draw(screen, fmt.Sprintf("%4d", first+i), face, op)

		op = &text.DrawOptions{}
		op.GeoM.Translate(gutterWidth, y)
		if isDiagnosticLine(line) {
			op.ColorScale.ScaleWithColor(diagColor)
		} else {
			op.ColorScale.ScaleWithColor(codeColor)
		}
		text.Draw(screen, line, face, op)
	}
	ebitenutil.DebugPrintAt(screen, g.status, 4, screenHeight-statusHeight+2)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	inPath := flag.String("in", "", "Blockly workspace XML file to preview")
	volatile := flag.Bool("volatile", false, "mark globals shared with cog functions volatile")
	interval := flag.Duration("poll", 500*time.Millisecond, "how often to check the file for changes")
	flag.Parse()

	if *inPath == "" {
		if flag.NArg() == 0 {
			log.Fatalf("usage: preview -in <workspace.xml>")
		}
		*inPath = flag.Arg(0)
	}
	if _, err := os.Stat(*inPath); err != nil {
		log.Fatalf("Failed to open workspace: %v", err)
	}

	opts := generator.DefaultOptions()
	opts.VolatileCogVars = *volatile

	changed := make(chan struct{}, 1)
	stopWatcher := make(chan struct{})
	go watchFile(*inPath, *interval, changed, stopWatcher)

	game := &Game{
		path:    *inPath,
		opts:    opts,
		view:    NewView((screenHeight - statusHeight) / lineHeight),
		changed: changed,
	}
	game.regenerate()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("PropC Preview - " + *inPath)

	err := ebiten.RunGame(game)
	close(stopWatcher)
	if err != nil {
		log.Fatal(err)
	}
}
