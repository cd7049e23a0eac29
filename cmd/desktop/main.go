package main

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	"github.com/tomz197/ripples/internal/audio"
	"github.com/tomz197/ripples/internal/config"
	"github.com/tomz197/ripples/internal/draw"
	"github.com/tomz197/ripples/internal/logging"
	"github.com/tomz197/ripples/internal/loop"
	lconfig "github.com/tomz197/ripples/internal/loop/config"
	"github.com/tomz197/ripples/internal/object"
)

var background = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}

// errQuit ends RunGame without an error exit.
var errQuit = errors.New("quit")

// Game drives one local session from ebiten's update loop.
type Game struct {
	settings config.Settings
	session  *loop.Session
	sound    *audio.Player
	log      logrus.FieldLogger
	width    int
	height   int
	colors   map[string]color.RGBA
}

func newGame(settings config.Settings, sound *audio.Player, log logrus.FieldLogger) *Game {
	g := &Game{
		settings: settings,
		sound:    sound,
		log:      log,
		width:    lconfig.WorldWidth,
		height:   lconfig.WorldHeight,
		colors:   make(map[string]color.RGBA),
	}
	g.restart(time.Now())
	return g
}

func (g *Game) restart(now time.Time) {
	g.session = loop.NewSession(g.settings,
		loop.WithRand(rand.New(rand.NewSource(now.UnixNano()))),
		loop.WithLogger(g.log),
		loop.WithBurstHandler(func(b loop.Burst) {
			if g.sound != nil {
				g.sound.Chime(b.Chain)
			}
		}),
	)
	g.session.Init(now, object.NewScreen(g.width, g.height))
}

func (g *Game) Update() error {
	now := time.Now()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return errQuit
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.restart(now)
	case inpututil.IsKeyJustPressed(ebiten.KeyM) && g.sound != nil:
		g.sound.ToggleMute()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.session.Click(float64(x), float64(y), now)
	}

	g.session.Advance(now)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	snap := g.session.Snapshot()
	for _, s := range snap.Shapes {
		clr := g.shapeColor(s)
		if s.Filled() {
			vector.DrawFilledCircle(screen, float32(s.X), float32(s.Y), float32(s.Radius), clr, true)
		} else {
			vector.StrokeCircle(screen, float32(s.X), float32(s.Y), float32(s.Radius), float32(max(s.StrokeWidth, 1)), clr, true)
		}
	}
	for _, p := range snap.Popups {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("+%d", p.Award), int(p.X), int(p.Y))
	}

	hud := fmt.Sprintf("Score: %d", snap.Score)
	if snap.ChainActive && snap.Chain > 0 {
		hud += fmt.Sprintf("   Chain x%d", snap.Chain)
	}
	ebitenutil.DebugPrint(screen, hud+"\nclick: ripple  r: restart  m: mute  q: quit")
}

// shapeColor resolves a shape's color with its opacity applied as
// premultiplied alpha. Parsed colors are cached by hex string.
func (g *Game) shapeColor(s object.Shape) color.RGBA {
	hex := s.Color()
	c, ok := g.colors[hex]
	if !ok {
		parsed, err := draw.ParseHexColor(hex)
		if err != nil {
			g.log.WithError(err).WithField("color", hex).Warn("bad shape color")
			parsed = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		}
		g.colors[hex] = parsed
		c = parsed
	}
	a := min(max(s.Opacity, 0), 1)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

// Layout keeps the play surface equal to the window, so spawn edges follow
// the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.session.Resize(object.NewScreen(g.width, g.height))
	}
	return g.width, g.height
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logrus.WithError(err).Fatal("failed to load .env")
	}
	log, err := logging.New(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FORMAT", "text"))
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up logging")
	}
	settings, err := config.LoadSettings()
	if err != nil {
		log.WithError(err).Fatal("invalid settings")
	}

	var sound *audio.Player
	if enabled, err := config.GetEnvBool("SOUND", true); err == nil && enabled {
		sound = audio.NewPlayer(0.4)
		if err := sound.Init(); err != nil {
			log.WithError(err).Warn("audio unavailable")
			sound = nil
		} else {
			defer sound.Close()
		}
	}

	ebiten.SetWindowSize(lconfig.WorldWidth*2, lconfig.WorldHeight*2)
	ebiten.SetWindowTitle("Ripples")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(newGame(settings, sound, log)); err != nil && !errors.Is(err, errQuit) {
		log.WithError(err).Error("game error")
		os.Exit(1)
	}
}
