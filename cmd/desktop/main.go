// Desktop frontend for the CHIP-8 virtual machine. Rendering, keyboard
// collection and the buzzer live here; all emulation stays in pkg/chip8.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/colornames"

	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/chip8"
)

const (
	pixelScale = 10

	sampleRate = 48000
	toneHz     = 440

	// maxFrameDelta caps the elapsed time fed to the clocks after a
	// stall (window drag, suspend) so the machine does not fast-forward.
	maxFrameDelta = 100 * time.Millisecond
)

// themes maps the -color flag to the lit-pixel color. The background is a
// darkened shade of the same color, like the original phosphor look.
var themes = map[string]color.RGBA{
	"white": colornames.White,
	"green": colornames.Green,
	"amber": colornames.Orange,
}

// keyMap assigns one keyboard key to each keypad key 0x0-0xF, the usual
// 123C/456D/789E/A0BF layout on the left of a QWERTY board.
var keyMap = [chip8.NumKeys]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.KeyDigit1,
	0x2: ebiten.KeyDigit2,
	0x3: ebiten.KeyDigit3,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ,
	0xB: ebiten.KeyC,
	0xC: ebiten.KeyDigit4,
	0xD: ebiten.KeyR,
	0xE: ebiten.KeyF,
	0xF: ebiten.KeyV,
}

// darken returns the background shade for a pixel color.
func darken(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 10, G: c.G / 10, B: c.B / 10, A: 0xFF}
}

// toneStream generates an endless 16-bit stereo sine wave for the buzzer.
type toneStream struct {
	pos int64
}

func (t *toneStream) Read(buf []byte) (int, error) {
	const bytesPerSample = 4 // 16-bit, 2 channels
	n := len(buf) / bytesPerSample * bytesPerSample
	for i := 0; i < n; i += bytesPerSample {
		v := int16(0.2 * math.MaxInt16 * math.Sin(2*math.Pi*toneHz*float64(t.pos)/sampleRate))
		buf[i] = byte(v)
		buf[i+1] = byte(v >> 8)
		buf[i+2] = byte(v)
		buf[i+3] = byte(v >> 8)
		t.pos++
	}
	return n, nil
}

type Game struct {
	vm     *chip8.System
	logger *log.Logger

	screen     *ebiten.Image // reused 64x32 canvas
	pixel      color.RGBA
	background color.RGBA

	buzzer *audio.Player

	last      time.Time
	stepDebt  float64 // fractional CPU cycles owed to the clock
	shotCount int
}

func (g *Game) Update() error {
	for key := uint8(0); key < chip8.NumKeys; key++ {
		g.vm.Keypad.Set(key, ebiten.IsKeyPressed(keyMap[key]))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.saveScreenshot()
	}

	now := time.Now()
	elapsed := now.Sub(g.last)
	g.last = now
	if elapsed > maxFrameDelta {
		elapsed = maxFrameDelta
	}

	// The timers run on their own fixed 60 Hz grid; the CPU runs at the
	// configured rate. Both are derived from measured elapsed time, so
	// neither depends on ebiten's frame rate.
	g.vm.Tick(elapsed)

	g.stepDebt += elapsed.Seconds() * float64(g.vm.ClockHz())
	for g.stepDebt >= 1 {
		g.stepDebt--
		if err := g.vm.Step(); err != nil {
			return fmt.Errorf("emulation stopped: %w", err)
		}
	}

	if g.buzzer != nil {
		if g.vm.SoundActive() {
			g.buzzer.Play()
		} else {
			g.buzzer.Pause()
		}
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight)
	}

	pixels := chip8.FramebufferRGBA(g.vm.Display.Snapshot(), g.pixel, g.background)
	g.screen.WritePixels(pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(pixelScale, pixelScale)
	screen.DrawImage(g.screen, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return chip8.DisplayWidth * pixelScale, chip8.DisplayHeight * pixelScale
}

func (g *Game) saveScreenshot() {
	g.shotCount++
	name := fmt.Sprintf("chip8_%d.png", g.shotCount)
	if err := g.vm.SaveScreenshot(name, g.pixel, g.background); err != nil {
		g.logger.Error("screenshot failed", log.Err(err))
		return
	}
	g.logger.Info("screenshot saved", log.String("path", name))
}

func main() {
	clockHz := flag.Int("clock", chip8.DefaultClockHz, "CPU clock speed in Hz (1-500)")
	colorName := flag.String("color", "white", "display color (white/green/amber)")
	trace := flag.Bool("trace", false, "log every executed instruction")
	flag.Parse()

	cfg := log.DefaultConfig()
	if *trace {
		cfg.Level = log.DebugLevel
	}
	logger := log.NewWithConfig(cfg)

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop [options] <rom file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	pixel, ok := themes[*colorName]
	if !ok {
		logger.Fatal("unsupported display color", log.String("color", *colorName))
	}

	rom, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		logger.Fatal("failed to read ROM", log.String("path", flag.Arg(0)), log.Err(err))
	}

	vmCfg := chip8.Config{ClockHz: *clockHz}
	if *trace {
		vmCfg.Tracer = func(t chip8.Trace) {
			logger.Debug("exec",
				log.String("pc", fmt.Sprintf("%03X", t.PC)),
				log.String("opcode", fmt.Sprintf("%04X", t.Word)),
				log.String("mnemonic", t.Mnemonic))
		}
	}

	vm, err := chip8.New(vmCfg)
	if err != nil {
		logger.Fatal("bad configuration", log.Err(err))
	}
	if err := vm.LoadROM(rom); err != nil {
		logger.Fatal("failed to load ROM", log.Err(err))
	}

	audioCtx := audio.NewContext(sampleRate)
	buzzer, err := audioCtx.NewPlayer(&toneStream{})
	if err != nil {
		logger.Error("buzzer unavailable", log.Err(err))
		buzzer = nil
	}

	ebiten.SetWindowSize(chip8.DisplayWidth*pixelScale, chip8.DisplayHeight*pixelScale)
	ebiten.SetWindowTitle("CHIP-8")

	game := &Game{
		vm:         vm,
		logger:     logger,
		pixel:      pixel,
		background: darken(pixel),
		buzzer:     buzzer,
		last:       time.Now(),
	}
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("emulator exited", log.Err(err))
	}
}
