package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"

	_ "golang.org/x/image/bmp"

	"github.com/youenchene/ACE/internal/bitmap"
	"github.com/youenchene/ACE/internal/copper"
	"github.com/youenchene/ACE/internal/display"
	"github.com/youenchene/ACE/internal/pak"
	"github.com/youenchene/ACE/internal/palette"
	"github.com/youenchene/ACE/internal/sprite"
	"github.com/youenchene/ACE/internal/system"
	"github.com/youenchene/ACE/internal/types"
	"github.com/youenchene/ACE/internal/view"
	"github.com/youenchene/ACE/pkg/display/web"
	"github.com/youenchene/ACE/pkg/emulator"
	"github.com/youenchene/ACE/pkg/log"
	"github.com/youenchene/ACE/pkg/utils"
)

func main() {
	stripFile := flag.String("strip", "", "The sprite strip to load (.png or .bmp, optionally compressed or archived)")
	strip2File := flag.String("strip2", "", "A second strip continuing the animation of the first")
	pakFile := flag.String("pak", "", "Load the strips from this pak archive")
	entry := flag.String("entry", "", "The entry to load when the strip is a .zip or .7z archive")
	height := flag.Int("height", 16, "The height of one animation frame")
	count := flag.Int("count", 4, "The number of sprites to multiplex")
	channel := flag.Int("channel", 0, "The first sprite channel to use")
	depth := flag.Int("depth", 0, "The number of bitplanes of the strip, 2 or 4. 0 selects it from the image palette")
	frames := flag.Uint64("frames", 100, "The number of frames to run. 0 runs until interrupted")
	anim := flag.Uint64("anim", 8, "The number of frames every animation frame is shown for")
	every := flag.Uint64("every", 1, "Capture one frame out of this many")
	out := flag.String("out", "", "The folder to write the captured frames to")
	serve := flag.String("serve", "", "Serve the previews on this address, e.g. :8090")
	compression := flag.Int("compression", 0, "Brotli quality of the served frames, 0 disables compression")
	patching := flag.Int("patching", 30, "Send frame patches when less than this percentage of pixels changed")
	plt := flag.String("plt", "", "The palette file to render with")
	raw := flag.Bool("raw", false, "Use a raw copper list instead of copper blocks")
	stats := flag.Bool("stats", false, "Print the channel table when done")
	debug := flag.Bool("debug", false, "Enable debug logging and the registry consistency checks")
	pprof := flag.String("pprof", "", "Serve pprof on this address")
	flag.Parse()

	var logger = log.New(log.WithDebug(*debug))

	if *pprof != "" {
		// start pprof
		go func() {
			if err := http.ListenAndServe(*pprof, nil); err != nil {
				logger.Errorf("pprof: %v", err)
			}
		}()
	}

	if *stripFile == "" {
		logger.Fatal("no sprite strip given, use -strip")
	}

	pal := palette.Default()
	if *plt != "" {
		var err error
		if pal, err = palette.Load(*plt, palette.MaxColors); err != nil {
			logger.Fatal(err.Error())
		}
	}

	var archive *pak.Reader
	if *pakFile != "" {
		var err error
		if archive, err = pak.Open(*pakFile, pak.WithLogger(logger)); err != nil {
			logger.Fatal(err.Error())
		}
		defer archive.Close()
	}

	// open the view
	var vOpts []view.Opt
	vOpts = append(vOpts, view.WithLogger(logger))
	if *raw {
		vOpts = append(vOpts, view.WithCopperMode(copper.ModeRaw, 2*types.SpriteChannelCount+1))
	}
	v := view.New(vOpts...)
	arena := bitmap.NewArena(0)
	sys := system.New(logger)

	rOpts := []sprite.RegistryOpt{sprite.WithLogger(logger), sprite.WithSystem(sys)}
	if *debug {
		rOpts = append(rOpts, sprite.Debug())
	}
	reg, err := sprite.NewRegistry(v, arena, rOpts...)
	if err != nil {
		logger.Fatal(err.Error())
	}
	defer reg.Close()

	ch := uint8(*channel)
	strip1, err := loadStrip(archive, *stripFile, *entry, *depth, ch, pal)
	if err != nil {
		logger.Fatal(err.Error())
	}
	var strip2 *bitmap.Bitmap
	if *strip2File != "" {
		if strip2, err = loadStrip(archive, *strip2File, *entry, strip1.Depth(), ch, pal); err != nil {
			logger.Fatal(err.Error())
		}
	}

	adv, err := reg.AddAdvanced(ch, strip1, strip2, *height, *count)
	if adv == nil {
		logger.Fatal(err.Error())
	}
	if err != nil {
		logger.Errorf("continuing with a degraded sprite: %v", err)
	}
	defer adv.Remove()
	logger.Infof("%d sprites of %dx%d on %d channels from %d, %d animation frames",
		adv.Len(), adv.ByteWidth()*8, adv.Height(), adv.SpriteCount(), ch, adv.AnimCount())

	var pOpts []emulator.Opt
	pOpts = append(pOpts,
		emulator.WithLogger(logger),
		emulator.WithAnimationRate(*anim),
		emulator.WithCaptureRate(*every),
	)
	if *out != "" {
		if err := os.MkdirAll(*out, 0o755); err != nil {
			logger.Fatal(err.Error())
		}
		pOpts = append(pOpts, emulator.OnCapture(func(c emulator.Capture) {
			if !c.Changed {
				return
			}
			name := filepath.Join(*out, fmt.Sprintf("frame%05d", c.Frame))
			if err := utils.SaveImage(c.Image, name); err != nil {
				logger.Errorf("saving frame %d: %v", c.Frame, err)
			}
		}))
	}

	var server *web.Server
	if *serve != "" {
		pOpts = append(pOpts, emulator.OnCapture(func(c emulator.Capture) {
			server.Push(c.Image)
		}))
	} else {
		// nothing is watching, don't wait for the beam
		pOpts = append(pOpts, emulator.WithFrameTime(0))
	}

	player := emulator.NewPlayer(v, reg, adv, display.NewRenderer(v, arena, display.WithPalette(pal)), pOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *serve != "" {
		server = web.NewServer(
			web.WithAddr(*serve),
			web.WithLogger(logger),
			web.WithCompression(*compression),
			web.WithFramePatching(*patching),
			web.WithFrameSkipping(true),
			web.WithFrameCounter(player.Frame),
			web.WithControl(func(paused bool) {
				if paused {
					player.Pause()
				} else {
					player.Resume()
				}
			}),
		)

		go func() {
			if err := server.Run(ctx); err != nil {
				logger.Errorf("web: %v", err)
				stop()
			}
		}()
	}

	if err := player.Run(ctx, *frames); err != nil && ctx.Err() == nil {
		logger.Errorf("player: %v", err)
	}
	logger.Infof("ran %d frames", player.Frame())

	if *stats {
		fmt.Println(channelTable(reg.Channels()))
	}
}

// loadStrip loads and decodes a strip image into an interleaved bitmap,
// from archive when one is given.
func loadStrip(archive *pak.Reader, path, entry string, depth int, ch uint8, pal palette.Palette) (*bitmap.Bitmap, error) {
	var data []byte
	var err error
	if archive != nil {
		if data, err = archive.ReadFile(path); err == nil {
			data, err = utils.Decompress(filepath.Ext(path), data, entry)
		}
	} else {
		data, err = utils.LoadFileEntry(path, entry)
	}
	if err != nil {
		return nil, fmt.Errorf("loading strip %s: %w", path, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding strip %s: %w", path, err)
	}

	paletted, ok := img.(*image.Paletted)
	if depth == 0 {
		depth = types.SpriteDepth
		if ok && len(paletted.Palette) > 1<<types.SpriteDepth {
			depth = 2 * types.SpriteDepth
		}
	}

	var quantise color.Palette
	if !ok {
		// true colour strips are matched against the sprite colours
		// of the channel they are shown on
		quantise = make(color.Palette, 1<<depth)
		for i := range quantise {
			idx := palette.SpriteColor(ch, uint8(i))
			if depth > types.SpriteDepth {
				idx = types.SpriteColorBase + i
			}
			quantise[i] = pal.At(idx)
		}
	}

	bm, err := bitmap.FromImage(img, depth, quantise)
	if err != nil {
		return nil, fmt.Errorf("converting %s strip %s: %w", format, path, err)
	}
	return bm, nil
}
