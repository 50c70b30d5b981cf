package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Aman-3O/Esha-Suprise/common"
	"github.com/Aman-3O/Esha-Suprise/config"
	"github.com/Aman-3O/Esha-Suprise/engine"
	"github.com/Aman-3O/Esha-Suprise/engine/gesture"
	"github.com/Aman-3O/Esha-Suprise/engine/loader"
	"github.com/Aman-3O/Esha-Suprise/engine/particle"
	"github.com/Aman-3O/Esha-Suprise/engine/progress"
	"github.com/Aman-3O/Esha-Suprise/engine/renderer"
	"github.com/Aman-3O/Esha-Suprise/engine/ring"
	"github.com/Aman-3O/Esha-Suprise/engine/scene"
	"github.com/Aman-3O/Esha-Suprise/engine/window"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

func main() {
	var (
		configPath = flag.String("config", "", "JSON config file (defaults apply when empty)")
		images     = flag.String("images", "", "directory of ring images")
		backend    = flag.String("renderer", "", "renderer backend: wgpu or terminal")
		mode       = flag.String("mode", "", "ring loading mode: sequential or batch")
		gestures   = flag.String("gestures", "", "recorded hand tracking results to replay")
		profile    = flag.Bool("profile", false, "log frame statistics")
	)
	flag.Parse()

	if err := run(*configPath, *images, *backend, *mode, *gestures, *profile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, images, backend, mode, gestures string, profile bool) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	cfg.Images = common.Coalesce(images, cfg.Images)
	cfg.Renderer = common.Coalesce(backend, cfg.Renderer)
	cfg.Mode = common.Coalesce(mode, cfg.Mode)
	cfg.Gesture.Recording = common.Coalesce(gestures, cfg.Gesture.Recording)
	cfg.Profile = cfg.Profile || profile
	if err := cfg.Validate(); err != nil {
		return err
	}
	verbose := os.Getenv("DEBUG") != ""

	backendType, _ := cfg.RendererBackend()
	feedMode, _ := cfg.FeedMode()

	// The terminal backend owns stdout; keep logs out of the picture.
	if backendType == renderer.BackendTypeTerminal {
		f, err := os.OpenFile("saturn.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	var win window.Window
	if backendType == renderer.BackendTypeWGPU {
		win = window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)
	}
	r, err := renderer.NewRenderer(backendType, win,
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)
	if err != nil {
		if win != nil {
			_ = win.Close()
		}
		return err
	}

	// ── Scene ───────────────────────────────────────────────────────────
	integratorOptions := cfg.IntegratorOptions()
	if cfg.Particles.Workers > 0 {
		pool := worker.NewDynamicWorkerPool(cfg.Particles.Workers, cfg.Particles.Workers*4, time.Second)
		defer pool.Stop()
		integratorOptions = append(integratorOptions, particle.WithWorkerPool(pool, cfg.Particles.ChunkSize))
	}
	sc := scene.NewScene(
		scene.WithGenerator(particle.NewGenerator(cfg.GeneratorOptions()...)),
		scene.WithIntegrator(particle.NewIntegrator(integratorOptions...)),
		scene.WithRing(ring.NewRing(cfg.RingOptions()...)),
		scene.WithSmoothingFactor(cfg.Smoothing),
	)

	// ── Ring images ─────────────────────────────────────────────────────
	var feeder ring.Feeder
	keys, err := loader.ScanDir(cfg.Images)
	if err != nil {
		log.Printf("[Loader] no ring images: %v", err)
	} else {
		src := loader.NewLoader(loader.BackendTypeFile, loader.WithRoot(cfg.Images))
		feeder = ring.NewFeeder(feedMode, src, keys, cfg.FeederOptions()...)
		log.Printf("[Loader] %d images in %s, %s mode", len(keys), cfg.Images, cfg.Mode)
	}

	// ── Gestures ────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var results chan gesture.Result
	if cfg.Gesture.Recording != "" {
		recorded, err := loadRecording(cfg.Gesture.Recording)
		if err != nil {
			return err
		}
		results = make(chan gesture.Result, 1)
		tracker := gesture.NewTracker(gesture.NewReplayDetector(recorded, cfg.Gesture.Loop), gesture.WithVerbose(verbose))
		frames := gesture.FrameTicker(ctx, time.Second/time.Duration(cfg.Gesture.FPS), 640, 480)
		go tracker.Run(ctx, frames, results)
	}

	// ── Progress ────────────────────────────────────────────────────────
	reporters := []progress.Reporter{progress.NewLogReporter()}
	chime := progress.NewChime()
	defer chime.Close()
	if chime.Ready() {
		reporters = append(reporters, chime)
	} else {
		log.Printf("[Progress] completion chime off")
	}

	eng := engine.NewEngine(
		engine.WithProfiling(cfg.Profile),
		engine.WithTickRate(cfg.FPS),
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithScene(sc),
		engine.WithFeeder(feeder),
		engine.WithGestures(results, gesture.NewMapper(cfg.MapperOptions()...)),
		engine.WithIndicator(progress.NewIndicator(cfg.FadeOut(), nil)),
		engine.WithReporters(reporters...),
	)
	eng.Run()
	return nil
}

func loadRecording(path string) ([]gesture.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gesture recording: %w", err)
	}
	defer f.Close()
	return gesture.LoadRecording(f)
}
