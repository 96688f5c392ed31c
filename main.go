package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"maskccl/config"
	"maskccl/filter"
	"maskccl/serve"
	"maskccl/store"
	"maskccl/video"
	"maskccl/video/frame"
	"maskccl/video/process"
	"maskccl/video/sink"
	"maskccl/video/source"
)

var (
	configPath = flag.String("config", "maskccl.json", "Path to the JSON configuration file.")
	port       = flag.Int("port", 8080, "Port to host the HTTP endpoints. 0 disables them.")
	watch      = flag.Bool("watch", false, "Keep running and redo the run whenever the configuration changes.")
)

// app holds what outlives a single run: the HTTP surface and its sinks.
type app struct {
	mjpeg   *sink.MJPEGServer
	preview *sink.MJPEGStream
	cache   *serve.StatsCache
	updater *serve.StatsUpdater

	lock   sync.Mutex
	writer *sink.ImageWriter
}

func newApp() *app {
	mjpeg := sink.NewMJPEGServer()
	return &app{
		mjpeg:   mjpeg,
		preview: mjpeg.NewStream("mask"),
		cache:   serve.NewStatsCache(0),
		updater: serve.NewStatsUpdater(),
	}
}

func (a *app) close() {
	a.preview.Close()
	a.updater.Close()
}

func (a *app) maskPath(n int) string {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.writer == nil {
		return ""
	}
	return a.writer.Path(n)
}

func (a *app) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mjpeg", a.mjpeg)
	mux.Handle("/stats", &serve.StatsServer{Cache: a.cache})
	mux.Handle("/statsws", a.updater)
	mux.Handle("/mask", serve.NewMaskServer(a.maskPath))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)
	return handlers.LoggingHandler(os.Stdout, mux)
}

// build opens the source described by cfg and wraps it in the configured
// filter.
func build(cfg *config.Config) (frame.Node, error) {
	var (
		src frame.Node
		err error
	)
	if cfg.Input != "" {
		src, err = source.Glob(cfg.Input)
	} else {
		src, err = source.NewVideoCapture(cfg.Video)
	}
	if err != nil {
		return nil, err
	}

	if b := cfg.Binarize; b != nil {
		bin, err := process.NewBinarize(src, process.BinarizeOptions{
			Blur:   b.Blur,
			Thresh: b.Thresh,
			Erode:  b.Erode,
		})
		if err != nil {
			src.Free()
			return nil, err
		}
		src = bin
	}

	var opts []filter.Option
	if cfg.OpenCV() {
		opts = append(opts, filter.WithLabeler(process.CVLabeler{}))
	}
	// Create frees src if the arguments are rejected.
	return filter.NewPlugin().Create(cfg.Filter, cfg.Args(src), opts...)
}

// run processes every frame described by cfg once.
func (a *app) run(ctx context.Context, cfg *config.Config) error {
	node, err := build(cfg)
	if err != nil {
		return err
	}
	defer node.Free()

	runID := uuid.NewString()
	rlog := log.WithField("run", runID)
	sinks := []frame.Sink{a.cache, a.updater, a.preview}

	// Sinks owned by this run.
	var owned []frame.Sink
	defer func() {
		for _, s := range owned {
			if err := s.Close(); err != nil {
				rlog.Errorf("Failed to close sink: %v", err)
			}
		}
	}()

	if cfg.OutputDir != "" {
		w, err := sink.NewImageWriter(cfg.OutputDir)
		if err != nil {
			return err
		}
		a.lock.Lock()
		a.writer = w
		a.lock.Unlock()
		owned = append(owned, w)
	}
	if cfg.StatsPath != "" {
		f, err := os.Create(cfg.StatsPath)
		if err != nil {
			return err
		}
		sw := store.NewStatsWriter(f)
		sw.RunID = runID
		owned = append(owned, sw)
	}
	if cfg.DSN != "" {
		st, err := store.Open(cfg.DSN)
		if err != nil {
			return fmt.Errorf("opening statistics store: %w", err)
		}
		st.RunID = runID
		owned = append(owned, st)
	}
	if cfg.Window {
		owned = append(owned, sink.NewWindow("maskccl"))
	}
	sinks = append(sinks, owned...)

	a.cache.Reset()
	p := &video.Pipeline{
		Workers:   cfg.Workers,
		Sinks:     sinks,
		MaxFrames: cfg.MaxFrames,
	}
	rep, err := p.RunWithID(ctx, runID, node)
	if err != nil {
		return err
	}
	rlog.Infof("Run finished: %d frames in %v", rep.Frames, rep.Elapsed)
	return nil
}

// watchLoop redoes the run for every new configuration, abandoning the
// current one.
func (a *app) watchLoop(ctx context.Context, cfg *config.Config) error {
	configs, err := config.Watch(ctx, *configPath)
	if err != nil {
		return err
	}
	for {
		runCtx, cancelRun := context.WithCancel(ctx)
		done := make(chan struct{})
		go func(cfg *config.Config) {
			defer close(done)
			if err := a.run(runCtx, cfg); err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("Run failed: %v", err)
			}
		}(cfg)

		var ok bool
		select {
		case cfg, ok = <-configs:
		case <-ctx.Done():
		}
		cancelRun()
		<-done
		if !ok {
			return ctx.Err()
		}
		log.Infof("Configuration changed, restarting")
	}
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp()
	defer a.close()

	if *port != 0 {
		go func() {
			log.Infof("Hosting HTTP endpoints on port %d", *port)
			log.Errorln(http.ListenAndServe(fmt.Sprintf(":%d", *port), a.handler()))
		}()
	}

	if *watch {
		if err := a.watchLoop(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Watching configuration: %v", err)
		}
		return
	}
	if err := a.run(ctx, cfg); err != nil {
		log.Fatalf("Run failed: %v", err)
	}
}
