package video

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"maskccl/video/frame"
)

var (
	framesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maskccl_pipeline_frames_total",
		Help: "Frames delivered to sinks.",
	})
	frameErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maskccl_pipeline_frame_errors_total",
		Help: "Frames that failed in the node or a sink.",
	})
	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "maskccl_pipeline_frame_seconds",
		Help:    "Time to produce one frame.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})
)

// Pipeline pulls every frame of a node through a pool of workers and hands
// the results to its sinks. Frames are produced in no particular order; sinks
// are called from a single goroutine.
type Pipeline struct {
	Workers int
	Sinks   []frame.Sink

	// MaxFrames limits a run to the first MaxFrames frames when non-zero.
	MaxFrames int
}

// Report summarizes one run.
type Report struct {
	RunID   string
	Frames  int
	Elapsed time.Duration
}

type result struct {
	n   int
	f   *frame.Frame
	err error
}

// Run processes the node until every frame is delivered, a frame fails, or
// ctx is cancelled. The first error stops the run.
func (p *Pipeline) Run(ctx context.Context, node frame.Node) (*Report, error) {
	return p.RunWithID(ctx, uuid.NewString(), node)
}

// RunWithID is Run with a caller chosen run identifier.
func (p *Pipeline) RunWithID(parent context.Context, runID string, node frame.Node) (*Report, error) {
	total := node.Info().NumFrames
	if p.MaxFrames > 0 && p.MaxFrames < total {
		total = p.MaxFrames
	}
	if total <= 0 {
		return nil, fmt.Errorf("node has no frames")
	}
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}

	rlog := log.WithField("run", runID)
	rlog.Infof("Processing %d frames with %d workers", total, workers)
	start := time.Now()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	jobs := make(chan int)
	results := make(chan result, workers)

	go func() {
		defer close(jobs)
		for i := 0; i < total; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				s := time.Now()
				f, err := node.GetFrame(n)
				frameDuration.Observe(time.Since(s).Seconds())
				results <- result{n: n, f: f, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	delivered := 0
	for r := range results {
		if firstErr != nil {
			continue
		}
		err := r.err
		if err == nil {
			err = p.deliver(r.n, r.f)
		}
		if err != nil {
			frameErrors.Inc()
			firstErr = fmt.Errorf("frame %d: %w", r.n, err)
			rlog.Errorf("Stopping run: %v", firstErr)
			cancel()
			continue
		}
		framesProcessed.Inc()
		delivered++
	}

	if firstErr == nil && delivered < total {
		firstErr = parent.Err()
	}
	elapsed := time.Since(start)
	rlog.Infof("Delivered %d/%d frames in %v", delivered, total, elapsed)
	return &Report{RunID: runID, Frames: delivered, Elapsed: elapsed}, firstErr
}

func (p *Pipeline) deliver(n int, f *frame.Frame) error {
	for _, s := range p.Sinks {
		if err := s.Put(n, f); err != nil {
			return err
		}
	}
	return nil
}
