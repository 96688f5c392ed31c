package store

import (
	"encoding/json"
	"io"

	"maskccl/ccl"
	"maskccl/filter"
	"maskccl/video/frame"
)

// FrameStats is one line written by StatsWriter.
type FrameStats struct {
	Run        string
	Frame      int
	NumLabels  int
	Components ccl.Stats
}

// StatsWriter writes the statistics of every stats frame as one JSON object
// per line. Frames are written in the order they are delivered.
type StatsWriter struct {
	RunID string

	w   io.Writer
	enc *json.Encoder
}

func NewStatsWriter(w io.Writer) *StatsWriter {
	return &StatsWriter{
		w:   w,
		enc: json.NewEncoder(w),
	}
}

func (s *StatsWriter) Put(n int, f *frame.Frame) error {
	if !filter.HasStats(f.Props) {
		return nil
	}
	stats, err := filter.StatsFromProps(f.Props)
	if err != nil {
		return err
	}
	return s.enc.Encode(&FrameStats{
		Run:        s.RunID,
		Frame:      n,
		NumLabels:  stats.NumLabels(),
		Components: stats,
	})
}

// Close closes the underlying writer if it is an io.Closer.
func (s *StatsWriter) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
