package frame

import (
	"fmt"
	"sync"
)

// Node is a clip in the host pipeline. Filters take their source as a Node
// and are Nodes themselves.
type Node interface {
	// Info describes the frames GetFrame returns.
	Info() VideoInfo

	// GetFrame requests frame n. The returned frame belongs to the caller.
	// GetFrame may be called concurrently for different frames.
	GetFrame(n int) (*Frame, error)

	// Free releases the node and any upstream reference it holds.
	Free()
}

// Clip is a Node over frames held in memory.
type Clip struct {
	info   VideoInfo
	frames []*Frame

	l     sync.Mutex
	freed bool
}

// NewClip builds a clip. Width and height in the info are set when every
// frame has the same size.
func NewClip(format Format, frames ...*Frame) *Clip {
	info := VideoInfo{
		Format:    format,
		NumFrames: len(frames),
	}
	for i, f := range frames {
		if i == 0 {
			info.Width, info.Height = f.Width, f.Height
		} else if f.Width != info.Width || f.Height != info.Height {
			info.Width, info.Height = 0, 0
			break
		}
	}
	return &Clip{
		info:   info,
		frames: frames,
	}
}

func (c *Clip) Info() VideoInfo {
	return c.info
}

func (c *Clip) GetFrame(n int) (*Frame, error) {
	if n < 0 || n >= len(c.frames) {
		return nil, fmt.Errorf("frame %d out of range [0, %d)", n, len(c.frames))
	}
	return c.frames[n].Clone(), nil
}

func (c *Clip) Free() {
	c.l.Lock()
	defer c.l.Unlock()
	c.freed = true
}

// Freed reports whether Free was called.
func (c *Clip) Freed() bool {
	c.l.Lock()
	defer c.l.Unlock()
	return c.freed
}

// Sink receives processed frames. Frames may arrive in any order; n is the
// frame's index in its clip. Put is never called concurrently by the
// pipeline.
type Sink interface {
	Put(n int, f *Frame) error
	Close() error
}
