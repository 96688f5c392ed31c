package source

import (
	"fmt"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"maskccl/video/frame"
)

// ImageSequence is a clip made of one mask image per frame. Each file is
// decoded on request, so frames may differ in size.
type ImageSequence struct {
	Paths []string
}

func NewImageSequence(paths []string) (*ImageSequence, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("image sequence has no frames")
	}
	return &ImageSequence{Paths: paths}, nil
}

// Glob builds a sequence from the files matching pattern in lexical order.
func Glob(pattern string) (*ImageSequence, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	log.Infof("Found %d images for %v", len(paths), pattern)
	return NewImageSequence(paths)
}

func (s *ImageSequence) Info() frame.VideoInfo {
	return frame.VideoInfo{
		Format:    frame.Gray8,
		NumFrames: len(s.Paths),
	}
}

func (s *ImageSequence) GetFrame(n int) (*frame.Frame, error) {
	if n < 0 || n >= len(s.Paths) {
		return nil, fmt.Errorf("frame %d out of range [0, %d)", n, len(s.Paths))
	}
	m := gocv.IMRead(s.Paths[n], gocv.IMReadGrayScale)
	defer m.Close()
	if m.Empty() {
		return nil, fmt.Errorf("failed to read %v", s.Paths[n])
	}
	return FrameFromMat(m)
}

func (s *ImageSequence) Free() {}
