package sink

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"maskccl/video/frame"
	"maskccl/video/source"
)

// ImageWriter saves every frame as a PNG file in Dir.
type ImageWriter struct {
	Dir string
}

func NewImageWriter(dir string) (*ImageWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &ImageWriter{Dir: dir}, nil
}

// Path returns the file frame n is written to.
func (w *ImageWriter) Path(n int) string {
	return filepath.Join(w.Dir, fmt.Sprintf("%06d.png", n))
}

func (w *ImageWriter) Put(n int, f *frame.Frame) error {
	m, err := source.MatFromFrame(f)
	if err != nil {
		return err
	}
	defer m.Close()

	path := w.Path(n)
	if ok := gocv.IMWrite(path, m); !ok {
		return fmt.Errorf("failed to write %v", path)
	}
	log.Debugf("Wrote frame %d to %v", n, path)
	return nil
}

func (w *ImageWriter) Close() error {
	return nil
}
