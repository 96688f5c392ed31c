package source

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"maskccl/video/frame"
)

// capture is the part of gocv.VideoCapture used after opening.
type capture interface {
	Read(m *gocv.Mat) bool
	Set(prop gocv.VideoCaptureProperties, param float64)
	Close() error
}

// VideoCapture is a clip decoded from a video file. Frames are converted to
// grayscale. Decoding is sequential, so concurrent requests are serialized
// and out of order requests seek.
type VideoCapture struct {
	URI string

	info frame.VideoInfo
	cap  capture
	pool *MatPool

	l    sync.Mutex
	next int
}

func NewVideoCapture(uri string) (*VideoCapture, error) {
	cap, err := gocv.VideoCaptureFile(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open video capture %v: %w", uri, err)
	}
	v := &VideoCapture{
		URI: uri,
		info: frame.VideoInfo{
			Format:    frame.Gray8,
			Width:     int(cap.Get(gocv.VideoCaptureFrameWidth)),
			Height:    int(cap.Get(gocv.VideoCaptureFrameHeight)),
			NumFrames: int(cap.Get(gocv.VideoCaptureFrameCount)),
		},
		cap:  cap,
		pool: NewMatPool(),
	}
	log.WithField("uri", uri).Infof("Opened video %dx%d, %d frames", v.info.Width, v.info.Height, v.info.NumFrames)
	return v, nil
}

func (v *VideoCapture) Info() frame.VideoInfo {
	return v.info
}

func (v *VideoCapture) GetFrame(n int) (*frame.Frame, error) {
	m := v.pool.NewMat()
	defer v.pool.ReleaseMat(m)

	v.l.Lock()
	if n != v.next {
		v.cap.Set(gocv.VideoCapturePosFrames, float64(n))
	}
	ok := v.cap.Read(&m)
	if ok {
		v.next = n + 1
	} else {
		// Position is unknown after a failed read; seek next time.
		v.next = -1
	}
	v.l.Unlock()

	if !ok {
		return nil, fmt.Errorf("failed to read frame %d from %v", n, v.URI)
	}
	return FrameFromMat(m)
}

func (v *VideoCapture) Free() {
	v.l.Lock()
	defer v.l.Unlock()
	v.cap.Close()
	v.pool.Close()
}
