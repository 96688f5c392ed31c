package sink

import (
	"fmt"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"maskccl/video/frame"
	"maskccl/video/source"
)

// MJPEG multi-streaming, based on implementation by saljam:
// https://github.com/saljam/mjpeg/blob/master/stream.go

const boundaryWord = "MJPEGBOUNDARY"
const headerf = "\r\n" +
	"--" + boundaryWord + "\r\n" +
	"Content-Type: image/jpeg\r\n" +
	"Content-Length: %d\r\n" +
	"X-Frame: %d\r\n" +
	"\r\n"

// MJPEGServer serves live previews of named streams of masks.
type MJPEGServer struct {
	m map[string]*MJPEGStream

	lock sync.Mutex
}

func NewMJPEGServer() *MJPEGServer {
	return &MJPEGServer{
		m: make(map[string]*MJPEGStream),
	}
}

func (s *MJPEGServer) NewStream(name string) *MJPEGStream {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.m[name]; ok {
		log.Panicf("A stream for %v already exists", name)
	}

	ms := &MJPEGStream{
		name:   name,
		m:      make(map[chan []byte]bool),
		parent: s,
	}

	s.m[name] = ms
	return ms
}

func (s *MJPEGServer) getStream(name string) *MJPEGStream {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.m[name]
}

// ServeHTTP implements http.Handler interface, serving MJPEG.
func (s *MJPEGServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := r.Form.Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	stream := s.getStream(name)
	if stream == nil {
		http.Error(w, "unknown stream", http.StatusNotFound)
		return
	}

	clog := log.WithField("addr", r.RemoteAddr)
	clog.Infof("MJPEG stream connected to %v", name)
	w.Header().Add("Content-Type", "multipart/x-mixed-replace;boundary="+boundaryWord)

	c := make(chan []byte, 1)
	stream.lock.Lock()
	stream.m[c] = true
	stream.lock.Unlock()

	for {
		var b []byte
		select {
		case b = <-c:
		case <-r.Context().Done():
		}
		if b == nil {
			break
		}
		if _, err := w.Write(b); err != nil {
			break
		}
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
	}

	stream.lock.Lock()
	delete(stream.m, c)
	stream.lock.Unlock()
	clog.Infof("MJPEG stream disconnected from %v", name)
}

// MJPEGStream is a frame.Sink that encodes frames only while someone is
// watching.
type MJPEGStream struct {
	name string
	m    map[chan []byte]bool

	parent *MJPEGServer
	lock   sync.Mutex
}

func (s *MJPEGStream) empty() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.m) == 0
}

func (s *MJPEGStream) Put(n int, f *frame.Frame) error {
	if s.empty() {
		// Nobody is listening; don't bother encoding.
		return nil
	}

	m, err := source.MatFromFrame(f)
	if err != nil {
		return err
	}
	defer m.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, m)
	if err != nil {
		log.Errorf("Error encoding to JPG for MJPEG stream %v: %v", s.name, err)
		return nil
	}
	defer buf.Close()
	jpeg := buf.GetBytes()

	header := fmt.Sprintf(headerf, len(jpeg), n)
	// msg is never reused, so listeners may still be writing it after Put returns.
	msg := make([]byte, 0, len(header)+len(jpeg))
	msg = append(msg, header...)
	msg = append(msg, jpeg...)

	s.lock.Lock()
	defer s.lock.Unlock()
	for c := range s.m {
		select {
		case c <- msg:
		default:
			// Skip listeners not ready for next frame.
		}
	}
	return nil
}

func (s *MJPEGStream) Close() error {
	s.parent.lock.Lock()
	defer s.parent.lock.Unlock()
	delete(s.parent.m, s.name)
	return nil
}
