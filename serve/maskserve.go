package serve

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
)

// MaskServer serves the image written for a frame.
type MaskServer struct {
	PathFunc    func(n int) string
	ContentType string
}

func NewMaskServer(pathFunc func(n int) string) *MaskServer {
	return &MaskServer{
		PathFunc:    pathFunc,
		ContentType: "image/png",
	}
}

func (s *MaskServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v := r.Form.Get("frame")
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		http.Error(w, fmt.Sprintf("Invalid frame %q", v), http.StatusBadRequest)
		return
	}

	f, err := os.Open(s.PathFunc(n))
	if err != nil {
		http.Error(w, fmt.Sprintf("No mask found for frame %d", n), http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Add("Content-Type", s.ContentType)
	io.Copy(w, f)
}
