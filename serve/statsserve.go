package serve

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"maskccl/ccl"
)

type StatsResponse struct {
	Frame          int
	NumLabels      int
	ForegroundArea int

	// Area-weighted centroid of the foreground; nil without foreground.
	Centroid *[2]float64 `json:",omitempty"`

	Components ccl.Stats
}

func toStatsResponse(n int, stats ccl.Stats) *StatsResponse {
	resp := &StatsResponse{
		Frame:          n,
		NumLabels:      stats.NumLabels(),
		ForegroundArea: stats.ForegroundArea(),
		Components:     stats,
	}
	if x, y, ok := stats.ForegroundCentroid(); ok {
		resp.Centroid = &[2]float64{x, y}
	}
	return resp
}

// StatsServer serves the cached statistics of one frame, or of the latest
// frame when no frame is given.
type StatsServer struct {
	Cache *StatsCache
}

func (s *StatsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var (
		n     int
		stats ccl.Stats
		ok    bool
	)
	if v := r.Form.Get("frame"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil {
			http.Error(w, fmt.Sprintf("Invalid frame %q", v), http.StatusBadRequest)
			return
		}
		stats, ok = s.Cache.Get(n)
	} else {
		n, stats, ok = s.Cache.Latest()
	}
	if !ok {
		http.Error(w, fmt.Sprintf("No statistics for frame %d", n), http.StatusNotFound)
		return
	}

	js, err := json.Marshal(toStatsResponse(n, stats))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(js)
}
