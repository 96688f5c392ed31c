package serve

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maskccl/ccl"
	"maskccl/filter"
	"maskccl/video/frame"
)

func statsFrame(t *testing.T, fg int) *frame.Frame {
	t.Helper()
	f := frame.New(frame.Gray8, 4, 4, nil)
	stats := ccl.Stats{
		{Label: 0, Area: 16 - fg, Width: 4, Height: 4, CentroidX: 1.5, CentroidY: 1.5},
		{Label: 1, Area: fg, Width: 1, Height: fg, CentroidY: float64(fg-1) / 2},
	}
	filter.SetStatsProps(f.Props, stats)
	return f
}

func TestStatsCacheEvicts(t *testing.T) {
	c := NewStatsCache(2)
	for n := 0; n < 3; n++ {
		require.NoError(t, c.Put(n, statsFrame(t, n+1)))
	}
	_, ok := c.Get(0)
	assert.False(t, ok)
	s, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, 3, s[1].Area)

	n, s, ok := c.Latest()
	require.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, 13, s[0].Area)

	c.Reset()
	_, _, ok = c.Latest()
	assert.False(t, ok)
}

func TestStatsCacheIgnoresPlainFrames(t *testing.T) {
	c := NewStatsCache(0)
	require.NoError(t, c.Put(5, frame.New(frame.Gray8, 1, 1, nil)))
	_, ok := c.Get(5)
	assert.False(t, ok)
}

func TestStatsServer(t *testing.T) {
	c := NewStatsCache(0)
	require.NoError(t, c.Put(3, statsFrame(t, 2)))
	require.NoError(t, c.Put(4, statsFrame(t, 4)))
	s := &StatsServer{Cache: c}

	for _, tc := range []struct {
		query     string
		code      int
		wantFrame int
		wantFG    int
	}{
		{"", http.StatusOK, 4, 4},
		{"?frame=3", http.StatusOK, 3, 2},
		{"?frame=9", http.StatusNotFound, 0, 0},
		{"?frame=x", http.StatusBadRequest, 0, 0},
	} {
		t.Run(tc.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest("GET", "/stats"+tc.query, nil))
			require.Equal(t, tc.code, rec.Code)
			if tc.code != http.StatusOK {
				return
			}
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var resp StatsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantFrame, resp.Frame)
			assert.Equal(t, 2, resp.NumLabels)
			assert.Equal(t, tc.wantFG, resp.ForegroundArea)
			assert.Len(t, resp.Components, 2)
			require.NotNil(t, resp.Centroid)
			assert.Equal(t, [2]float64{0, float64(tc.wantFG-1) / 2}, *resp.Centroid)
		})
	}
}

func TestMaskServer(t *testing.T) {
	dir := t.TempDir()
	path := func(n int) string { return filepath.Join(dir, fmt.Sprintf("%06d.png", n)) }
	require.NoError(t, os.WriteFile(path(1), []byte("png bytes"), 0644))
	s := NewMaskServer(path)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/mask?frame=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png bytes", rec.Body.String())

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/mask?frame=2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/mask?frame=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsUpdater(t *testing.T) {
	m := NewStatsUpdater()
	defer m.Close()
	srv := httptest.NewServer(m)
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer ws.Close()

	assert.Eventually(t, func() bool { return m.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, m.Put(7, statsFrame(t, 3)))
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)

	var got FrameSummary
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, FrameSummary{Frame: 7, NumLabels: 2, ForegroundArea: 3}, got)

	ws.Close()
	assert.Eventually(t, func() bool { return m.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestStatsUpdaterClosed(t *testing.T) {
	m := NewStatsUpdater()
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.NoError(t, m.Put(0, statsFrame(t, 1)))
	assert.Equal(t, 0, m.Clients())
}
