package serve

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"maskccl/filter"
	"maskccl/video/frame"
)

const (
	// Time allowed to write message to the client
	writeWait  = 10 * time.Second
	pingPeriod = 10 * time.Second
)

// FrameSummary is pushed to websocket clients for every stats frame.
type FrameSummary struct {
	Frame          int
	NumLabels      int
	ForegroundArea int
}

// StatsUpdater is a sink pushing a FrameSummary per frame to every connected
// websocket client. Slow clients miss summaries rather than stall the
// pipeline.
type StatsUpdater struct {
	upgrader websocket.Upgrader
	cs       map[chan []byte]bool
	addc     chan chan []byte
	delc     chan chan []byte
	countc   chan chan int
	notify   chan []byte
	done     chan struct{}
	once     sync.Once
}

func NewStatsUpdater() *StatsUpdater {
	m := &StatsUpdater{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		cs:     make(map[chan []byte]bool),
		addc:   make(chan chan []byte),
		delc:   make(chan chan []byte),
		countc: make(chan chan int),
		notify: make(chan []byte),
		done:   make(chan struct{}),
	}
	go m.loop()
	return m
}

func (m *StatsUpdater) loop() {
	for {
		select {
		case c := <-m.addc:
			m.cs[c] = true
		case c := <-m.delc:
			delete(m.cs, c)
		case r := <-m.countc:
			r <- len(m.cs)
		case msg := <-m.notify:
			for c := range m.cs {
				select {
				case c <- msg:
				default:
				}
			}
		case <-m.done:
			for c := range m.cs {
				close(c)
			}
			return
		}
	}
}

// Clients returns the number of connected clients.
func (m *StatsUpdater) Clients() int {
	r := make(chan int)
	select {
	case m.countc <- r:
		return <-r
	case <-m.done:
		return 0
	}
}

func (m *StatsUpdater) Put(n int, f *frame.Frame) error {
	if !filter.HasStats(f.Props) {
		return nil
	}
	stats, err := filter.StatsFromProps(f.Props)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(&FrameSummary{
		Frame:          n,
		NumLabels:      stats.NumLabels(),
		ForegroundArea: stats.ForegroundArea(),
	})
	if err != nil {
		return err
	}
	select {
	case m.notify <- msg:
	case <-m.done:
	}
	return nil
}

// Close disconnects every client.
func (m *StatsUpdater) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

func (m *StatsUpdater) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.WithField("addr", r.RemoteAddr).Errorf("Websocket handshake failed for stats stream: %v", err)
		}
		return
	}
	go m.serve(ws)
}

func (m *StatsUpdater) serve(ws *websocket.Conn) {
	clog := log.WithField("addr", ws.RemoteAddr())
	clog.Info("connected to stats update socket")
	defer func() {
		ws.Close()
		clog.Info("disconnected from stats update socket")
	}()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	notifyc := make(chan []byte, 1)
	select {
	case m.addc <- notifyc:
	case <-m.done:
		return
	}
	defer func() {
		select {
		case m.delc <- notifyc:
		case <-m.done:
		}
	}()

	// Incoming messages are ignored, but reading is needed to process
	// control messages.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := ws.NextReader(); err != nil {
				ws.Close()
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case msg, ok := <-notifyc:
			if !ok {
				return
			}
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-pingTicker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}
