package source

import (
	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// warnAllocated is the number of live Mats after which the pool starts
// warning about a leak.
const warnAllocated = 64

// MatPool recycles decode buffers. One goroutine owns the free list; callers
// talk to it over channels.
type MatPool struct {
	get   chan chan gocv.Mat
	put   chan gocv.Mat
	close chan chan bool

	allocated int
	available []gocv.Mat
}

func NewMatPool() *MatPool {
	p := &MatPool{
		get:   make(chan chan gocv.Mat),
		put:   make(chan gocv.Mat),
		close: make(chan chan bool),
	}
	go p.loop()
	return p
}

func (p *MatPool) loop() {
	for {
		select {
		case c := <-p.close:
			for _, m := range p.available {
				m.Close()
			}
			p.allocated -= len(p.available)
			p.available = nil
			if p.allocated != 0 {
				log.Warnf("MatPool closed with %d Mats still checked out", p.allocated)
			}
			c <- true
			return
		case m := <-p.put:
			p.available = append(p.available, m)
		case r := <-p.get:
			var m gocv.Mat
			if n := len(p.available); n > 0 {
				m, p.available = p.available[n-1], p.available[:n-1]
			} else {
				m = gocv.NewMat()
				p.allocated++
				if p.allocated == warnAllocated {
					log.Warnf("MatPool has allocated %d Mats. Perhaps one isn't being released?", p.allocated)
				}
			}
			r <- m
		}
	}
}

func (p *MatPool) NewMat() gocv.Mat {
	r := make(chan gocv.Mat)
	p.get <- r
	return <-r
}

func (p *MatPool) ReleaseMat(m gocv.Mat) {
	p.put <- m
}

// Close frees every pooled Mat. The pool must not be used afterwards.
func (p *MatPool) Close() {
	c := make(chan bool)
	p.close <- c
	<-c
}
