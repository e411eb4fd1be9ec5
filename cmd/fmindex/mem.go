package main

import (
	"runtime"
	"sync/atomic"
	"time"
)

// memMonitor samples the heap until stopped and remembers the largest allocation seen.
type memMonitor struct {
	maxAlloc atomic.Uint64
	stop     chan struct{}
	done     chan struct{}
}

func newMemMonitor() *memMonitor {
	mm := &memMonitor{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(mm.done)
		for {
			mm.sample()
			select {
			case <-mm.stop:
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
	}()
	return mm
}

func (mm *memMonitor) sample() {
	alloc := getCurrentAlloc()
	if alloc > mm.maxAlloc.Load() {
		mm.maxAlloc.Store(alloc)
	}
}

func (mm *memMonitor) Stop() uint64 {
	close(mm.stop)
	<-mm.done
	mm.sample()
	return mm.maxAlloc.Load()
}

func getCurrentAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}
