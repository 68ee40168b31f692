package web2pdf

import (
	"slices"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// maxIdleInflight is how many requests may stay open while the network
// still counts as idle. Analytics beacons and long polls never finish.
const maxIdleInflight = 2

// networkIdle reports when at most max requests have been in flight for
// a whole window. The window restarts each time the count drops back to
// max, and nothing fires until arm is called.
type networkIdle struct {
	max    int
	window time.Duration

	mu       sync.Mutex
	inflight map[proto.NetworkRequestID]struct{}
	armed    bool
	timer    *time.Timer
	done     chan struct{}
	closed   bool
}

func newNetworkIdle(maxInflight int, window time.Duration) *networkIdle {
	return &networkIdle{
		max:      maxInflight,
		window:   window,
		inflight: make(map[proto.NetworkRequestID]struct{}),
		done:     make(chan struct{}),
	}
}

// Done is closed once the network has been idle for the window.
func (n *networkIdle) Done() <-chan struct{} { return n.done }

// arm starts the quiet window if the network is already idle.
func (n *networkIdle) arm() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.armed = true
	if len(n.inflight) <= n.max {
		n.startLocked()
	}
}

// started records a request. Redirects reuse the id and count once.
func (n *networkIdle) started(id proto.NetworkRequestID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inflight[id] = struct{}{}
	if len(n.inflight) > n.max && n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// finished records the end of a request. Unknown ids are ignored.
func (n *networkIdle) finished(id proto.NetworkRequestID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.inflight[id]; !ok {
		return
	}
	delete(n.inflight, id)
	if n.armed && len(n.inflight) <= n.max {
		n.startLocked()
	}
}

// stop releases the timer. Done is left open if it has not fired.
func (n *networkIdle) stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.armed = false
}

func (n *networkIdle) startLocked() {
	if n.closed || n.timer != nil {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(n.window, func() { n.fire(t) })
	n.timer = t
}

func (n *networkIdle) fire(t *time.Timer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	// A stopped timer may still fire once; only the current one counts.
	if n.timer != t || n.closed || len(n.inflight) > n.max {
		return
	}
	n.timer = nil
	n.closed = true
	close(n.done)
}

// watchNetwork feeds p's network events into idle until the returned
// stop function is called or p's context ends.
func watchNetwork(p *rod.Page, idle *networkIdle) (stop func()) {
	ep, cancel := p.WithCancel()
	wait := ep.EachEvent(
		func(e *proto.NetworkRequestWillBeSent) {
			if !slices.Contains(idleExcludedTypes, e.Type) {
				idle.started(e.RequestID)
			}
		},
		func(e *proto.NetworkLoadingFinished) { idle.finished(e.RequestID) },
		func(e *proto.NetworkLoadingFailed) { idle.finished(e.RequestID) },
	)
	go wait()
	return func() {
		cancel()
		idle.stop()
	}
}
