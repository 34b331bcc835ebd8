// Package sse implements a Server-Sent Events broker for translation updates.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Run event kinds, published as "translation.<kind>".
const (
	RunStarted   = "started"
	RunProgress  = "progress"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type diagramEventReq struct {
	kind string
	path string
}

type runEventReq struct {
	kind string
	path string
	data any
}

// Option configures a Broker.
type Option func(*Broker)

// WithProgressInterval sets the minimum gap between two progress events of
// the same diagram.
func WithProgressInterval(d time.Duration) Option {
	return func(b *Broker) {
		if d > 0 {
			b.progressMin = d
		}
	}
}

// Broker manages SSE client connections and broadcasts events.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable state
// (clients, the ontology throttle timestamp and per-diagram progress
// timestamps). Public methods communicate with this loop through channels, so
// no mutexes are required.
type Broker struct {
	ontologyMin time.Duration
	progressMin time.Duration

	subscribeCh    chan chan []byte
	unsubscribeCh  chan chan []byte
	publishCh      chan Event
	diagramEventCh chan diagramEventReq
	runEventCh     chan runEventReq
	countReqCh     chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a new SSE broker. ontologyThrottle bounds how often
// ontology.updated is emitted.
func NewBroker(ontologyThrottle time.Duration, opts ...Option) *Broker {
	if ontologyThrottle <= 0 {
		ontologyThrottle = 2 * time.Second
	}

	b := &Broker{
		ontologyMin:    ontologyThrottle,
		progressMin:    100 * time.Millisecond,
		subscribeCh:    make(chan chan []byte),
		unsubscribeCh:  make(chan chan []byte),
		publishCh:      make(chan Event, 256),
		diagramEventCh: make(chan diagramEventReq, 256),
		runEventCh:     make(chan runEventReq, 256),
		countReqCh:     make(chan chan int),
		stopCh:         make(chan struct{}),
		stopped:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	lastProgress := make(map[string]time.Time)
	var lastOntology time.Time

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		msg := fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload)
		raw := []byte(msg)

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking broker loop.
			}
		}
	}

	ontologyUpdated := func() {
		now := time.Now()
		if now.Sub(lastOntology) >= b.ontologyMin {
			lastOntology = now
			broadcast(Event{Type: "ontology.updated", Data: map[string]string{}})
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case req := <-b.diagramEventCh:
			data := map[string]string{"path": req.path}
			switch req.kind {
			case "created", "updated", "deleted":
				broadcast(Event{Type: "diagram." + req.kind, Data: data})
			default:
				continue
			}
			ontologyUpdated()

		case req := <-b.runEventCh:
			switch req.kind {
			case RunStarted:
				delete(lastProgress, req.path)
			case RunProgress:
				now := time.Now()
				if last, ok := lastProgress[req.path]; ok && now.Sub(last) < b.progressMin {
					continue
				}
				lastProgress[req.path] = now
			case RunCompleted, RunFailed:
				delete(lastProgress, req.path)
			default:
				continue
			}
			broadcast(Event{Type: "translation." + req.kind, Data: req.data})
			if req.kind == RunCompleted || req.kind == RunFailed {
				ontologyUpdated()
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishDiagramEvent publishes a workspace file change and a throttled
// ontology.updated event.
func (b *Broker) PublishDiagramEvent(kind, path string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.diagramEventCh <- diagramEventReq{kind: kind, path: path}:
	case <-b.stopped:
	}
}

// PublishRunEvent publishes a translation lifecycle event for the diagram at
// path. Progress events closer together than the progress interval are
// dropped; completed and failed runs also emit a throttled ontology.updated.
func (b *Broker) PublishRunEvent(kind, path string, data any) {
	if b.closed.Load() {
		return
	}
	select {
	case b.runEventCh <- runEventReq{kind: kind, path: path, data: data}:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
