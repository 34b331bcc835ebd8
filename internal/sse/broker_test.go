package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "diagram.created", Data: map[string]string{"path": "a.yaml"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: diagram.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"path":"a.yaml"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

// drain collects the event names currently buffered on ch.
func drain(ch chan []byte) []string {
	var names []string
	for {
		select {
		case msg := <-ch:
			line, _, _ := strings.Cut(string(msg), "\n")
			names = append(names, strings.TrimPrefix(line, "event: "))
		default:
			return names
		}
	}
}

func count(names []string, name string) int {
	n := 0
	for _, s := range names {
		if s == name {
			n++
		}
	}
	return n
}

func TestPublishDiagramEvent_OntologyThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// First event should trigger ontology.updated.
	b.PublishDiagramEvent("created", "a.yaml")
	// Second event immediately should NOT trigger another ontology.updated.
	b.PublishDiagramEvent("updated", "b.yaml")
	// Unknown kinds are ignored.
	b.PublishDiagramEvent("touched", "c.yaml")

	time.Sleep(50 * time.Millisecond)
	names := drain(ch)

	if got := count(names, "diagram.created") + count(names, "diagram.updated"); got != 2 {
		t.Errorf("diagram events = %d, want 2 (%v)", got, names)
	}
	if got := count(names, "ontology.updated"); got != 1 {
		t.Errorf("ontology events = %d, want 1 (throttled)", got)
	}
}

func TestPublishRunEvent_ProgressThrottle(t *testing.T) {
	b := NewBroker(time.Hour, WithProgressInterval(time.Hour))
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishRunEvent(RunStarted, "a.yaml", map[string]int{"total": 3})
	for i := 1; i <= 3; i++ {
		b.PublishRunEvent(RunProgress, "a.yaml", map[string]int{"count": i, "total": 3})
	}
	// Throttling is per diagram.
	b.PublishRunEvent(RunProgress, "b.yaml", map[string]int{"count": 1, "total": 1})
	b.PublishRunEvent(RunCompleted, "a.yaml", map[string]int{"axioms": 3})
	b.PublishRunEvent(RunFailed, "b.yaml", map[string]string{"error": "boom"})

	time.Sleep(50 * time.Millisecond)
	names := drain(ch)

	want := []string{
		"translation.started",
		"translation.progress",
		"translation.progress",
		"translation.completed",
		"ontology.updated",
		"translation.failed",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", names, want)
	}
}

func TestPublishRunEvent_StartResetsProgress(t *testing.T) {
	b := NewBroker(time.Hour, WithProgressInterval(time.Hour))
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishRunEvent(RunProgress, "a.yaml", nil)
	b.PublishRunEvent(RunStarted, "a.yaml", nil)
	b.PublishRunEvent(RunProgress, "a.yaml", nil)

	time.Sleep(50 * time.Millisecond)
	if got := count(drain(ch), "translation.progress"); got != 2 {
		t.Errorf("progress events = %d, want 2", got)
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	// Start handler in background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.Publish(Event{Type: "diagram.updated", Data: map[string]string{"path": "x.yaml"}})
	time.Sleep(50 * time.Millisecond)

	// Cancel context to disconnect.
	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: diagram.updated") {
		t.Errorf("handler output missing event: %q", body)
	}

	// Client should be cleaned up.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill buffer (capacity 64) and then one more should not block.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
	// If we reach here without deadlock, the test passes.
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// Should be safe no-op after close.
	b.Publish(Event{Type: "diagram.updated", Data: map[string]string{"path": "x.yaml"}})
	b.PublishDiagramEvent("updated", "x.yaml")
	b.PublishRunEvent(RunProgress, "x.yaml", nil)
}
