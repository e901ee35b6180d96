package publishers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: "http"}
	bad := &stubPublisher{id: "bad", typ: "http", err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be dropped, size=%d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("expected every publisher to be called once")
	}
	if err := fanout.Close(); err != nil || !ok.closed || !bad.closed {
		t.Fatalf("expected closers to run, err=%v", err)
	}
}

// rendezvousPublisher succeeds only if every peer is publishing at the same time.
type rendezvousPublisher struct {
	id    string
	group *sync.WaitGroup
}

func (r *rendezvousPublisher) ID() string   { return r.id }
func (r *rendezvousPublisher) Type() string { return TypeHTTP }
func (r *rendezvousPublisher) Publish(ctx context.Context, _ Event) error {
	r.group.Done()
	done := make(chan struct{})
	go func() {
		r.group.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(2 * time.Second):
		return errors.New("peers never started")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestFanoutPublishesToSinksConcurrently(t *testing.T) {
	var group sync.WaitGroup
	group.Add(3)
	fanout := NewFanout([]Publisher{
		&rendezvousPublisher{id: "a", group: &group},
		&rendezvousPublisher{id: "b", group: &group},
		&rendezvousPublisher{id: "c", group: &group},
	})

	n, err := fanout.Publish(context.Background(), NewEvent("vanak", "Vanak", domainStore(1)))
	if err != nil || n != 3 {
		t.Fatalf("expected 3 deliveries, got n=%d err=%v", n, err)
	}
}

func TestNilFanout(t *testing.T) {
	var f *Fanout
	if n, err := f.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout must be a no-op")
	}
	if f.Size() != 0 || f.Close() != nil {
		t.Fatalf("nil fanout must be empty")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 {
		t.Fatalf("expected 1 publisher, got %d", len(pubs))
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{{ID: "x", Type: "kafka"}}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
	_, err = BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{{ID: "y"}}, nil)
	if err == nil {
		t.Fatalf("expected error for missing type")
	}
}
