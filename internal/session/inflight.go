package session

import (
	"context"
	"sync"
)

// Inflight tracks at most one running image request per session. Starting
// a new one cancels the previous request for the same session.
type Inflight struct {
	mu      sync.Mutex
	seq     uint64
	running map[string]inflightEntry
}

type inflightEntry struct {
	seq    uint64
	cancel context.CancelFunc
}

func NewInflight() *Inflight {
	return &Inflight{running: make(map[string]inflightEntry)}
}

// Begin derives a cancellable context for a new request of session id and
// supersedes any request still running for it. The returned func must be
// called when the request finishes.
func (f *Inflight) Begin(ctx context.Context, id string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	f.seq++
	seq := f.seq
	if prev, ok := f.running[id]; ok {
		prev.cancel()
	}
	f.running[id] = inflightEntry{seq: seq, cancel: cancel}
	f.mu.Unlock()

	return ctx, func() {
		cancel()
		f.mu.Lock()
		if cur, ok := f.running[id]; ok && cur.seq == seq {
			delete(f.running, id)
		}
		f.mu.Unlock()
	}
}

// Running reports how many sessions have a request in flight.
func (f *Inflight) Running() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.running)
}
