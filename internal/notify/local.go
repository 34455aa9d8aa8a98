package notify

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// Local fans changes out to in-process subscribers. A slow subscriber loses
// changes instead of blocking publishers; since every change only means
// "re-fetch", one pending change is as good as many.
type Local struct {
	mu     sync.Mutex
	subs   map[chan Change]struct{}
	closed bool
}

func NewLocal() *Local {
	return &Local{subs: make(map[chan Change]struct{})}
}

func (l *Local) Publish(_ context.Context, c Change) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ch := range l.subs {
		select {
		case ch <- c:
		default:
		}
	}
	return nil
}

func (l *Local) Subscribe(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, subscriberBuffer)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		close(ch)
		return ch, nil
	}
	l.subs[ch] = struct{}{}
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.remove(ch)
	}()
	return ch, nil
}

func (l *Local) remove(ch chan Change) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.subs[ch]; ok {
		delete(l.subs, ch)
		close(ch)
	}
}

func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	for ch := range l.subs {
		delete(l.subs, ch)
		close(ch)
	}
	return nil
}
