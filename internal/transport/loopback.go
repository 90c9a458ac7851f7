package transport

import (
	"context"
	"sync"
)

// Loopback is an in-process endpoint. Endpoints come in pairs from
// NewLoopback; closing either one closes the link.
type Loopback struct {
	in   chan []byte
	out  chan []byte
	link *loopLink
}

type loopLink struct {
	done chan struct{}
	once sync.Once
}

// NewLoopback returns a connected watch/companion pair whose directions each
// buffer up to size messages.
func NewLoopback(size int) (watch, companion *Loopback) {
	if size <= 0 {
		size = 1
	}
	toCompanion := make(chan []byte, size)
	toWatch := make(chan []byte, size)
	link := &loopLink{done: make(chan struct{})}
	watch = &Loopback{in: toWatch, out: toCompanion, link: link}
	companion = &Loopback{in: toCompanion, out: toWatch, link: link}
	return watch, companion
}

func (l *Loopback) Send(ctx context.Context, payload []byte) error {
	select {
	case <-l.link.done:
		return ErrClosed
	default:
	}
	p := make([]byte, len(payload))
	copy(p, payload)
	select {
	case l.out <- p:
		return nil
	case <-l.link.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loopback) Receive(ctx context.Context) ([]byte, error) {
	select {
	case p := <-l.in:
		return p, nil
	case <-l.link.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Loopback) Close() error {
	l.link.once.Do(func() { close(l.link.done) })
	return nil
}
