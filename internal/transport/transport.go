// Package transport carries encoded dictionaries between the watch and its
// companion. Each side's outbox is the other side's inbox.
package transport

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrClosed       = errors.New("transport: closed")
	ErrNotConnected = errors.New("transport: not connected")
	ErrBusy         = errors.New("transport: inbox overrun, messages dropped")
)

// Transport is one end of the watch/companion link.
type Transport interface {
	Send(ctx context.Context, payload []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// Side selects which direction an endpoint publishes in.
type Side int

const (
	SideWatch Side = iota
	SideCompanion
)

func (s Side) String() string {
	if s == SideCompanion {
		return "companion"
	}
	return "watch"
}

// outboxName and inboxName are the directional suffixes used for topic and
// channel names: the watch writes "outbox" and reads "inbox".
func (s Side) outboxName() string {
	if s == SideCompanion {
		return "inbox"
	}
	return "outbox"
}

func (s Side) inboxName() string {
	if s == SideCompanion {
		return "outbox"
	}
	return "inbox"
}

// linkName joins a prefix, link id and box name into a topic or channel
// name, e.g. "watchface/wrist/outbox".
func linkName(sep, prefix, linkID, box string) string {
	prefix = strings.TrimSuffix(prefix, sep)
	if prefix == "" {
		prefix = "watchface"
	}
	return prefix + sep + linkID + sep + box
}

// queue buffers payloads pushed from broker callbacks until Receive picks
// them up. Overruns are reported once as ErrBusy.
type queue struct {
	ch      chan []byte
	mu      sync.Mutex
	overrun bool
	done    chan struct{}
	once    sync.Once
}

func newQueue(size int) *queue {
	return &queue{ch: make(chan []byte, size), done: make(chan struct{})}
}

func (q *queue) push(payload []byte) {
	select {
	case <-q.done:
		return
	default:
	}
	select {
	case q.ch <- payload:
	default:
		q.mu.Lock()
		q.overrun = true
		q.mu.Unlock()
	}
}

func (q *queue) pop(ctx context.Context) ([]byte, error) {
	q.mu.Lock()
	if q.overrun {
		q.overrun = false
		q.mu.Unlock()
		return nil, ErrBusy
	}
	q.mu.Unlock()
	select {
	case p := <-q.ch:
		return p, nil
	case <-q.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *queue) close() {
	q.once.Do(func() { close(q.done) })
}

func (q *queue) closed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}
