package appmsg

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sumwatshade/watchface/internal/transport"
)

// Default buffer sizes, matching what the face asks for when it opens the
// channel.
const (
	DefaultInboxSize  = 128
	DefaultOutboxSize = 128
)

const defaultSendTimeout = 5 * time.Second

// OutboxSentMsg reports that a dictionary left the outbox.
type OutboxSentMsg struct {
	Dict Dict
}

// OutboxFailedMsg reports a send that did not go through.
type OutboxFailedMsg struct {
	Dict   Dict
	Reason Result
	Err    error
}

// InboxReceivedMsg carries a dictionary that arrived from the companion.
type InboxReceivedMsg struct {
	Dict Dict
}

// InboxDroppedMsg reports an inbound message that could not be delivered.
type InboxDroppedMsg struct {
	Reason Result
	Err    error
}

// Messenger frames dictionaries on top of a transport and enforces the
// inbox/outbox sizes.
type Messenger struct {
	link        transport.Transport
	inboxSize   int
	outboxSize  int
	sendTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// Open wraps link. Non-positive sizes fall back to the defaults.
func Open(link transport.Transport, inboxSize, outboxSize int) *Messenger {
	if inboxSize <= 0 {
		inboxSize = DefaultInboxSize
	}
	if outboxSize <= 0 {
		outboxSize = DefaultOutboxSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Messenger{
		link:        link,
		inboxSize:   inboxSize,
		outboxSize:  outboxSize,
		sendTimeout: defaultSendTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Send encodes d and hands it to the transport.
func (m *Messenger) Send(ctx context.Context, d Dict) error {
	if d.Len() == 0 {
		return ErrEmptyDict
	}
	if size := d.Size(); size > m.outboxSize {
		return fmt.Errorf("appmsg: outbound %d bytes exceeds outbox of %d: %w", size, m.outboxSize, ErrBufferOverflow)
	}
	data, err := d.Encode()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, m.sendTimeout)
	defer cancel()
	return m.link.Send(ctx, data)
}

// Receive blocks for the next inbound dictionary.
func (m *Messenger) Receive(ctx context.Context) (Dict, error) {
	data, err := m.link.Receive(ctx)
	if err != nil {
		return Dict{}, err
	}
	if len(data) > m.inboxSize {
		return Dict{}, fmt.Errorf("appmsg: inbound %d bytes exceeds inbox of %d: %w", len(data), m.inboxSize, ErrBufferOverflow)
	}
	return Decode(data)
}

// SendCmd sends d and reports the outcome as OutboxSentMsg or
// OutboxFailedMsg.
func (m *Messenger) SendCmd(d Dict) tea.Cmd {
	return func() tea.Msg {
		if err := m.Send(m.ctx, d); err != nil {
			return OutboxFailedMsg{Dict: d, Reason: resultOf(err), Err: err}
		}
		return OutboxSentMsg{Dict: d}
	}
}

// ListenCmd waits for the next inbound message. It yields nil once the
// messenger or its transport is closed, which ends the listen loop.
func (m *Messenger) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		d, err := m.Receive(m.ctx)
		if err != nil {
			if m.ctx.Err() != nil || resultOf(err) == Closed {
				return nil
			}
			return InboxDroppedMsg{Reason: resultOf(err), Err: err}
		}
		return InboxReceivedMsg{Dict: d}
	}
}

// Close stops pending listens and closes the transport.
func (m *Messenger) Close() error {
	m.cancel()
	return m.link.Close()
}
