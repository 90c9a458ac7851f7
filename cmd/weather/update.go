package weather

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sumwatshade/watchface/internal/appmsg"
	"github.com/sumwatshade/watchface/internal/metrics"
	"go.uber.org/zap"
)

// Channel is the watch end of the companion link.
type Channel interface {
	SendCmd(d appmsg.Dict) tea.Cmd
	ListenCmd() tea.Cmd
}

// Exchange owns the weather text and the request/response cycle.
type Exchange struct {
	channel Channel
	logger  *zap.Logger
	metrics *metrics.Collector

	text  string
	phase Phase
}

func NewExchange(channel Channel, logger *zap.Logger, m *metrics.Collector) *Exchange {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exchange{channel: channel, logger: logger, metrics: m, text: InitialText}
}

// Text is the current weather display string.
func (e *Exchange) Text() string { return e.text }

func (e *Exchange) Phase() Phase { return e.phase }

// Start begins listening for inbound messages.
func (e *Exchange) Start() tea.Cmd {
	return e.channel.ListenCmd()
}

// OnTick sends a refresh request when t falls on the refresh cadence.
func (e *Exchange) OnTick(t time.Time) tea.Cmd {
	if !ShouldRequest(t) {
		return nil
	}
	return e.Request()
}

// Request sends a refresh request now.
func (e *Exchange) Request() tea.Cmd {
	e.phase = RequestSent
	return e.channel.SendCmd(RequestDict())
}

// HandleUpdate applies channel messages. It reports whether the weather
// text changed and returns the follow-up command, if any.
func (e *Exchange) HandleUpdate(msg tea.Msg) (bool, tea.Cmd) {
	switch m := msg.(type) {
	case appmsg.InboxReceivedMsg:
		changed := e.receive(m.Dict)
		return changed, e.channel.ListenCmd()
	case appmsg.InboxDroppedMsg:
		e.logger.Error("Message dropped!", zap.Stringer("reason", m.Reason), zap.Error(m.Err))
		e.metrics.InboxDropped(m.Reason.String())
		return false, e.channel.ListenCmd()
	case appmsg.OutboxSentMsg:
		e.logger.Info("Outbox send success!")
		e.metrics.OutboxSent()
	case appmsg.OutboxFailedMsg:
		e.logger.Error("Outbox send failed!", zap.Stringer("reason", m.Reason), zap.Error(m.Err))
		e.metrics.OutboxFailed(m.Reason.String())
	}
	return false, nil
}

// receive overwrites the text only when the dictionary carries a complete
// reading; anything else leaves the previous text in place.
func (e *Exchange) receive(d appmsg.Dict) bool {
	e.metrics.InboxReceived()
	r, ok := ParseReading(d)
	if !ok {
		e.phase = Ignored
		e.metrics.WeatherUpdate("ignored")
		e.logger.Debug("Incomplete weather message ignored", zap.Int("tuples", d.Len()))
		return false
	}
	e.phase = Updated
	e.metrics.WeatherUpdate("applied")
	text := r.String()
	if text == e.text {
		return false
	}
	e.text = text
	return true
}
