// Package companion is the phone side of the link: it answers refresh
// requests from the face with the current weather.
package companion

import (
	"context"
	"errors"

	"github.com/sumwatshade/watchface/cmd/weather"
	"github.com/sumwatshade/watchface/internal/appmsg"
	"github.com/sumwatshade/watchface/internal/metrics"
	"github.com/sumwatshade/watchface/internal/transport"
	"go.uber.org/zap"
)

// Companion serves weather readings over a messenger.
type Companion struct {
	messenger *appmsg.Messenger
	provider  Provider
	logger    *zap.Logger
	metrics   *metrics.Collector
}

func New(m *appmsg.Messenger, p Provider, logger *zap.Logger, c *metrics.Collector) *Companion {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Companion{messenger: m, provider: p, logger: logger, metrics: c}
}

// Run sends an initial reading, then replies to every inbound message until
// ctx is done or the link closes.
func (c *Companion) Run(ctx context.Context) error {
	c.logger.Info("Companion ready")
	c.Reply(ctx)

	for {
		d, err := c.messenger.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, transport.ErrClosed) {
				c.logger.Info("Companion stopped")
				return nil
			}
			c.logger.Warn("Dropped inbound message", zap.Error(err))
			continue
		}
		c.logger.Debug("Weather requested", zap.Int("tuples", d.Len()))
		c.Reply(ctx)
	}
}

// Reply fetches current conditions and sends them to the face. Failures are
// logged and nothing is sent.
func (c *Companion) Reply(ctx context.Context) {
	cond, err := c.provider.Current(ctx)
	if err != nil {
		c.metrics.FetchError()
		c.logger.Error("Weather fetch failed", zap.Error(err))
		return
	}
	r := weather.Reading{Temperature: cond.Degrees(), Conditions: cond.Summary}
	if err := c.messenger.Send(ctx, r.Dict()); err != nil {
		c.logger.Error("Weather reply failed", zap.Error(err))
		return
	}
	c.metrics.Reply()
	c.logger.Info("Weather sent",
		zap.Int32("temperature", r.Temperature),
		zap.String("conditions", r.Conditions),
		zap.String("observed_at", cond.ObservedAt))
}
