package cmd

import (
	"context"
	"fmt"

	"github.com/sumwatshade/watchface/internal/appmsg"
	"github.com/sumwatshade/watchface/internal/companion"
	"github.com/sumwatshade/watchface/internal/config"
	"github.com/sumwatshade/watchface/internal/metrics"
	"github.com/sumwatshade/watchface/internal/transport"
	"go.uber.org/zap"
)

// openLink connects one side of the configured broker transport.
func openLink(ctx context.Context, s config.Settings, side transport.Side) (transport.Transport, error) {
	switch s.Transport.Kind {
	case config.TransportMQTT:
		return transport.NewMQTT(transport.MQTTConfig{
			Broker:      s.MQTT.Broker,
			Username:    s.MQTT.Username,
			Password:    s.MQTT.Password,
			TopicPrefix: s.MQTT.TopicPrefix,
			LinkID:      s.Transport.ID,
		}, side)
	case config.TransportRedis:
		return transport.NewRedis(ctx, transport.RedisConfig{
			Addr:          s.Redis.Addr,
			Password:      s.Redis.Password,
			DB:            s.Redis.DB,
			ChannelPrefix: s.Redis.ChannelPrefix,
			LinkID:        s.Transport.ID,
		}, side)
	}
	return nil, fmt.Errorf("transport %q has no broker side", s.Transport.Kind)
}

// openWatchLink returns the face's end of the link. For loopback the
// companion runs in-process until ctx is done.
func openWatchLink(ctx context.Context, s config.Settings, logger *zap.Logger, collector *metrics.Collector) (transport.Transport, error) {
	if s.Transport.Kind != config.TransportLoopback {
		return openLink(ctx, s, transport.SideWatch)
	}
	watchEnd, companionEnd := transport.NewLoopback(8)
	c := companion.New(
		appmsg.Open(companionEnd, appmsg.DefaultInboxSize, appmsg.DefaultOutboxSize),
		companion.NewOpenMeteo(s.Weather.BaseURL, s.Weather.Latitude, s.Weather.Longitude),
		logger.Named("companion"),
		collector,
	)
	go c.Run(ctx)
	return watchEnd, nil
}
