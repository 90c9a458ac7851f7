package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sumwatshade/watchface/internal/appmsg"
	"github.com/sumwatshade/watchface/internal/companion"
	"github.com/sumwatshade/watchface/internal/config"
	"github.com/sumwatshade/watchface/internal/logging"
	"github.com/sumwatshade/watchface/internal/metrics"
	"github.com/sumwatshade/watchface/internal/transport"
	"go.uber.org/zap"
)

var companionCmd = &cobra.Command{
	Use:   "companion",
	Short: "Run the weather companion against an MQTT or Redis link",
	Long: `Answers weather requests from a watchface sharing the same transport and
link id. Not needed for the loopback transport, where the face runs its own
companion.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		logger, err := logging.New("", settings.Log.Level)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		collector := metrics.NewCollector()
		serveMetrics(ctx, settings.Metrics.Addr, collector, logger)

		link, err := openLink(ctx, settings, transport.SideCompanion)
		if err != nil {
			return err
		}
		messenger := appmsg.Open(link, appmsg.DefaultInboxSize, appmsg.DefaultOutboxSize)
		defer messenger.Close()

		logger.Info("Companion connected",
			zap.String("transport", settings.Transport.Kind),
			zap.String("link_id", settings.Transport.ID),
			zap.Float64("latitude", settings.Weather.Latitude),
			zap.Float64("longitude", settings.Weather.Longitude))

		provider := companion.NewOpenMeteo(settings.Weather.BaseURL, settings.Weather.Latitude, settings.Weather.Longitude)
		return companion.New(messenger, provider, logger, collector).Run(ctx)
	},
}
