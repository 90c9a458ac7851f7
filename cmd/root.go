/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sumwatshade/watchface/cmd/clock"
	"github.com/sumwatshade/watchface/cmd/weather"
	"github.com/sumwatshade/watchface/internal/appmsg"
	"github.com/sumwatshade/watchface/internal/config"
	"github.com/sumwatshade/watchface/internal/logging"
	"github.com/sumwatshade/watchface/internal/metrics"
	"github.com/sumwatshade/watchface/resources"
	"go.uber.org/zap"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "watchface",
	Short: "A terminal watchface showing the time and the weather",
	Long: `Shows a large clock over a background image, with the current weather
fetched every 30 minutes from a companion over a loopback, MQTT or Redis link.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		return runFace(cmd.Context(), settings)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.watchface.yaml)")

	rootCmd.PersistentFlags().String("transport", "", "companion link: loopback, mqtt or redis")
	rootCmd.Flags().String("clock", "", "clock style: 24h or 12h")
	viper.BindPFlag("transport.kind", rootCmd.PersistentFlags().Lookup("transport"))
	viper.BindPFlag("clock.format", rootCmd.Flags().Lookup("clock"))

	rootCmd.AddCommand(companionCmd, setupCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	config.SetDefaults(viper.GetViper(), home)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".watchface" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".watchface")
	}

	config.BindEnv(viper.GetViper())

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runFace(ctx context.Context, settings config.Settings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger, err := logging.New(settings.Log.File, settings.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	collector := metrics.NewCollector()
	serveMetrics(ctx, settings.Metrics.Addr, collector, logger)

	link, err := openWatchLink(ctx, settings, logger, collector)
	if err != nil {
		return err
	}
	messenger := appmsg.Open(link, appmsg.DefaultInboxSize, appmsg.DefaultOutboxSize)
	defer messenger.Close()

	m, err := newModel(modelOptions{
		resources: resources.WithDir(settings.Resources.Dir),
		exchange:  weather.NewExchange(messenger, logger, collector),
		use24h:    clock.Is24h(settings.Clock.Format),
		logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("load window: %w", err)
	}
	defer m.window.Unload()

	logger.Info("Watchface started",
		zap.String("transport", settings.Transport.Kind),
		zap.String("clock", settings.Clock.Format))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func serveMetrics(ctx context.Context, addr string, collector *metrics.Collector, logger *zap.Logger) {
	if addr == "" {
		return
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collector)
	go func() {
		logger.Info("Serving metrics", zap.String("addr", addr))
		if err := metrics.Serve(ctx, addr, registry); err != nil {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
}
