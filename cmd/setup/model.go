package setup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/viper"
	"github.com/sumwatshade/watchface/internal/config"
)

// Options for the select fields.
var (
	ClockOptions     = []string{"24h", "12h"}
	TransportOptions = []string{config.TransportLoopback, config.TransportMQTT, config.TransportRedis}
)

// Model holds the form and the values it edits.
type Model struct {
	form *huh.Form

	clockStr     string
	transportStr string
	linkIDStr    string
	latStr       string
	lonStr       string
	brokerStr    string
	redisStr     string
}

// NewModel prefills the form from current settings.
func NewModel(s config.Settings) *Model {
	m := &Model{
		clockStr:     s.Clock.Format,
		transportStr: s.Transport.Kind,
		linkIDStr:    s.Transport.ID,
		latStr:       strconv.FormatFloat(s.Weather.Latitude, 'f', -1, 64),
		lonStr:       strconv.FormatFloat(s.Weather.Longitude, 'f', -1, 64),
		brokerStr:    s.MQTT.Broker,
		redisStr:     s.Redis.Addr,
	}
	m.buildForm()
	return m
}

func (m *Model) buildForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Clock").Options(selectOptions(ClockOptions)...).Value(&m.clockStr),
			huh.NewSelect[string]().Title("Companion link").Options(selectOptions(TransportOptions)...).Value(&m.transportStr),
			huh.NewInput().Title("Link id").Value(&m.linkIDStr).Validate(notEmpty),
		),
		huh.NewGroup(
			huh.NewInput().Title("Latitude").Value(&m.latStr).Validate(coordinate(90)),
			huh.NewInput().Title("Longitude").Value(&m.lonStr).Validate(coordinate(180)),
		),
		huh.NewGroup(
			huh.NewInput().Title("MQTT broker").Value(&m.brokerStr),
		).WithHideFunc(func() bool { return m.transportStr != config.TransportMQTT }),
		huh.NewGroup(
			huh.NewInput().Title("Redis address").Value(&m.redisStr),
		).WithHideFunc(func() bool { return m.transportStr != config.TransportRedis }),
	).WithShowHelp(false)
}

func selectOptions(vals []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(vals))
	for _, v := range vals {
		opts = append(opts, huh.NewOption(v, v))
	}
	return opts
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func coordinate(limit float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if v < -limit || v > limit {
			return fmt.Errorf("must be within ±%v", limit)
		}
		return nil
	}
}

// Run shows the form on the terminal.
func (m *Model) Run() error {
	return m.form.Run()
}

// Apply copies the edited values onto v.
func (m *Model) Apply(v *viper.Viper) error {
	lat, err := strconv.ParseFloat(strings.TrimSpace(m.latStr), 64)
	if err != nil {
		return fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(m.lonStr), 64)
	if err != nil {
		return fmt.Errorf("longitude: %w", err)
	}
	v.Set("clock.format", m.clockStr)
	v.Set("transport.kind", m.transportStr)
	v.Set("transport.id", strings.TrimSpace(m.linkIDStr))
	v.Set("weather.latitude", lat)
	v.Set("weather.longitude", lon)
	switch m.transportStr {
	case config.TransportMQTT:
		v.Set("mqtt.broker", strings.TrimSpace(m.brokerStr))
	case config.TransportRedis:
		v.Set("redis.addr", strings.TrimSpace(m.redisStr))
	}
	_, err = config.Load(v)
	return err
}

// Save writes the values to path as YAML.
func Save(v *viper.Viper, path string) error {
	v.SetConfigType("yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
