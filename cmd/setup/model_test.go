package setup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/sumwatshade/watchface/internal/config"
)

func defaults(t *testing.T) (*viper.Viper, config.Settings) {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v, "")
	s, err := config.Load(v)
	if err != nil {
		t.Fatal(err)
	}
	return v, s
}

func TestApplyAndSave(t *testing.T) {
	v, s := defaults(t)
	m := NewModel(s)
	m.clockStr = "12h"
	m.transportStr = config.TransportRedis
	m.redisStr = " cache:6379 "
	m.latStr = "48.85"
	m.lonStr = "2.35"

	if err := m.Apply(v); err != nil {
		t.Fatalf("apply: %v", err)
	}
	path := filepath.Join(t.TempDir(), "watchface.yaml")
	if err := Save(v, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "cache:6379") {
		t.Errorf("saved config missing redis addr:\n%s", b)
	}

	r := viper.New()
	r.SetConfigFile(path)
	if err := r.ReadInConfig(); err != nil {
		t.Fatalf("re-read: %v", err)
	}
	got, err := config.Load(r)
	if err != nil {
		t.Fatalf("load saved: %v", err)
	}
	if got.Clock.Format != "12h" || got.Transport.Kind != config.TransportRedis || got.Weather.Latitude != 48.85 {
		t.Errorf("saved settings = %+v", got)
	}
}

func TestApplyRejectsBadCoordinates(t *testing.T) {
	v, s := defaults(t)
	m := NewModel(s)
	m.latStr = "north"
	if err := m.Apply(v); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidators(t *testing.T) {
	lat := coordinate(90)
	if lat("45.5") != nil || lat("-90") != nil {
		t.Error("valid latitude rejected")
	}
	if lat("90.1") == nil || lat("x") == nil {
		t.Error("invalid latitude accepted")
	}
	if notEmpty("  ") == nil || notEmpty("wrist") != nil {
		t.Error("notEmpty misbehaves")
	}
}
