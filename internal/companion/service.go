package companion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Conditions is the current weather at the configured location.
type Conditions struct {
	TemperatureC float64
	Code         int
	Summary      string
	ObservedAt   string
}

// Provider fetches current conditions.
type Provider interface {
	Current(ctx context.Context) (Conditions, error)
}

var _ Provider = (*openMeteo)(nil)

const DefaultBaseURL = "https://api.open-meteo.com"

type openMeteo struct {
	baseURL   string
	latitude  float64
	longitude float64
	client    *http.Client
}

// NewOpenMeteo returns a provider backed by the Open-Meteo forecast API. An
// empty baseURL uses the public endpoint.
func NewOpenMeteo(baseURL string, latitude, longitude float64) Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &openMeteo{
		baseURL:   baseURL,
		latitude:  latitude,
		longitude: longitude,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Current retrieves the temperature and WMO weather code for "now".
func (p *openMeteo) Current(ctx context.Context) (Conditions, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(p.latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(p.longitude, 'f', 4, 64))
	q.Set("current", "temperature_2m,weather_code")
	q.Set("temperature_unit", "celsius")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return Conditions{}, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return Conditions{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Conditions{}, errors.New("unexpected status code: " + resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Conditions{}, err
	}

	var parsed struct {
		Current *struct {
			Time        string   `json:"time"`
			Temperature *float64 `json:"temperature_2m"`
			WeatherCode *int     `json:"weather_code"`
		} `json:"current"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Conditions{}, err
	}
	if parsed.Current == nil || parsed.Current.Temperature == nil || parsed.Current.WeatherCode == nil {
		return Conditions{}, errors.New("response missing current conditions")
	}

	code := *parsed.Current.WeatherCode
	return Conditions{
		TemperatureC: *parsed.Current.Temperature,
		Code:         code,
		Summary:      Summary(code),
		ObservedAt:   parsed.Current.Time,
	}, nil
}

// Degrees rounds the temperature to whole degrees, clamped to int32.
func (c Conditions) Degrees() int32 {
	v := math.Round(c.TemperatureC)
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}

// Summary maps a WMO weather interpretation code to a short label.
func Summary(code int) string {
	switch code {
	case 0:
		return "Clear"
	case 1:
		return "Mostly Clear"
	case 2:
		return "Partly Cloudy"
	case 3:
		return "Cloudy"
	case 45, 48:
		return "Fog"
	case 51, 53, 55:
		return "Drizzle"
	case 56, 57:
		return "Freezing Drizzle"
	case 61, 63, 65:
		return "Rain"
	case 66, 67:
		return "Freezing Rain"
	case 71, 73, 75:
		return "Snow"
	case 77:
		return "Snow Grains"
	case 80, 81, 82:
		return "Showers"
	case 85, 86:
		return "Snow Showers"
	case 95:
		return "Thunderstorm"
	case 96, 99:
		return "Hail"
	}
	return fmt.Sprintf("Code %d", code)
}
