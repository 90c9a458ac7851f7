package companion

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sumwatshade/watchface/cmd/weather"
	"github.com/sumwatshade/watchface/internal/appmsg"
	"github.com/sumwatshade/watchface/internal/transport"
)

func forecastServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("current"); got != "temperature_2m,weather_code" {
			t.Errorf("current = %q", got)
		}
		if got := r.URL.Query().Get("latitude"); got != "37.7749" {
			t.Errorf("latitude = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenMeteoCurrent(t *testing.T) {
	t.Run("parses current block", func(t *testing.T) {
		srv := forecastServer(t, `{"current":{"time":"2024-05-01T14:30","temperature_2m":20.6,"weather_code":3}}`, http.StatusOK)
		c, err := NewOpenMeteo(srv.URL, 37.7749, -122.4194).Current(context.Background())
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		if c.Degrees() != 21 || c.Summary != "Cloudy" || c.ObservedAt != "2024-05-01T14:30" {
			t.Fatalf("got %+v", c)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		srv := forecastServer(t, `{"current":{"temperature_2m":20.6}}`, http.StatusOK)
		if _, err := NewOpenMeteo(srv.URL, 37.7749, 0).Current(context.Background()); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("bad status", func(t *testing.T) {
		srv := forecastServer(t, `{}`, http.StatusBadGateway)
		if _, err := NewOpenMeteo(srv.URL, 37.7749, 0).Current(context.Background()); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestDegreesRounding(t *testing.T) {
	for in, want := range map[float64]int32{-0.4: 0, -3.5: -4, 12.49: 12, 1e12: 2147483647} {
		if got := (Conditions{TemperatureC: in}).Degrees(); got != want {
			t.Errorf("Degrees(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestSummary(t *testing.T) {
	if Summary(0) != "Clear" || Summary(63) != "Rain" || Summary(42) != "Code 42" {
		t.Fatal("unexpected summaries")
	}
}

type stubProvider struct {
	cond  Conditions
	err   error
	calls int
}

func (s *stubProvider) Current(context.Context) (Conditions, error) {
	s.calls++
	return s.cond, s.err
}

func TestRunAnswersRequests(t *testing.T) {
	watchEnd, companionEnd := transport.NewLoopback(4)
	watch := appmsg.Open(watchEnd, 0, 0)
	defer watch.Close()

	p := &stubProvider{cond: Conditions{TemperatureC: 21, Summary: "Cloudy"}}
	c := New(appmsg.Open(companionEnd, 0, 0), p, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	readReading := func() weather.Reading {
		t.Helper()
		rctx, rcancel := context.WithTimeout(context.Background(), time.Second)
		defer rcancel()
		d, err := watch.Receive(rctx)
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
		r, ok := weather.ParseReading(d)
		if !ok {
			t.Fatal("incomplete reading")
		}
		return r
	}

	// ready push
	if r := readReading(); r.String() != "21C, Cloudy" {
		t.Fatalf("ready reading = %q", r.String())
	}

	if err := watch.Send(context.Background(), weather.RequestDict()); err != nil {
		t.Fatalf("send request: %v", err)
	}
	if r := readReading(); r.Temperature != 21 {
		t.Fatalf("reply = %+v", r)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("companion did not stop")
	}
	if p.calls != 2 {
		t.Errorf("provider calls = %d, want 2", p.calls)
	}
}

func TestReplySkipsOnFetchError(t *testing.T) {
	watchEnd, companionEnd := transport.NewLoopback(1)
	defer watchEnd.Close()

	c := New(appmsg.Open(companionEnd, 0, 0), &stubProvider{err: errors.New("offline")}, nil, nil)
	c.Reply(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := watchEnd.Receive(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want nothing sent", err)
	}
}
