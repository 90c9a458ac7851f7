package weather

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sumwatshade/watchface/internal/appmsg"
)

type fakeChannel struct {
	sent    []appmsg.Dict
	listens int
}

func (f *fakeChannel) SendCmd(d appmsg.Dict) tea.Cmd {
	return func() tea.Msg {
		f.sent = append(f.sent, d)
		return appmsg.OutboxSentMsg{Dict: d}
	}
}

func (f *fakeChannel) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		f.listens++
		return nil
	}
}

func at(minute int) time.Time {
	return time.Date(2024, 5, 1, 14, minute, 0, 0, time.Local)
}

func TestOnTickCadence(t *testing.T) {
	tests := []struct {
		minute int
		sends  int
	}{
		{0, 1},
		{30, 1},
		{31, 0},
		{15, 0},
		{59, 0},
	}
	for _, tt := range tests {
		ch := &fakeChannel{}
		e := NewExchange(ch, nil, nil)
		if cmd := e.OnTick(at(tt.minute)); cmd != nil {
			cmd()
		}
		if len(ch.sent) != tt.sends {
			t.Errorf("minute %d: %d requests, want %d", tt.minute, len(ch.sent), tt.sends)
		}
	}
}

func TestRequestDict(t *testing.T) {
	d := RequestDict()
	if d.Len() != 1 {
		t.Fatalf("request has %d tuples, want 1", d.Len())
	}
	tp, ok := d.Find(KeyRequest)
	if !ok {
		t.Fatal("request key missing")
	}
	if v, _ := tp.Int32(); v != 0 {
		t.Fatalf("request value = %d, want 0", v)
	}
}

func TestReceive(t *testing.T) {
	t.Run("complete reading updates text", func(t *testing.T) {
		ch := &fakeChannel{}
		e := NewExchange(ch, nil, nil)
		changed, cmd := e.HandleUpdate(appmsg.InboxReceivedMsg{Dict: Reading{Temperature: 21, Conditions: "Cloudy"}.Dict()})
		if !changed {
			t.Fatal("expected change")
		}
		if e.Text() != "21C, Cloudy" {
			t.Fatalf("text = %q", e.Text())
		}
		if e.Phase() != Updated {
			t.Errorf("phase = %s, want updated", e.Phase())
		}
		if cmd == nil {
			t.Fatal("expected listen to be re-armed")
		}
		cmd()
		if ch.listens != 1 {
			t.Errorf("listens = %d, want 1", ch.listens)
		}
	})

	t.Run("invalid byte in conditions keeps the rest", func(t *testing.T) {
		e := NewExchange(&fakeChannel{}, nil, nil)
		r := Reading{Temperature: 5, Conditions: "\xff" + strings.Repeat("a", 40)}
		e.HandleUpdate(appmsg.InboxReceivedMsg{Dict: r.Dict()})
		if want := "5C, \xff" + strings.Repeat("a", 26); e.Text() != want {
			t.Fatalf("text = %q, want %q", e.Text(), want)
		}
	})

	t.Run("temperature only keeps previous text", func(t *testing.T) {
		e := NewExchange(&fakeChannel{}, nil, nil)
		e.HandleUpdate(appmsg.InboxReceivedMsg{Dict: Reading{Temperature: 18, Conditions: "Clear"}.Dict()})

		var partial appmsg.Dict
		partial.WriteInt32(KeyTemperature, 30)
		changed, _ := e.HandleUpdate(appmsg.InboxReceivedMsg{Dict: partial})
		if changed {
			t.Error("partial reading reported a change")
		}
		if e.Text() != "18C, Clear" {
			t.Fatalf("text = %q, want previous reading", e.Text())
		}
		if e.Phase() != Ignored {
			t.Errorf("phase = %s, want ignored", e.Phase())
		}
	})

	t.Run("partial before any reading keeps loading text", func(t *testing.T) {
		e := NewExchange(&fakeChannel{}, nil, nil)
		var partial appmsg.Dict
		partial.WriteCString(KeyConditions, "Snow")
		e.HandleUpdate(appmsg.InboxReceivedMsg{Dict: partial})
		if e.Text() != InitialText {
			t.Fatalf("text = %q, want %q", e.Text(), InitialText)
		}
	})

	t.Run("dropped message re-arms listen without change", func(t *testing.T) {
		ch := &fakeChannel{}
		e := NewExchange(ch, nil, nil)
		changed, cmd := e.HandleUpdate(appmsg.InboxDroppedMsg{Reason: appmsg.BufferOverflow, Err: errors.New("too big")})
		if changed || cmd == nil {
			t.Fatalf("changed=%v cmd=%v", changed, cmd)
		}
		if e.Text() != InitialText {
			t.Fatalf("text = %q", e.Text())
		}
	})

	t.Run("outbox results only log", func(t *testing.T) {
		e := NewExchange(&fakeChannel{}, nil, nil)
		for _, msg := range []tea.Msg{
			appmsg.OutboxSentMsg{},
			appmsg.OutboxFailedMsg{Reason: appmsg.NotConnected},
		} {
			if changed, cmd := e.HandleUpdate(msg); changed || cmd != nil {
				t.Errorf("%T: changed=%v cmd=%v", msg, changed, cmd)
			}
		}
	})
}

func TestReadingString(t *testing.T) {
	tests := []struct {
		name string
		r    Reading
		want string
	}{
		{"simple", Reading{21, "Cloudy"}, "21C, Cloudy"},
		{"negative", Reading{-4, "Snow"}, "-4C, Snow"},
		{"long temperature clipped", Reading{-2147483648, "Clear"}, "-214748, Clear"},
		{"long conditions clipped", Reading{5, strings.Repeat("a", 40)}, "5C, " + strings.Repeat("a", 27)},
		{"invalid byte kept", Reading{5, "\xff" + strings.Repeat("a", 40)}, "5C, \xff" + strings.Repeat("a", 26)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.String()
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if len(got) > maxTextLen {
				t.Errorf("len %d exceeds %d", len(got), maxTextLen)
			}
		})
	}
}

func TestTruncateKeepsRunes(t *testing.T) {
	got := truncate("ééé", 3)
	if got != "é" {
		t.Fatalf("got %q, want %q", got, "é")
	}
}
