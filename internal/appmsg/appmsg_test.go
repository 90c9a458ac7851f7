package appmsg

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sumwatshade/watchface/internal/transport"
)

func TestDictRoundTrip(t *testing.T) {
	var d Dict
	d.WriteInt32(0, -7)
	d.WriteCString(1, "Rain")
	d.WriteUint8(2, 200)

	data, err := d.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(data) != d.Size() {
		t.Fatalf("encoded %d bytes, Size() says %d", len(data), d.Size())
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	temp, _ := got.Find(0)
	if v, ok := temp.Int32(); !ok || v != -7 {
		t.Errorf("temperature = %d, %v", v, ok)
	}
	cond, _ := got.Find(1)
	if s, ok := cond.CString(); !ok || s != "Rain" {
		t.Errorf("conditions = %q, %v", s, ok)
	}
	u, _ := got.Find(2)
	if v, ok := u.Int32(); !ok || v != 200 {
		t.Errorf("uint8 = %d, %v", v, ok)
	}
}

func TestDictWriteReplacesKey(t *testing.T) {
	var d Dict
	d.WriteUint8(0, 1)
	d.WriteUint8(0, 2)
	if d.Len() != 1 {
		t.Fatalf("len = %d, want 1", d.Len())
	}
	tp, _ := d.Find(0)
	if v, _ := tp.Int32(); v != 2 {
		t.Fatalf("value = %d, want 2", v)
	}
}

func TestTupleInt32Widths(t *testing.T) {
	tests := []struct {
		name string
		tup  Tuple
		want int32
		ok   bool
	}{
		{"int8", Tuple{Type: TypeInt, Value: []byte{0xff}}, -1, true},
		{"uint8", Tuple{Type: TypeUint, Value: []byte{0xff}}, 255, true},
		{"int16", Tuple{Type: TypeInt, Value: []byte{0xfe, 0xff}}, -2, true},
		{"uint16", Tuple{Type: TypeUint, Value: []byte{0xfe, 0xff}}, 65534, true},
		{"int32", Tuple{Type: TypeInt, Value: []byte{21, 0, 0, 0}}, 21, true},
		{"odd width", Tuple{Type: TypeInt, Value: []byte{1, 2, 3}}, 0, false},
		{"string", Tuple{Type: TypeCString, Value: []byte("21\x00")}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.tup.Int32()
			if got != tt.want || ok != tt.ok {
				t.Errorf("got %d, %v; want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDecodeRejectsTruncated(t *testing.T) {
	var d Dict
	d.WriteCString(1, "Cloudy")
	data, _ := d.Encode()

	for _, n := range []int{0, 3, len(data) - 1} {
		if _, err := Decode(data[:n]); !errors.Is(err, ErrTruncated) {
			t.Errorf("Decode(%d bytes): got %v, want ErrTruncated", n, err)
		}
	}
}

func TestMessengerBuffers(t *testing.T) {
	ctx := context.Background()

	t.Run("outbox overflow fails before sending", func(t *testing.T) {
		watch, companion := transport.NewLoopback(1)
		defer watch.Close()
		m := Open(watch, 0, 16)

		var d Dict
		d.WriteCString(1, strings.Repeat("x", 32))
		msg := m.SendCmd(d)()
		failed, ok := msg.(OutboxFailedMsg)
		if !ok {
			t.Fatalf("got %T, want OutboxFailedMsg", msg)
		}
		if failed.Reason != BufferOverflow {
			t.Errorf("reason = %s, want buffer_overflow", failed.Reason)
		}

		tctx, cancel := context.WithTimeout(ctx, 0)
		defer cancel()
		if _, err := companion.Receive(tctx); err == nil {
			t.Error("companion received an oversized message")
		}
	})

	t.Run("oversized inbound is dropped", func(t *testing.T) {
		watch, companion := transport.NewLoopback(1)
		defer watch.Close()
		m := Open(watch, 16, 0)

		var d Dict
		d.WriteCString(1, strings.Repeat("y", 40))
		data, _ := d.Encode()
		_ = companion.Send(ctx, data)

		msg := m.ListenCmd()()
		dropped, ok := msg.(InboxDroppedMsg)
		if !ok {
			t.Fatalf("got %T, want InboxDroppedMsg", msg)
		}
		if dropped.Reason != BufferOverflow {
			t.Errorf("reason = %s, want buffer_overflow", dropped.Reason)
		}
	})

	t.Run("send and receive", func(t *testing.T) {
		watch, companion := transport.NewLoopback(1)
		defer watch.Close()
		m := Open(watch, 0, 0)
		peer := Open(companion, 0, 0)

		var req Dict
		req.WriteUint8(0, 0)
		if msg := m.SendCmd(req)(); msg == nil {
			t.Fatal("send produced no message")
		} else if _, ok := msg.(OutboxSentMsg); !ok {
			t.Fatalf("got %T, want OutboxSentMsg", msg)
		}
		got, err := peer.Receive(ctx)
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
		if _, ok := got.Find(0); !ok {
			t.Fatal("request key missing")
		}
	})

	t.Run("listen ends after close", func(t *testing.T) {
		watch, _ := transport.NewLoopback(1)
		m := Open(watch, 0, 0)
		m.Close()
		if msg := m.ListenCmd()(); msg != nil {
			t.Fatalf("got %T after close, want nil", msg)
		}
	})

	t.Run("empty dictionary is an invalid argument", func(t *testing.T) {
		watch, _ := transport.NewLoopback(1)
		defer watch.Close()
		m := Open(watch, 0, 0)
		failed, ok := m.SendCmd(Dict{})().(OutboxFailedMsg)
		if !ok {
			t.Fatal("empty dictionary was sent")
		}
		if failed.Reason != InvalidArgs || !errors.Is(failed.Err, ErrEmptyDict) {
			t.Errorf("reason = %s, err = %v; want invalid_args", failed.Reason, failed.Err)
		}
	})

	t.Run("send after close reports closed", func(t *testing.T) {
		watch, companion := transport.NewLoopback(1)
		m := Open(watch, 0, 0)
		companion.Close()

		var req Dict
		req.WriteUint8(0, 0)
		failed, ok := m.SendCmd(req)().(OutboxFailedMsg)
		if !ok || failed.Reason != Closed {
			t.Fatalf("got %+v, want closed failure", failed)
		}
	})
}
