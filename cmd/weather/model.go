package weather

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sumwatshade/watchface/internal/appmsg"
)

// Dictionary keys shared with the companion.
const (
	KeyTemperature uint32 = 0
	KeyConditions  uint32 = 1

	// KeyRequest is the only key of an outbound refresh request.
	KeyRequest uint32 = 0
)

// RefreshMinutes is the request cadence; a request goes out on every tick
// whose minute is a multiple of it.
const RefreshMinutes = 30

// InitialText is shown until the first complete reading arrives.
const InitialText = "Loading..."

// text bounds, in bytes, of the rendered reading
const (
	maxTemperatureLen = 7
	maxConditionsLen  = 31
	maxTextLen        = 31
)

// Reading is one temperature/conditions pair received from the companion.
type Reading struct {
	Temperature int32 // degrees Celsius
	Conditions  string
}

// String renders the reading as "{temp}C, {conditions}", clipped to the
// display buffer.
func (r Reading) String() string {
	temp := truncate(fmt.Sprintf("%dC", r.Temperature), maxTemperatureLen)
	cond := truncate(r.Conditions, maxConditionsLen)
	return truncate(temp+", "+cond, maxTextLen)
}

// truncate cuts s to at most n bytes. The cut backs off to the start of the
// rune it lands in; bytes before it are kept as they are, valid or not.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ParseReading extracts a reading from an inbound dictionary. Both keys must
// be present with the right types.
func ParseReading(d appmsg.Dict) (Reading, bool) {
	tempTuple, ok := d.Find(KeyTemperature)
	if !ok {
		return Reading{}, false
	}
	condTuple, ok := d.Find(KeyConditions)
	if !ok {
		return Reading{}, false
	}
	temp, ok := tempTuple.Int32()
	if !ok {
		return Reading{}, false
	}
	cond, ok := condTuple.CString()
	if !ok {
		return Reading{}, false
	}
	return Reading{Temperature: temp, Conditions: cond}, true
}

// Dict encodes the reading the way the companion sends it.
func (r Reading) Dict() appmsg.Dict {
	var d appmsg.Dict
	d.WriteInt32(KeyTemperature, r.Temperature)
	d.WriteCString(KeyConditions, r.Conditions)
	return d
}

// RequestDict is the outbound refresh trigger.
func RequestDict() appmsg.Dict {
	var d appmsg.Dict
	d.WriteUint8(KeyRequest, 0)
	return d
}

// ShouldRequest reports whether a tick at t triggers a refresh request.
func ShouldRequest(t time.Time) bool {
	return t.Minute()%RefreshMinutes == 0
}

// Phase tracks the current refresh cycle.
type Phase int

const (
	Idle Phase = iota
	RequestSent
	Updated
	Ignored
)

func (p Phase) String() string {
	switch p {
	case RequestSent:
		return "request_sent"
	case Updated:
		return "updated"
	case Ignored:
		return "ignored"
	}
	return "idle"
}
