package appmsg

import (
	"context"
	"errors"
	"fmt"

	"github.com/sumwatshade/watchface/internal/transport"
)

// Result is the outcome reason reported for failed sends and dropped
// messages.
type Result int

const (
	OK Result = iota
	SendTimeout
	SendRejected
	NotConnected
	BufferOverflow
	Busy
	InvalidArgs
	Closed
	InternalError
)

var resultNames = map[Result]string{
	OK:             "ok",
	SendTimeout:    "send_timeout",
	SendRejected:   "send_rejected",
	NotConnected:   "not_connected",
	BufferOverflow: "buffer_overflow",
	Busy:           "busy",
	InvalidArgs:    "invalid_args",
	Closed:         "closed",
	InternalError:  "internal_error",
}

func (r Result) String() string {
	if s, ok := resultNames[r]; ok {
		return s
	}
	return fmt.Sprintf("result(%d)", int(r))
}

// ErrBufferOverflow is returned when a dictionary does not fit the buffer
// negotiated when the messenger was opened.
var ErrBufferOverflow = errors.New("appmsg: buffer overflow")

// ErrEmptyDict is returned when sending a dictionary with no tuples.
var ErrEmptyDict = errors.New("appmsg: empty dictionary")

// resultOf classifies an error from the codec or the transport.
func resultOf(err error) Result {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, ErrBufferOverflow):
		return BufferOverflow
	case errors.Is(err, ErrEmptyDict), errors.Is(err, ErrTruncated):
		return InvalidArgs
	case errors.Is(err, context.DeadlineExceeded):
		return SendTimeout
	case errors.Is(err, transport.ErrClosed):
		return Closed
	case errors.Is(err, transport.ErrNotConnected):
		return NotConnected
	case errors.Is(err, transport.ErrBusy):
		return Busy
	}
	return InternalError
}
