package econnect

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jmehdipour/econnect-gateway/internal/soap"
)

// CallInfo describes one finished gateway call. It never carries
// credentials or file payloads.
type CallInfo struct {
	ID        string
	Operation string
	Mode      string
	Endpoint  string
	Error     int
	Kind      ErrorKind
	Message   string // fault text on failure, short result summary on success
	StartedAt time.Time
	Duration  time.Duration
}

// Observer is notified after every call. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	Observe(CallInfo)
}

type ObserverFunc func(CallInfo)

func (f ObserverFunc) Observe(info CallInfo) { f(info) }

const summaryLimit = 128

func summarize(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		if len(r) <= summaryLimit {
			return r
		}
		n := summaryLimit
		for n > 0 && !utf8.RuneStart(r[n]) {
			n--
		}
		return r[:n]
	case soap.Object:
		return fmt.Sprintf("object(%d fields)", len(r))
	case []any:
		return fmt.Sprintf("list(%d items)", len(r))
	default:
		return fmt.Sprintf("%T", v)
	}
}
