package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto Format = iota // resolved by Config.EventFormat
	FormatText
	FormatNDJSON
)

// ParseFormat accepts "auto", "text", "ndjson" and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent encodes ev as one line, newline included.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return eventJSON(ev)
	}
	return eventText(ev)
}

type jsonEvent struct {
	Time      string            `json:"time"`
	Seq       uint64            `json:"seq"`
	Kind      string            `json:"kind"`
	Scope     string            `json:"scope"`
	SpanID    uint64            `json:"span_id,omitempty"`
	ParentID  uint64            `json:"parent_id,omitempty"`
	Name      string            `json:"name"`
	Detail    string            `json:"detail,omitempty"`
	Failed    bool              `json:"failed,omitempty"`
	ElapsedUS int64             `json:"elapsed_us,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

func eventJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:      ev.Time.UTC().Format(time.RFC3339Nano),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		SpanID:    ev.SpanID,
		ParentID:  ev.ParentID,
		Name:      ev.Name,
		Detail:    ev.Detail,
		Failed:    ev.Failed,
		ElapsedUS: ev.Elapsed.Microseconds(),
		Extra:     ev.Extra,
	})
	if err != nil {
		// map[string]string and plain fields always marshal
		panic(err)
	}
	return append(data, '\n')
}

// eventText renders
//
//	[15:04:05.000000]   ← balance (note) {closed=1} 12µs
//
// indented two spaces per scope below the driver. Failed ends use ✗.
func eventText(ev *Event) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %s", ev.Time.Format("15:04:05.000000"), strings.Repeat("  ", ev.Scope.depth()))
	switch {
	case ev.Kind == KindSpanEnd && ev.Failed:
		b.WriteString("✗ ")
	case ev.Kind == KindSpanBegin:
		b.WriteString("→ ")
	case ev.Kind == KindSpanEnd:
		b.WriteString("← ")
	default:
		b.WriteString("• ")
	}
	b.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&b, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		b.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", k, ev.Extra[k])
		}
		b.WriteString("}")
	}
	if ev.Kind == KindSpanEnd {
		fmt.Fprintf(&b, " %s", ev.Elapsed.Round(time.Microsecond))
	}
	b.WriteByte('\n')
	return b.Bytes()
}
