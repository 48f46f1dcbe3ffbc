package heirloom

import (
	"fmt"
	"strconv"

	"github.com/tendermint/tendermint/libs/common"
)

// Event is a structured notification about a state change. Events are
// returned with the DeliverResult and are the only audit trail of what
// happened.
type Event struct {
	// Type is the name of the event, for example "deadman_check_in".
	Type string
	// Attributes holds old/new values, timestamps and involved parties.
	Attributes common.KVPairs
}

// NewEvent returns an event of given type without any attributes.
func NewEvent(typ string) Event {
	return Event{Type: typ}
}

// With returns a copy of this event with a new attribute appended. Value is
// stored in its human readable representation.
func (e Event) With(key string, value interface{}) Event {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = fmt.Sprintf("%X", v)
	case UnixTime:
		raw = strconv.FormatInt(int64(v), 10)
	case UnixDuration:
		raw = strconv.FormatInt(int64(v), 10)
	case fmt.Stringer:
		raw = v.String()
	default:
		raw = fmt.Sprint(v)
	}
	attrs := make(common.KVPairs, len(e.Attributes), len(e.Attributes)+1)
	copy(attrs, e.Attributes)
	e.Attributes = append(attrs, common.KVPair{Key: []byte(key), Value: []byte(raw)})
	return e
}

// Attr returns the value of the attribute with given key, or an empty string.
func (e Event) Attr(key string) string {
	for _, a := range e.Attributes {
		if string(a.Key) == key {
			return string(a.Value)
		}
	}
	return ""
}

// EventTags flattens events into tendermint tags. Each attribute is prefixed
// with the event type. Every event also produces an "event" tag holding its
// type.
func EventTags(events []Event) common.KVPairs {
	if len(events) == 0 {
		return nil
	}
	var tags common.KVPairs
	for _, e := range events {
		tags = append(tags, common.KVPair{Key: []byte("event"), Value: []byte(e.Type)})
		for _, a := range e.Attributes {
			key := e.Type + "." + string(a.Key)
			tags = append(tags, common.KVPair{Key: []byte(key), Value: a.Value})
		}
	}
	return tags
}
