package statuspage

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Webhook payload keys
const (
	keyComponentUpdate = "component_update"
	keyComponent       = "component"
	keyIncident        = "incident"
)

// Payload is a classified webhook delivery.
type Payload struct {
	Kind Kind

	ComponentUpdate ComponentUpdate
	Component       *Component
	Incident        Incident

	// Reason is set for KindUnknown
	Reason string
}

// Classify decodes a webhook body. It never fails: malformed JSON and
// unrecognised shapes come back as KindUnknown with a Reason.
// component_update takes precedence over incident when both are present.
func Classify(body []byte) Payload {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return unknown(fmt.Sprintf("%s: %v", ErrPayloadDecode, err))
	}

	if raw, ok := fields[keyComponentUpdate]; ok {
		p := Payload{Kind: KindComponent}
		if err := decodeOptional(raw, &p.ComponentUpdate); err != nil {
			return unknown(fmt.Sprintf("%s %s: %v", ErrPayloadField, keyComponentUpdate, err))
		}
		if rawComponent, ok := fields[keyComponent]; ok {
			var c Component
			if err := decodeOptional(rawComponent, &c); err != nil {
				return unknown(fmt.Sprintf("%s %s: %v", ErrPayloadField, keyComponent, err))
			}
			p.Component = &c
		}
		return p
	}

	if raw, ok := fields[keyIncident]; ok {
		p := Payload{Kind: KindIncident}
		if err := decodeOptional(raw, &p.Incident); err != nil {
			return unknown(fmt.Sprintf("%s %s: %v", ErrPayloadField, keyIncident, err))
		}
		return p
	}

	return unknown(ErrPayloadShape)
}

// Normalize returns the event for a recognised payload; ok is false for
// KindUnknown.
func (p Payload) Normalize() (NormalizedEvent, bool) {
	switch p.Kind {
	case KindComponent:
		return NormalizeComponentUpdate(p.ComponentUpdate, p.Component), true
	case KindIncident:
		return NormalizeIncident(p.Incident), true
	default:
		return NormalizedEvent{}, false
	}
}

// DedupKey is the identifier a webhook dedup store would track: the
// incident ID, or the component update ID prefixed to keep the two
// namespaces apart. Empty when the payload carries no ID.
func (p Payload) DedupKey() string {
	switch p.Kind {
	case KindIncident:
		return p.Incident.ID
	case KindComponent:
		if p.ComponentUpdate.ID == "" {
			return ""
		}
		return "component_update:" + p.ComponentUpdate.ID
	default:
		return ""
	}
}

// decodeOptional treats a JSON null as an empty object.
func decodeOptional(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func unknown(reason string) Payload {
	return Payload{Kind: KindUnknown, Reason: reason}
}
