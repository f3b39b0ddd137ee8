package events

import "encoding/json"

// Envelope is the wire form of an event: its name plus the payload.
type Envelope struct {
	Name Name            `json:"name"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode wraps evt in an Envelope. Payload-less events carry no data.
func Encode(evt Event) (Envelope, error) {
	env := Envelope{Name: evt.EventName()}
	if _, ok := evt.(Signal); ok {
		return env, nil
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return Envelope{}, err
	}
	if string(data) != "{}" {
		env.Data = data
	}
	return env, nil
}

// EncodeAll encodes a list of events, skipping any that fail to marshal.
func EncodeAll(evts []Event) []Envelope {
	out := make([]Envelope, 0, len(evts))
	for _, evt := range evts {
		env, err := Encode(evt)
		if err != nil {
			continue
		}
		out = append(out, env)
	}
	return out
}
