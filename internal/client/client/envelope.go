package client

import (
	"bytes"
	"encoding/json"
)

// Envelope is the body shape of every API response. Code 0 means success.
type Envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

var jsonNull = []byte("null")

// hasData reports whether the envelope carries a non-null payload.
func (e *Envelope) hasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, jsonNull)
}

// decodeEnvelope parses b. ok is false when b is not a JSON object carrying a
// code, which happens with proxies and load balancers answering in HTML. Msg
// is still filled in when the object has one.
func decodeEnvelope(b []byte) (env Envelope, ok bool) {
	var wire struct {
		Code *int            `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return Envelope{}, false
	}
	env = Envelope{Msg: wire.Msg, Data: wire.Data}
	if wire.Code == nil {
		return env, false
	}
	env.Code = *wire.Code
	return env, true
}
