package sipuni

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// List is the single ordered-sequence representation every vendor list
// response is normalized into. The vendor wraps lists in several shapes:
//
//	[...]                      bare array
//	{"data": [...]}            array under data
//	{"data": {"17": {...}}}    object keyed by id under data
//	{"items": [...]}           array under items
//	{"operators": [...]}       array under operators
//
// Each shape has its own decode function; keyed objects are ordered by key
// so the result is deterministic.
type List []json.RawMessage

type listEnvelope struct {
	Data      json.RawMessage `json:"data"`
	Items     json.RawMessage `json:"items"`
	Operators json.RawMessage `json:"operators"`
}

func (l *List) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}

	if b[0] == '[' {
		return l.decodeArray(b)
	}
	if b[0] != '{' {
		return fmt.Errorf("sipuni: unrecognized list response shape")
	}

	var env listEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	for _, inner := range []json.RawMessage{env.Data, env.Items, env.Operators} {
		inner = bytes.TrimSpace(inner)
		if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
			continue
		}
		switch inner[0] {
		case '[':
			return l.decodeArray(inner)
		case '{':
			return l.decodeKeyedObject(inner)
		}
	}

	// An envelope with no recognizable payload normalizes to an empty list
	// (the vendor answers {"success":true} to some mutating calls).
	*l = List{}
	return nil
}

func (l *List) decodeArray(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = List(items)
	return nil
}

func (l *List) decodeKeyedObject(b []byte) error {
	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(b, &keyed); err != nil {
		return err
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make(List, 0, len(keyed))
	for _, k := range keys {
		items = append(items, keyed[k])
	}
	*l = items
	return nil
}

// decodeAll unmarshals every element of a normalized list into T.
func decodeAll[T any](l List) ([]T, error) {
	out := make([]T, 0, len(l))
	for _, raw := range l {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("sipuni: decoding list element: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeCampaign unwraps the vendor's campaign envelopes:
// {"data":{"autocall":{...}}}, {"autocall":{...}}, {"data":{...}} or a bare
// campaign object.
func decodeCampaign(b []byte) (*Campaign, error) {
	var nested struct {
		Data struct {
			Autocall *Campaign `json:"autocall"`
		} `json:"data"`
		Autocall *Campaign `json:"autocall"`
	}
	if err := json.Unmarshal(b, &nested); err == nil {
		if nested.Data.Autocall != nil {
			return nested.Data.Autocall, nil
		}
		if nested.Autocall != nil {
			return nested.Autocall, nil
		}
	}

	var wrapped struct {
		Data *Campaign `json:"data"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && wrapped.Data != nil && (wrapped.Data.ID != "" || wrapped.Data.Name != "") {
		return wrapped.Data, nil
	}

	var campaign Campaign
	if err := json.Unmarshal(b, &campaign); err != nil {
		return nil, fmt.Errorf("sipuni: unrecognized campaign response shape: %w", err)
	}
	return &campaign, nil
}

// decodeReport strips an optional {"data": ...} wrapper and unmarshals the
// report body.
func decodeReport(b []byte) (*Report, error) {
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil {
		inner := bytes.TrimSpace(wrapped.Data)
		if len(inner) > 0 && !bytes.Equal(inner, []byte("null")) && inner[0] == '{' {
			b = inner
		}
	}

	var report Report
	if err := json.Unmarshal(b, &report); err != nil {
		return nil, fmt.Errorf("sipuni: decoding report: %w", err)
	}
	return &report, nil
}
