// json.go — JSON encoding of commands and values.
//
// Commands marshal to {"name": ..., "params": [...]}. Values carry a type
// tag so every variant — including the radix recorded on integers and the
// insertion order of dict entries — survives a JSON round trip:
//
//	{"type":"int","value":255,"radix":"hex"}
//	{"type":"string","value":"hi"}
//	{"type":"dict","name":"pos","entries":[{"key":"x","value":{...}}]}
//
// Dict entries are an array, not an object, so order is preserved.
package koicore

import (
	"encoding/json"
	"fmt"
)

type jsonValue struct {
	Type string `json:"type"`
	// Value is a pointer-to-any so scalar zero values (0, false, "")
	// survive omitempty; composites omit it entirely.
	Value   *any        `json:"value,omitempty"`
	Radix   string      `json:"radix,omitempty"`
	Name    string      `json:"name,omitempty"`
	Items   []*Value    `json:"items,omitempty"`
	Entries []jsonEntry `json:"entries,omitempty"`
}

type jsonEntry struct {
	Key   string `json:"key"`
	Value *Value `json:"value"`
}

// MarshalJSON implements json.Marshaler.
func (v *Value) MarshalJSON() ([]byte, error) {
	jv := jsonValue{Type: v.kind.String()}
	scalar := func(x any) { jv.Value = &x }
	switch v.kind {
	case KindInt:
		scalar(v.num)
		if v.radix != RadixDecimal {
			jv.Radix = v.radix.String()
		}
	case KindFloat:
		scalar(v.fnum)
	case KindBool:
		scalar(v.boolv)
	case KindString, KindLiteral:
		scalar(v.str)
	case KindSingle:
		jv.Name = v.str
		jv.Items = v.items
	case KindList:
		jv.Name = v.str
		jv.Items = v.items
		if jv.Items == nil {
			jv.Items = []*Value{}
		}
	case KindDict:
		jv.Name = v.str
		jv.Entries = make([]jsonEntry, len(v.keys))
		for i, k := range v.keys {
			jv.Entries[i] = jsonEntry{Key: k, Value: v.items[i]}
		}
	}
	return json.Marshal(jv)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var jv struct {
		Type    string          `json:"type"`
		Value   json.RawMessage `json:"value"`
		Radix   string          `json:"radix"`
		Name    string          `json:"name"`
		Items   []*Value        `json:"items"`
		Entries []jsonEntry     `json:"entries"`
	}
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	switch jv.Type {
	case "int":
		var n int64
		if err := json.Unmarshal(jv.Value, &n); err != nil {
			return err
		}
		*v = Value{kind: KindInt, num: n, radix: radixFromName(jv.Radix)}
	case "float":
		var f float64
		if err := json.Unmarshal(jv.Value, &f); err != nil {
			return err
		}
		*v = Value{kind: KindFloat, fnum: f}
	case "bool":
		var b bool
		if err := json.Unmarshal(jv.Value, &b); err != nil {
			return err
		}
		*v = Value{kind: KindBool, boolv: b}
	case "string", "literal":
		var s string
		if jv.Value != nil {
			if err := json.Unmarshal(jv.Value, &s); err != nil {
				return err
			}
		}
		kind := KindString
		if jv.Type == "literal" {
			kind = KindLiteral
		}
		*v = Value{kind: kind, str: s}
	case "single":
		if len(jv.Items) != 1 {
			return fmt.Errorf("single %q must hold exactly one item", jv.Name)
		}
		*v = Value{kind: KindSingle, str: jv.Name, items: jv.Items}
	case "list":
		*v = Value{kind: KindList, str: jv.Name, items: jv.Items}
	case "dict":
		d := Value{kind: KindDict, str: jv.Name}
		for _, e := range jv.Entries {
			d.Set(e.Key, e.Value)
		}
		*v = d
	default:
		return fmt.Errorf("unknown value type %q", jv.Type)
	}
	return nil
}

func radixFromName(name string) Radix {
	switch name {
	case "hex":
		return RadixHex
	case "octal":
		return RadixOctal
	case "binary":
		return RadixBinary
	case "unknown":
		return RadixUnknown
	default:
		return RadixDecimal
	}
}

type jsonCommand struct {
	Name   string   `json:"name"`
	Params []*Value `json:"params"`
}

// MarshalJSON implements json.Marshaler.
func (c *Command) MarshalJSON() ([]byte, error) {
	params := c.params
	if params == nil {
		params = []*Value{}
	}
	return json.Marshal(jsonCommand{Name: c.name, Params: params})
}

// UnmarshalJSON implements json.Unmarshaler. Reserved names are accepted
// so special commands round-trip.
func (c *Command) UnmarshalJSON(data []byte) error {
	var jc jsonCommand
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}
	if jc.Name == "" {
		return fmt.Errorf("command name is empty")
	}
	c.name = jc.Name
	c.params = jc.Params
	return nil
}
