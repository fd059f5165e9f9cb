package models

import (
	"bytes"
	"encoding/json"
)

// UnmarshalJSON decodes an action. Integral parameter numbers decode as int
// and the rest as float64, at any nesting depth.
func (a *Action) UnmarshalJSON(data []byte) error {
	type plain Action

	var decoded plain

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	err := decoder.Decode(&decoded)
	if err != nil {
		return err
	}

	decoded.Parameters = canonicalMap(decoded.Parameters)
	*a = Action(decoded)

	return nil
}

func canonicalMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = canonicalValue(value)
	}

	return out
}

func canonicalValue(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}

		f, err := v.Float64()
		if err != nil {
			return v.String()
		}

		return f
	case map[string]any:
		return canonicalMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = canonicalValue(item)
		}

		return out
	default:
		return value
	}
}
