package plan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FromJSON parses EXPLAIN (FORMAT JSON) output. PostgreSQL repeats the
// "Worker" key inside a node object once per worker, which is invalid
// under strict JSON semantics and which encoding/json.Unmarshal would
// silently collapse to the last occurrence. The plan is therefore
// consumed token by token and duplicate keys are deep-merged instead of
// overwritten.
//
// Lines surrounding the outermost bracketed block (psql headers, row
// counts) are dropped before decoding. A top-level array is unwrapped
// to its first element.
func FromJSON(source string) (Node, error) {
	dec := json.NewDecoder(strings.NewReader(trimToJSONBlock(source)))
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return nil, &ParseError{Msg: "invalid EXPLAIN JSON", Err: err}
	}

	if seq, ok := value.([]any); ok {
		if len(seq) == 0 {
			return nil, &ParseError{Msg: "empty EXPLAIN JSON"}
		}
		value = seq[0]
	}

	tree, ok := value.(Node)
	if !ok {
		return nil, &ParseError{Msg: fmt.Sprintf("unexpected EXPLAIN JSON root %T", value)}
	}
	return tree, nil
}

func trimToJSONBlock(source string) string {
	start, end, lines := jsonBlockBounds(source)
	if start < 0 || end < 0 {
		return source
	}
	return strings.Join(lines[start:end+1], "\n")
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFrom(dec, tok)
}

func decodeFrom(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t.String())
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String(), nil
		}
		return f, nil
	default:
		// string, bool or nil
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (Node, error) {
	obj := Node{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", keyTok)
		}

		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		if existing, dup := obj[key]; dup {
			obj[key] = mergeValues(existing, value)
		} else {
			obj[key] = value
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	seq := []any{}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		seq = append(seq, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return seq, nil
}

// mergeValues combines the two values of a duplicated key: mappings
// union key-wise and recurse, sequences concatenate, anything else is
// replaced by the later value.
func mergeValues(dst, src any) any {
	switch d := dst.(type) {
	case Node:
		s, ok := src.(Node)
		if !ok {
			return src
		}
		for k, v := range s {
			if cur, exists := d[k]; exists {
				d[k] = mergeValues(cur, v)
			} else {
				d[k] = v
			}
		}
		return d
	case []any:
		if s, ok := src.([]any); ok {
			return append(d, s...)
		}
	}
	return src
}
