package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is an optional scalar field of a bula. The companion service is loose
// about types, so any JSON value is accepted and kept in a printable form.
type Text struct {
	value string
	set   bool
}

// NewText returns a Text holding s.
func NewText(s string) Text {
	return Text{value: s, set: true}
}

// Get returns the value and whether the field was present.
func (t Text) Get() (string, bool) {
	return t.value, t.set
}

// Or returns the value, or fallback when the field was absent.
func (t Text) Or(fallback string) string {
	if !t.set {
		return fallback
	}
	return t.value
}

func (t *Text) UnmarshalJSON(data []byte) error {
	value, ok, err := scalarText(data)
	if err != nil {
		return err
	}
	t.value, t.set = value, ok
	return nil
}

// TextList is a list field of a bula. When the service sends a single value
// instead of a list it is kept in Raw.
type TextList struct {
	Items []string
	Raw   string
}

// NewTextList returns a list holding items.
func NewTextList(items ...string) TextList {
	return TextList{Items: items}
}

func (l *TextList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	l.Items, l.Raw = nil, ""

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var elements []json.RawMessage
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return err
		}
		for _, element := range elements {
			value, ok, err := scalarText(element)
			if err != nil {
				return err
			}
			if ok {
				l.Items = append(l.Items, value)
			}
		}
		return nil
	}

	value, _, err := scalarText(trimmed)
	if err != nil {
		return err
	}
	l.Raw = value
	return nil
}

// scalarText renders an arbitrary JSON value as text. Strings are kept
// verbatim, arrays are joined with ", ", objects are compacted.
func scalarText(data []byte) (string, bool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false, nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	case '[':
		var elements []json.RawMessage
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return "", false, err
		}
		parts := make([]string, 0, len(elements))
		for _, element := range elements {
			value, ok, err := scalarText(element)
			if err != nil {
				return "", false, err
			}
			if ok {
				parts = append(parts, value)
			}
		}
		return strings.Join(parts, ", "), true, nil
	case '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", false, err
		}
		return buf.String(), true, nil
	default:
		if !json.Valid(trimmed) {
			return "", false, fmt.Errorf("invalid JSON value %q", trimmed)
		}
		return string(trimmed), true, nil
	}
}

// decodeOrderedObject walks a JSON object in document order.
func decodeOrderedObject(data []byte, fn func(key string, value json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode value of %q: %w", key, err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}
