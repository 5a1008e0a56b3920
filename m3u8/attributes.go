package m3u8

import (
	"strings"
)

// Attributes is an attribute list. Names keep the order in which
// they were first set, so a parsed tag is written back the way it was read.
type Attributes struct {
	keys   []string
	values map[string]Value
}

// Get returns the value stored under name. Names are case-sensitive.
func (a *Attributes) Get(name string) (Value, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Set stores v under name. A name that is already present keeps its position.
func (a *Attributes) Set(name string, v Value) {
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	if _, exists := a.values[name]; !exists {
		a.keys = append(a.keys, name)
	}
	a.values[name] = v
}

// Len returns the number of attributes
func (a *Attributes) Len() int {
	return len(a.keys)
}

// Keys returns the attribute names in order
func (a *Attributes) Keys() []string {
	return append([]string(nil), a.keys...)
}

// String returns the attributes in attribute-list syntax
func (a *Attributes) String() string {
	var sb strings.Builder
	for i, k := range a.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(a.values[k].String())
	}
	return sb.String()
}

// ParseAttributes parses the text that follows a tag's colon into an
// attribute list. Commas inside quoted strings do not separate attributes.
func ParseAttributes(text string) (attrs Attributes, err error) { // 4.2
	if strings.TrimSpace(text) == "" {
		err = errMalformed("empty attribute list")
		return
	}

	segments, err := splitAttributes(text)
	if err != nil {
		return
	}

	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" && i == len(segments)-1 && i > 0 {
			break // trailing comma
		}

		name, raw, found := strings.Cut(seg, "=")
		if !found {
			err = errMalformed("attribute %q has no value", seg)
			return
		}

		name, raw = strings.TrimSpace(name), strings.TrimSpace(raw)
		switch {
		case name == "":
			err = errMalformed("attribute %q has no name", seg)
			return
		case raw == "":
			err = errMalformed("attribute %s has an empty value", name)
			return
		case strings.Contains(raw, `"`) && !isQuoted(raw):
			err = errMalformed("attribute %s has a stray quote", name)
			return
		}
		attrs.Set(name, ParseValue(raw))
	}
	return
}

// splitAttributes splits text on top-level commas
func splitAttributes(text string) ([]string, error) {
	var segments []string
	start, quoted := 0, false
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				segments = append(segments, text[start:i])
				start = i + 1
			}
		}
	}
	if quoted {
		return nil, errMalformed("unterminated quoted string")
	}
	return append(segments, text[start:]), nil
}

func isQuoted(raw string) bool {
	return len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' && strings.Count(raw, `"`) == 2
}
