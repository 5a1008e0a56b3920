package m3u8

import (
	"strconv"
	"strings"
)

// Value is the right-hand side of a NAME=VALUE pair in an attribute list.
// It is implemented by Integer, Float, QuotedString, Token and Resolution
// and by nothing else.
type Value interface {
	// String returns the value as it is written in an attribute list
	String() string
	value()
}

// Integer is a decimal-integer
type Integer int64

// Float is a decimal-floating-point (or an integer that does not fit the
// canonical int64 form). Text holds the original spelling so it can be
// written back unchanged.
type Float struct {
	Value float64
	Text  string
}

// QuotedString is a quoted-string, stored without the surrounding quotes
type QuotedString string

// Token is an unquoted value that is not numeric, such as an
// enumerated-string (TYPE=AUDIO) or a hexadecimal-sequence
type Token string

// Resolution is a decimal-resolution
type Resolution struct { // 4.2
	Width  uint32
	Height uint32
}

func (Integer) value()      {}
func (Float) value()        {}
func (QuotedString) value() {}
func (Token) value()        {}
func (Resolution) value()   {}

func (i Integer) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (f Float) String() string {
	if f.Text != "" {
		return f.Text
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

func (s QuotedString) String() string {
	return `"` + string(s) + `"`
}

func (t Token) String() string {
	return string(t)
}

func (r Resolution) String() string {
	return strconv.FormatUint(uint64(r.Width), 10) + "x" + strconv.FormatUint(uint64(r.Height), 10)
}

// Area returns width * height, the magnitude used when ordering resolutions
func (r Resolution) Area() uint64 {
	return uint64(r.Width) * uint64(r.Height)
}

// ParseValue classifies raw by its surface syntax. raw must already be
// trimmed; quoted strings are expected with their quotes.
func ParseValue(raw string) Value {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return QuotedString(raw[1 : len(raw)-1])
	}

	if res, ok := parseResolution(raw); ok {
		return res
	}

	if isDecimal(raw) {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil && strconv.FormatInt(i, 10) == raw {
			return Integer(i)
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return Float{Value: f, Text: raw}
		}
	}
	return Token(raw)
}

// parseResolution only accepts the canonical spelling, so that a
// Resolution always renders back to raw
func parseResolution(raw string) (Resolution, bool) {
	w, h, found := strings.Cut(raw, "x")
	if !found || !isCanonical(w) || !isCanonical(h) {
		return Resolution{}, false
	}

	width, err := strconv.ParseUint(w, 10, 32)
	if err != nil {
		return Resolution{}, false
	}
	height, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return Resolution{}, false
	}
	return Resolution{Width: uint32(width), Height: uint32(height)}, true
}

// isDecimal reports whether s is an optionally signed run of digits
// with at most one decimal point
func isDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	whole, frac, dot := strings.Cut(s, ".")
	if !isDigits(whole) {
		return false
	}
	return !dot || isDigits(frac)
}

// isCanonical reports whether s is a run of digits without leading zeros
func isCanonical(s string) bool {
	return isDigits(s) && (s == "0" || s[0] != '0')
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
