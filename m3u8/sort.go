package m3u8

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// StreamField is a key EXT-X-STREAM-INF entries can be sorted by
type StreamField string

const (
	StreamBandwidth        StreamField = "bandwidth"
	StreamAverageBandwidth StreamField = "average-bandwidth"
	StreamCodecs           StreamField = "codecs"
	StreamResolution       StreamField = "resolution"
	StreamFrameRate        StreamField = "frame-rate"
	StreamVideoRange       StreamField = "video-range"
	StreamAudio            StreamField = "audio"
	StreamClosedCaptions   StreamField = "closed-captions"
	StreamURI              StreamField = "uri"
)

// MediaField is a key EXT-X-MEDIA entries can be sorted by
type MediaField string

const (
	MediaType       MediaField = "type"
	MediaGroupID    MediaField = "group-id"
	MediaName       MediaField = "name"
	MediaLanguage   MediaField = "language"
	MediaDefault    MediaField = "default"
	MediaAutoSelect MediaField = "auto-select"
	MediaChannels   MediaField = "channels"
	MediaURI        MediaField = "uri"
)

// IFrameField is a key EXT-X-I-FRAME-STREAM-INF entries can be sorted by
type IFrameField string

const (
	IFrameBandwidth  IFrameField = "bandwidth"
	IFrameCodecs     IFrameField = "codecs"
	IFrameResolution IFrameField = "resolution"
	IFrameVideoRange IFrameField = "video-range"
	IFrameURI        IFrameField = "uri"
)

// attribute names each field reads. The uri stream field is not an
// attribute and is handled by the extractor.
var (
	streamAttributes = map[StreamField]string{
		StreamBandwidth:        "BANDWIDTH",
		StreamAverageBandwidth: "AVERAGE-BANDWIDTH",
		StreamCodecs:           "CODECS",
		StreamResolution:       "RESOLUTION",
		StreamFrameRate:        "FRAME-RATE",
		StreamVideoRange:       "VIDEO-RANGE",
		StreamAudio:            "AUDIO",
		StreamClosedCaptions:   "CLOSED-CAPTIONS",
		StreamURI:              "",
	}

	mediaAttributes = map[MediaField]string{
		MediaType:       "TYPE",
		MediaGroupID:    "GROUP-ID",
		MediaName:       "NAME",
		MediaLanguage:   "LANGUAGE",
		MediaDefault:    "DEFAULT",
		MediaAutoSelect: "AUTOSELECT",
		MediaChannels:   "CHANNELS",
		MediaURI:        "URI",
	}

	iframeAttributes = map[IFrameField]string{
		IFrameBandwidth:  "BANDWIDTH",
		IFrameCodecs:     "CODECS",
		IFrameResolution: "RESOLUTION",
		IFrameVideoRange: "VIDEO-RANGE",
		IFrameURI:        "URI",
	}
)

// StreamFields returns every StreamField, in declaration order
func StreamFields() []StreamField {
	return []StreamField{
		StreamBandwidth, StreamAverageBandwidth, StreamCodecs, StreamResolution, StreamFrameRate,
		StreamVideoRange, StreamAudio, StreamClosedCaptions, StreamURI,
	}
}

// MediaFields returns every MediaField, in declaration order
func MediaFields() []MediaField {
	return []MediaField{
		MediaType, MediaGroupID, MediaName, MediaLanguage, MediaDefault, MediaAutoSelect, MediaChannels, MediaURI,
	}
}

// IFrameFields returns every IFrameField, in declaration order
func IFrameFields() []IFrameField {
	return []IFrameField{IFrameBandwidth, IFrameCodecs, IFrameResolution, IFrameVideoRange, IFrameURI}
}

// ParseStreamField returns the StreamField named s
func ParseStreamField(s string) (StreamField, error) {
	f := StreamField(strings.TrimSpace(s))
	if _, ok := streamAttributes[f]; !ok {
		return "", fmt.Errorf("%w %q for streams", ErrUnknownField, s)
	}
	return f, nil
}

// ParseMediaField returns the MediaField named s
func ParseMediaField(s string) (MediaField, error) {
	f := MediaField(strings.TrimSpace(s))
	if _, ok := mediaAttributes[f]; !ok {
		return "", fmt.Errorf("%w %q for media", ErrUnknownField, s)
	}
	return f, nil
}

// ParseIFrameField returns the IFrameField named s
func ParseIFrameField(s string) (IFrameField, error) {
	f := IFrameField(strings.TrimSpace(s))
	if _, ok := iframeAttributes[f]; !ok {
		return "", fmt.Errorf("%w %q for I-frame streams", ErrUnknownField, s)
	}
	return f, nil
}

// Extract returns the value f reads from v
func (f StreamField) Extract(v *Variant) (Value, bool) {
	if f == StreamURI {
		return Token(v.URI), v.URI != ""
	}
	name, ok := streamAttributes[f]
	if !ok {
		return nil, false
	}
	return v.Attributes.Get(name)
}

// Extract returns the value f reads from r
func (f MediaField) Extract(r *Rendition) (Value, bool) {
	name, ok := mediaAttributes[f]
	if !ok {
		return nil, false
	}
	return r.Attributes.Get(name)
}

// Extract returns the value f reads from v
func (f IFrameField) Extract(v *IVariant) (Value, bool) {
	name, ok := iframeAttributes[f]
	if !ok {
		return nil, false
	}
	return v.Attributes.Get(name)
}

// SortStreams orders the variants by primary, then by each secondary key.
// Entries that compare equal on every key keep their relative order.
func (m *MasterPlaylist) SortStreams(primary StreamField, secondary ...StreamField) {
	keys := make([]func(*Variant) (Value, bool), 0, len(secondary)+1)
	for _, f := range append([]StreamField{primary}, secondary...) {
		keys = append(keys, f.Extract)
	}
	sortEntries(m.Variants, keys)
}

// SortMedia orders the renditions by primary, then by each secondary key.
// Entries that compare equal on every key keep their relative order.
func (m *MasterPlaylist) SortMedia(primary MediaField, secondary ...MediaField) {
	keys := make([]func(*Rendition) (Value, bool), 0, len(secondary)+1)
	for _, f := range append([]MediaField{primary}, secondary...) {
		keys = append(keys, f.Extract)
	}
	sortEntries(m.Renditions, keys)
}

// SortIFrames orders the I-frame variants by primary, then by each secondary key.
// Entries that compare equal on every key keep their relative order.
func (m *MasterPlaylist) SortIFrames(primary IFrameField, secondary ...IFrameField) {
	keys := make([]func(*IVariant) (Value, bool), 0, len(secondary)+1)
	for _, f := range append([]IFrameField{primary}, secondary...) {
		keys = append(keys, f.Extract)
	}
	sortEntries(m.IVariants, keys)
}

func sortEntries[E any](entries []E, keys []func(E) (Value, bool)) {
	slices.SortStableFunc(entries, func(a, b E) int {
		for _, key := range keys {
			va, oka := key(a)
			vb, okb := key(b)
			if c := compareOptional(va, oka, vb, okb); c != 0 {
				return c
			}
		}
		return 0
	})
}

// compareOptional puts missing values after present ones
func compareOptional(a Value, aok bool, b Value, bok bool) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	return Compare(a, b)
}

// Compare orders two values ascending. Numbers compare by magnitude, with a
// resolution's magnitude being its area; strings and tokens compare byte-wise.
// When a and b are not of the same category numbers come first.
func Compare(a, b Value) int {
	if ai, ok := a.(Integer); ok {
		if c, ok := compareInteger(int64(ai), b); ok {
			return c
		}
	}
	if bi, ok := b.(Integer); ok {
		if c, ok := compareInteger(int64(bi), a); ok {
			return -c
		}
	}
	if ar, ok := a.(Resolution); ok {
		if br, ok := b.(Resolution); ok {
			return cmp.Compare(ar.Area(), br.Area())
		}
	}

	an, anum := magnitude(a)
	bn, bnum := magnitude(b)
	switch {
	case anum && bnum:
		return cmp.Compare(an, bn)
	case anum:
		return -1
	case bnum:
		return 1
	}
	return strings.Compare(stringValue(a), stringValue(b))
}

// compareInteger compares i with a numeric v without going through float64,
// so integers above 2^53 keep their order
func compareInteger(i int64, v Value) (int, bool) {
	switch v := v.(type) {
	case Integer:
		return cmp.Compare(i, int64(v)), true
	case Resolution:
		if i < 0 {
			return -1, true
		}
		return cmp.Compare(uint64(i), v.Area()), true
	case Float:
		switch {
		case v.Value >= 0x1p63:
			return -1, true
		case v.Value < -0x1p63:
			return 1, true
		}
		floor := math.Floor(v.Value)
		if c := cmp.Compare(i, int64(floor)); c != 0 {
			return c, true
		}
		if floor == v.Value {
			return 0, true
		}
		return -1, true
	}
	return 0, false
}

func magnitude(v Value) (float64, bool) {
	switch v := v.(type) {
	case Integer:
		return float64(v), true
	case Float:
		return v.Value, true
	case Resolution:
		return float64(v.Area()), true
	}
	return 0, false
}
