package m3u8

import (
	"fmt"
	"strings"
)

// Tag prefixes of the entries a master playlist is made of
const (
	TagStreamInf       = "#EXT-X-STREAM-INF:"
	TagMedia           = "#EXT-X-MEDIA:"
	TagIFrameStreamInf = "#EXT-X-I-FRAME-STREAM-INF:"
)

// mediaTags only appear in media playlists. 4.3.3: "A Media Playlist tag
// MUST NOT appear in a Master Playlist."
var mediaTags = []string{
	"#EXTINF",
	"#EXT-X-TARGETDURATION",
	"#EXT-X-MEDIA-SEQUENCE",
	"#EXT-X-DISCONTINUITY-SEQUENCE",
	"#EXT-X-ENDLIST",
	"#EXT-X-PLAYLIST-TYPE",
	"#EXT-X-I-FRAMES-ONLY",
}

// Variant represents the EXT-X-STREAM-INF type
type Variant struct { // 4.3.4.2
	Attributes Attributes
	URI        string
}

// Bandwidth returns the BANDWIDTH attribute, or 0 if it is absent or not an integer
func (v *Variant) Bandwidth() int64 {
	if i, ok := get(&v.Attributes, "BANDWIDTH").(Integer); ok {
		return int64(i)
	}
	return 0
}

// Resolution returns the RESOLUTION attribute
func (v *Variant) Resolution() (Resolution, bool) {
	r, ok := get(&v.Attributes, "RESOLUTION").(Resolution)
	return r, ok
}

// IVariant represents the EXT-X-I-FRAME-STREAM-INF type
type IVariant struct { // 4.3.4.3
	Attributes Attributes
}

// URI returns the URI attribute, or an empty string if it is absent
func (v *IVariant) URI() string {
	return stringValue(get(&v.Attributes, "URI"))
}

// Rendition contains alternative renditions
// of the same content in the Master Playlist
type Rendition struct { // 4.3.4.1
	Attributes Attributes
}

// URI returns the URI attribute, or an empty string if it is absent
func (r *Rendition) URI() string {
	return stringValue(get(&r.Attributes, "URI"))
}

// kind identifies what a layout slot holds
type kind int

const (
	kindLine kind = iota
	kindVariant
	kindRendition
	kindIVariant
)

// line is one entry of the playlist layout. Lines that are not entries are
// kept verbatim in text; entry slots only record their kind, so sorting an
// entry slice moves entries between the slots of their kind.
type line struct {
	kind kind
	text string
}

// MasterPlaylist represents a Master Playlist M3U8 file
type MasterPlaylist struct { // 4.3.4
	Variants   []*Variant
	Renditions []*Rendition
	IVariants  []*IVariant

	layout []line
}

// Count returns the number of variant and I-frame streams
func (m *MasterPlaylist) Count() int {
	return len(m.Variants) + len(m.IVariants)
}

// OtherLines returns every line that is not part of an entry, in file order
func (m *MasterPlaylist) OtherLines() []string {
	var lines []string
	for _, l := range m.layout {
		if l.kind == kindLine {
			lines = append(lines, l.text)
		}
	}
	return lines
}

// parseState is the state of the master playlist parser. A stream tag
// leaves the parser waiting for the URI line that completes it.
type parseState int

const (
	stateIdle parseState = iota
	stateAwaitingURI
)

type parser struct {
	playlist *MasterPlaylist
	state    parseState
	pending  *Variant
	header   bool
	lineNum  int

	pendingLine int
	pendingText string
}

func parseMasterPlaylist(lines []string) (*MasterPlaylist, error) {
	p := &parser{playlist: new(MasterPlaylist)}
	for i, raw := range lines {
		p.lineNum = i + 1
		if err := p.parseLine(raw); err != nil {
			return nil, err
		}
	}

	if !p.header {
		return nil, &ParseError{Line: p.lineNum, Err: fmt.Errorf("%w: missing #EXTM3U header", ErrNotMasterPlaylist)}
	}
	if p.state == stateAwaitingURI {
		return nil, &ParseError{Line: p.pendingLine, Text: p.pendingText, Err: ErrDanglingStreamTag}
	}
	return p.playlist, nil
}

func (p *parser) fail(text string, err error) error {
	return &ParseError{Line: p.lineNum, Text: text, Err: err}
}

func (p *parser) parseLine(raw string) error {
	text := strings.TrimSpace(raw)

	if !p.header {
		if text == "" {
			return nil
		}
		if text != "#EXTM3U" {
			return p.fail(text, fmt.Errorf("%w: first line must be #EXTM3U", ErrNotMasterPlaylist))
		}
		p.header = true
		p.keep(text)
		return nil
	}

	if p.state == stateAwaitingURI {
		switch {
		case text == "":
			return nil
		case isTag(text):
			return &ParseError{Line: p.pendingLine, Text: p.pendingText, Err: ErrDanglingStreamTag}
		case strings.HasPrefix(text, "#"):
			p.keep(text)
			return nil
		}
		p.pending.URI = text
		p.playlist.Variants = append(p.playlist.Variants, p.pending)
		p.playlist.layout = append(p.playlist.layout, line{kind: kindVariant})
		p.pending, p.state = nil, stateIdle
		return nil
	}

	switch {
	case strings.HasPrefix(text, TagStreamInf):
		attrs, err := ParseAttributes(text[len(TagStreamInf):])
		if err != nil {
			return p.fail(text, fmt.Errorf("parsing variant: %w", err))
		}
		p.pending = &Variant{Attributes: attrs}
		p.pendingLine, p.pendingText = p.lineNum, text
		p.state = stateAwaitingURI
	case strings.HasPrefix(text, TagMedia):
		attrs, err := ParseAttributes(text[len(TagMedia):])
		if err != nil {
			return p.fail(text, fmt.Errorf("parsing rendition: %w", err))
		}
		p.playlist.Renditions = append(p.playlist.Renditions, &Rendition{Attributes: attrs})
		p.playlist.layout = append(p.playlist.layout, line{kind: kindRendition})
	case strings.HasPrefix(text, TagIFrameStreamInf):
		attrs, err := ParseAttributes(text[len(TagIFrameStreamInf):])
		if err != nil {
			return p.fail(text, fmt.Errorf("parsing I-frame variant: %w", err))
		}
		p.playlist.IVariants = append(p.playlist.IVariants, &IVariant{Attributes: attrs})
		p.playlist.layout = append(p.playlist.layout, line{kind: kindIVariant})
	case isMediaTag(text):
		return p.fail(text, fmt.Errorf("%w: found media playlist tag", ErrNotMasterPlaylist))
	default:
		p.keep(text)
	}
	return nil
}

func (p *parser) keep(text string) {
	p.playlist.layout = append(p.playlist.layout, line{kind: kindLine, text: text})
}

func isTag(text string) bool {
	return strings.HasPrefix(text, "#EXT")
}

func isMediaTag(text string) bool {
	for _, tag := range mediaTags {
		if text == tag || strings.HasPrefix(text, tag+":") {
			return true
		}
	}
	return false
}

func get(a *Attributes, name string) Value {
	v, _ := a.Get(name)
	return v
}

// stringValue returns the unquoted text of a string-like value
func stringValue(v Value) string {
	switch v := v.(type) {
	case QuotedString:
		return string(v)
	case nil:
		return ""
	default:
		return v.String()
	}
}
