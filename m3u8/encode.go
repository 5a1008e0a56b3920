package m3u8

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Encode writes the playlist to w. Lines that are not entries are written
// where they were read; each entry slot is filled with the next entry of
// its kind, so a sorted slice is written in its new order. Entries added
// after parsing are written at the end.
func (m *MasterPlaylist) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var v, r, iv int

	for _, l := range m.layout {
		var err error
		switch l.kind {
		case kindLine:
			_, err = fmt.Fprintln(bw, l.text)
		case kindVariant:
			if v < len(m.Variants) {
				err = m.Variants[v].encode(bw)
				v++
			}
		case kindRendition:
			if r < len(m.Renditions) {
				err = m.Renditions[r].encode(bw)
				r++
			}
		case kindIVariant:
			if iv < len(m.IVariants) {
				err = m.IVariants[iv].encode(bw)
				iv++
			}
		}
		if err != nil {
			return err
		}
	}

	if len(m.layout) == 0 {
		if _, err := fmt.Fprintln(bw, "#EXTM3U"); err != nil {
			return err
		}
	}

	for ; r < len(m.Renditions); r++ {
		if err := m.Renditions[r].encode(bw); err != nil {
			return err
		}
	}
	for ; v < len(m.Variants); v++ {
		if err := m.Variants[v].encode(bw); err != nil {
			return err
		}
	}
	for ; iv < len(m.IVariants); iv++ {
		if err := m.IVariants[iv].encode(bw); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Bytes returns the encoded playlist
func (m *MasterPlaylist) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the encoded playlist, or an empty string if it cannot be encoded
func (m *MasterPlaylist) String() string {
	b, err := m.Bytes()
	if err != nil {
		return ""
	}
	return string(b)
}

func (v *Variant) encode(w io.Writer) error {
	if v.URI == "" {
		return fmt.Errorf("%w: variant has no uri", ErrSerialization)
	}
	if err := encodeTag(w, TagStreamInf, &v.Attributes); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, v.URI)
	return err
}

func (r *Rendition) encode(w io.Writer) error {
	return encodeTag(w, TagMedia, &r.Attributes)
}

func (v *IVariant) encode(w io.Writer) error {
	return encodeTag(w, TagIFrameStreamInf, &v.Attributes)
}

func encodeTag(w io.Writer, tag string, attrs *Attributes) error {
	if attrs.Len() == 0 {
		return fmt.Errorf("%w: %s has no attributes", ErrSerialization, strings.TrimSuffix(tag, ":"))
	}
	_, err := fmt.Fprintln(w, tag+attrs.String())
	return err
}
