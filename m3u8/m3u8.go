package m3u8

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const bom = "\uFEFF"

// maxLineSize bounds a single playlist line
const maxLineSize = 1 << 20

// Decode reads a master playlist from reader. Any malformed entry
// rejects the whole playlist; no partial playlist is returned.
func Decode(reader io.Reader) (*MasterPlaylist, error) {
	var lines []string

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		text := scanner.Text()
		if len(lines) == 0 {
			text = strings.TrimPrefix(text, bom)
		}
		lines = append(lines, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}

	playlist, err := parseMasterPlaylist(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing master playlist: %w", err)
	}
	return playlist, nil
}

// Parse parses the text of a master playlist
func Parse(text string) (*MasterPlaylist, error) {
	return Decode(strings.NewReader(text))
}

// MustDecode implements Decode, but panics if an error occurs
func MustDecode(reader io.Reader) *MasterPlaylist {
	playlist, err := Decode(reader)
	if err != nil {
		panic(err)
	}
	return playlist
}

// MustParse implements Parse, but panics if an error occurs
func MustParse(text string) *MasterPlaylist {
	playlist, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return playlist
}
