package hlssort

import (
	"bytes"
	"context"
	"fmt"

	"github.com/turtletowerz/hlssort/config"
	"github.com/turtletowerz/hlssort/logger"
	"github.com/turtletowerz/hlssort/m3u8"
	"github.com/turtletowerz/hlssort/storage"
)

// Sorter is the struct which contains the sort order for
// each entry kind and the storage playlists are read from
// and written to
type Sorter struct {
	store   storage.Opener
	streams []m3u8.StreamField
	media   []m3u8.MediaField
	iframes []m3u8.IFrameField
}

// New creates a Sorter that orders streams and I-frame streams by
// bandwidth and media by group-id until another order is set
func New(store storage.Opener) *Sorter {
	s := &Sorter{store: store}
	s.SetStreamOrder(config.DefaultStreamField, config.DefaultStreamField)
	s.SetMediaOrder(config.DefaultMediaField, config.DefaultMediaField)
	s.SetIFrameOrder(config.DefaultIFrameField, config.DefaultIFrameField)
	return s
}

// SetStreamOrder sorts EXT-X-STREAM-INF entries by primary, then by secondary
func (s *Sorter) SetStreamOrder(primary m3u8.StreamField, secondary ...m3u8.StreamField) {
	s.streams = append([]m3u8.StreamField{primary}, secondary...)
}

// SetMediaOrder sorts EXT-X-MEDIA entries by primary, then by secondary
func (s *Sorter) SetMediaOrder(primary m3u8.MediaField, secondary ...m3u8.MediaField) {
	s.media = append([]m3u8.MediaField{primary}, secondary...)
}

// SetIFrameOrder sorts EXT-X-I-FRAME-STREAM-INF entries by primary, then by secondary
func (s *Sorter) SetIFrameOrder(primary m3u8.IFrameField, secondary ...m3u8.IFrameField) {
	s.iframes = append([]m3u8.IFrameField{primary}, secondary...)
}

// ApplyConfig sets the order of every kind from conf. A kind without
// keys, or without a secondary key, falls back to its default field.
func (s *Sorter) ApplyConfig(conf config.SortConfig) error {
	stream, streamNext, err := config.StreamOrder(conf.Stream)
	if err != nil {
		return fmt.Errorf("stream order: %w", err)
	}
	media, mediaNext, err := config.MediaOrder(conf.Media)
	if err != nil {
		return fmt.Errorf("media order: %w", err)
	}
	iframe, iframeNext, err := config.IFrameOrder(conf.IFrame)
	if err != nil {
		return fmt.Errorf("I-frame order: %w", err)
	}

	s.SetStreamOrder(stream, streamNext)
	s.SetMediaOrder(media, mediaNext)
	s.SetIFrameOrder(iframe, iframeNext)
	return nil
}

// Sort reorders every kind of entry of playlist in place
func (s *Sorter) Sort(playlist *m3u8.MasterPlaylist) {
	playlist.SortStreams(s.streams[0], s.streams[1:]...)
	logger.Debugw("sorted streams", "by", s.streams, "count", len(playlist.Variants))

	playlist.SortMedia(s.media[0], s.media[1:]...)
	logger.Debugw("sorted media", "by", s.media, "count", len(playlist.Renditions))

	playlist.SortIFrames(s.iframes[0], s.iframes[1:]...)
	logger.Debugw("sorted I-frame streams", "by", s.iframes, "count", len(playlist.IVariants))
}

// Fetch reads and parses the master playlist at location
func (s *Sorter) Fetch(ctx context.Context, location string) (*m3u8.MasterPlaylist, error) {
	data, err := s.store.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	playlist, err := m3u8.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", location, err)
	}
	return playlist, nil
}

// Run fetches the playlist at input, sorts it and writes it to output.
// Nothing is written if any step fails.
func (s *Sorter) Run(ctx context.Context, input, output string) error {
	playlist, err := s.Fetch(ctx, input)
	if err != nil {
		return err
	}

	logger.Debugw("parsed playlist",
		"location", input,
		"variants", len(playlist.Variants),
		"renditions", len(playlist.Renditions),
		"iframes", len(playlist.IVariants),
	)
	s.Sort(playlist)

	data, err := playlist.Bytes()
	if err != nil {
		return fmt.Errorf("encoding playlist: %w", err)
	}

	if err = s.store.Store(ctx, output, data); err != nil {
		return err
	}
	logger.Infow("sorted playlist", "input", input, "output", output)
	return nil
}
