package m3u8

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func variantURIs(m *MasterPlaylist) []string {
	uris := make([]string, 0, len(m.Variants))
	for _, v := range m.Variants {
		uris = append(uris, v.URI)
	}
	return uris
}

func TestSortStreamsByBandwidth(t *testing.T) {
	playlist := MustParse(`#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=3000000
high.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=1000000
low.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2000000
mid.m3u8
`)

	playlist.SortStreams(StreamBandwidth)
	assert.Equal(t, []string{"low.m3u8", "mid.m3u8", "high.m3u8"}, variantURIs(playlist))

	assert.Equal(t, `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=1000000
low.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2000000
mid.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=3000000
high.m3u8
`, playlist.String())
}

func TestSortStreamsByResolutionArea(t *testing.T) {
	playlist := MustParse(`#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=1,RESOLUTION=1920x1080
a.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2,RESOLUTION=640x360
b.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=3,RESOLUTION=720x1280
c.m3u8
`)

	playlist.SortStreams(StreamResolution)
	assert.Equal(t, []string{"b.m3u8", "c.m3u8", "a.m3u8"}, variantURIs(playlist))
}

func TestSortStreamsMissingLast(t *testing.T) {
	playlist := MustParse(`#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=1
none-1.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2,AVERAGE-BANDWIDTH=500
with.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=3
none-2.m3u8
`)

	playlist.SortStreams(StreamAverageBandwidth)
	assert.Equal(t, []string{"with.m3u8", "none-1.m3u8", "none-2.m3u8"}, variantURIs(playlist))
}

func TestSortStreamsSecondaryKey(t *testing.T) {
	playlist := MustParse(`#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=2000,RESOLUTION=1280x720
b.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=1000,RESOLUTION=1280x720
a.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=500,RESOLUTION=640x360
c.m3u8
`)

	playlist.SortStreams(StreamResolution, StreamBandwidth)
	assert.Equal(t, []string{"c.m3u8", "a.m3u8", "b.m3u8"}, variantURIs(playlist))
}

func TestSortStreamsStableAndIdempotent(t *testing.T) {
	playlist := MustParse(`#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=1000,CODECS="b"
first.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=1000,CODECS="a"
second.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=500
third.m3u8
`)

	playlist.SortStreams(StreamBandwidth)
	want := []string{"third.m3u8", "first.m3u8", "second.m3u8"}
	assert.Equal(t, want, variantURIs(playlist))

	once := playlist.String()
	playlist.SortStreams(StreamBandwidth)
	assert.Equal(t, want, variantURIs(playlist))
	assert.Equal(t, once, playlist.String())
}

func TestSortStreamsByURI(t *testing.T) {
	playlist := MustParse(`#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=1
b/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2
a/index.m3u8
`)

	playlist.SortStreams(StreamURI)
	assert.Equal(t, []string{"a/index.m3u8", "b/index.m3u8"}, variantURIs(playlist))
}

func TestSortMedia(t *testing.T) {
	playlist := MustParse(`#EXTM3U
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="aud-hi",NAME="English",URI="hi/en.m3u8"
#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID="subs",NAME="English",URI="subs/en.m3u8"
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="aud-lo",NAME="French",URI="lo/fr.m3u8"
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="aud-lo",NAME="English",URI="lo/en.m3u8"
#EXT-X-STREAM-INF:BANDWIDTH=1,AUDIO="aud-lo"
v.m3u8
`)

	playlist.SortMedia(MediaGroupID, MediaName)

	var uris []string
	for _, r := range playlist.Renditions {
		uris = append(uris, r.URI())
	}
	assert.Equal(t, []string{"hi/en.m3u8", "lo/en.m3u8", "lo/fr.m3u8", "subs/en.m3u8"}, uris)
}

func TestSortIFrames(t *testing.T) {
	playlist := MustParse(`#EXTM3U
#EXT-X-I-FRAME-STREAM-INF:BANDWIDTH=300000,URI="c.m3u8"
#EXT-X-I-FRAME-STREAM-INF:BANDWIDTH=100000,URI="a.m3u8"
#EXT-X-I-FRAME-STREAM-INF:URI="none.m3u8"
#EXT-X-I-FRAME-STREAM-INF:BANDWIDTH=200000,URI="b.m3u8"
`)

	playlist.SortIFrames(IFrameBandwidth)

	var uris []string
	for _, v := range playlist.IVariants {
		uris = append(uris, v.URI())
	}
	assert.Equal(t, []string{"a.m3u8", "b.m3u8", "c.m3u8", "none.m3u8"}, uris)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"integers", Integer(5), Integer(10), -1},
		{"equal integers", Integer(7), Integer(7), 0},
		{"large integers", Integer(9007199254740993), Integer(9007199254740992), 1},
		{"integer and float", Integer(2), Float{Value: 2.5}, -1},
		{"integer above float", Integer(3), Float{Value: 2.5}, 1},
		{"negative integer and float", Integer(-1), Float{Value: -1.5}, 1},
		{"integer and integral float", Integer(2), Float{Value: 2, Text: "2.0"}, 0},
		{"large integer and float", Integer(9007199254740993), Float{Value: 9007199254740992}, 1},
		{"large integer and resolution", Integer(9007199254740993), Resolution{Width: 4194304, Height: 2147483648}, 1},
		{"negative integer and resolution", Integer(-1), Resolution{Width: 1, Height: 1}, -1},
		{"integer and huge float", Integer(math.MaxInt64), Float{Value: 1e300}, -1},
		{"floats", Float{Value: 29.97}, Float{Value: 23.976}, 1},
		{"resolutions", Resolution{Width: 1920, Height: 1080}, Resolution{Width: 3840, Height: 2160}, -1},
		{"same area", Resolution{Width: 1080, Height: 1920}, Resolution{Width: 1920, Height: 1080}, 0},
		{"strings", QuotedString("aac"), QuotedString("ac-3"), -1},
		{"tokens", Token("SDR"), Token("PQ"), 1},
		{"string and token", QuotedString("NONE"), Token("NONE"), 0},
		{"number before text", Integer(999), Token("A"), -1},
		{"text after number", QuotedString("1"), Float{Value: 2}, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Compare(test.a, test.b))
			assert.Equal(t, -test.want, Compare(test.b, test.a))
		})
	}
}

func TestCompareMixedNumbersTransitive(t *testing.T) {
	values := []Value{
		Integer(9007199254740993),
		Float{Value: 9007199254740992},
		Integer(9007199254740992),
		Resolution{Width: 4194304, Height: 2147483648},
		Integer(9007199254740991),
	}

	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				if Compare(a, b) <= 0 && Compare(b, c) <= 0 {
					assert.LessOrEqual(t, Compare(a, c), 0, "%v <= %v <= %v", a, b, c)
				}
			}
		}
	}
}

func TestParseFields(t *testing.T) {
	for _, f := range StreamFields() {
		got, err := ParseStreamField(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	for _, f := range MediaFields() {
		got, err := ParseMediaField(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	for _, f := range IFrameFields() {
		got, err := ParseIFrameField(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseStreamField(" resolution ")
	require.NoError(t, err)
	assert.Equal(t, StreamResolution, got)

	_, err = ParseStreamField("group-id")
	assert.True(t, errors.Is(err, ErrUnknownField))
	_, err = ParseMediaField("bandwidth")
	assert.True(t, errors.Is(err, ErrUnknownField))
	_, err = ParseIFrameField("frame-rate")
	assert.True(t, errors.Is(err, ErrUnknownField))
}
