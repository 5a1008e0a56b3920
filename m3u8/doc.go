/*
Package m3u8 reads, reorders and writes HLS master playlists.

Section references in this package are to RFC 8216.

A master playlist is decoded into three ordered lists of entries:

	#EXT-X-STREAM-INF           Variant, completed by the URI line after it
	#EXT-X-MEDIA                Rendition
	#EXT-X-I-FRAME-STREAM-INF   IVariant

Every other line (#EXTM3U, #EXT-X-VERSION, #EXT-X-INDEPENDENT-SEGMENTS,
comments, unknown tags) is kept verbatim together with its position among
the entries, so Encode writes the playlist back in the same shape.

Attribute values are typed by their surface syntax (4.2):

	"..."           QuotedString   quoted-string
	1920x1080       Resolution     decimal-resolution
	1280000         Integer        decimal-integer
	23.976, -2.0    Float          decimal-floating-point, signed-decimal-floating-point
	AUDIO, 0x1A2B   Token          enumerated-string, hexadecimal-sequence

Quoted strings may contain commas: CODECS="mp4a.40.2,avc1.4d401e" is a
single attribute.

Entries are reordered with SortStreams, SortMedia and SortIFrames. Sorting
is ascending and stable; an entry missing the sort attribute is placed after
every entry that has it.
*/
package m3u8
