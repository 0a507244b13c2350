// Package codec converts chat text to and from the single character encoding
// used on the wire. Both directions of a connection share one Codec.
package codec

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "utf-8"

// Codec encodes outbound text and builds streaming decoders for inbound bytes.
type Codec struct {
	name string
	enc  encoding.Encoding
}

// UTF8 returns the default codec.
func UTF8() *Codec {
	c, _ := Lookup(DefaultEncoding)
	return c
}

// Lookup resolves a WHATWG encoding label such as "utf-8", "gbk" or
// "windows-1252". An empty label selects UTF-8.
func Lookup(name string) (*Codec, error) {
	label := strings.TrimSpace(name)
	if label == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(label)
	}
	return &Codec{name: canonical, enc: enc}, nil
}

// Name returns the canonical encoding name.
func (c *Codec) Name() string {
	return c.name
}

// Encode converts text to wire bytes. Characters the encoding cannot
// represent are an error rather than being silently replaced.
func (c *Codec) Encode(text string) ([]byte, error) {
	data, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}
	return data, nil
}

// NewDecoder returns a decoder for one inbound byte stream.
func (c *Codec) NewDecoder() *Decoder {
	return &Decoder{t: c.enc.NewDecoder()}
}

// Decoder turns successive reads into text. A character whose bytes are split
// across two reads is held back until the rest arrives; message boundaries
// are otherwise exactly what the transport delivered.
type Decoder struct {
	t       transform.Transformer
	pending []byte
}

// Decode converts one chunk. The result may be empty when the chunk only
// holds the start of a multi-byte character.
func (d *Decoder) Decode(chunk []byte) string {
	return d.decode(chunk, false)
}

// Flush emits whatever is still held back, as replacement characters if the
// bytes never formed a complete character.
func (d *Decoder) Flush() string {
	if len(d.pending) == 0 {
		return ""
	}
	out := d.decode(nil, true)
	d.t.Reset()
	return out
}

// Pending reports how many bytes are held back.
func (d *Decoder) Pending() int {
	return len(d.pending)
}

func (d *Decoder) decode(chunk []byte, atEOF bool) string {
	src := chunk
	if len(d.pending) > 0 {
		src = append(d.pending, chunk...)
		d.pending = nil
	}
	if len(src) == 0 {
		return ""
	}

	var out strings.Builder
	dst := make([]byte, 3*len(src)+utf8.UTFMax)
	for {
		nDst, nSrc, err := d.t.Transform(dst, src, atEOF)
		out.Write(dst[:nDst])
		src = src[nSrc:]
		switch err {
		case nil:
			return out.String()
		case transform.ErrShortDst:
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}
		case transform.ErrShortSrc:
			d.pending = append([]byte(nil), src...)
			return out.String()
		default:
			// Replace the offending byte and carry on with the rest.
			out.WriteRune(utf8.RuneError)
			d.t.Reset()
			if len(src) > 0 {
				src = src[1:]
			}
			if len(src) == 0 {
				return out.String()
			}
		}
	}
}
