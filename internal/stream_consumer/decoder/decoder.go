// Package decoder incrementally extracts complete JSON values from an
// unbounded chunked byte stream.
package decoder

import (
	"bytes"
	"encoding/json"
)

// Decoder accumulates incoming chunks and emits one raw JSON document per
// syntactically complete top-level value. The buffer grows monotonically
// between successful extractions; a complete parse resets it to empty.
//
// This is a whole-buffer strategy, not a framed parser: two complete objects
// concatenated within a single buffer state are not split. The upstream feed
// delivers at most one object per completion boundary, which this matches.
type Decoder struct {
	buf bytes.Buffer
}

// New creates an empty Decoder
func New() *Decoder {
	return &Decoder{}
}

// Feed appends chunk to the accumulation buffer and attempts to parse the
// entire buffer as one JSON value. On success the raw document is returned
// and the buffer is reset; on an incomplete parse the buffer is retained
// until the next chunk arrives.
func (d *Decoder) Feed(chunk []byte) [][]byte {
	d.buf.Write(chunk)

	data := d.buf.Bytes()
	if len(data) == 0 || !json.Valid(data) {
		return nil
	}

	doc := make([]byte, len(data))
	copy(doc, data)
	d.buf.Reset()

	return [][]byte{doc}
}

// Buffered returns the bytes retained from an incomplete parse. A non-empty
// remainder at stream end is trailing garbage to be logged and discarded,
// never emitted as an object.
func (d *Decoder) Buffered() []byte {
	return d.buf.Bytes()
}
