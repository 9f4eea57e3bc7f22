package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_ObjectSplitAcrossChunks(t *testing.T) {
	d := New()

	docs := d.Feed([]byte(`{"a":1`))
	assert.Empty(t, docs, "incomplete buffer must not emit")
	assert.Equal(t, []byte(`{"a":1`), d.Buffered())

	docs = d.Feed([]byte(`}`))
	require.Len(t, docs, 1)
	assert.JSONEq(t, `{"a":1}`, string(docs[0]))
	assert.Empty(t, d.Buffered(), "buffer resets after a successful parse")
}

func TestDecoder_OneCompleteObjectPerChunk(t *testing.T) {
	d := New()

	docs := d.Feed([]byte(`{"a":1}`))
	require.Len(t, docs, 1)
	assert.JSONEq(t, `{"a":1}`, string(docs[0]))

	docs = d.Feed([]byte(`{"b":2}`))
	require.Len(t, docs, 1)
	assert.JSONEq(t, `{"b":2}`, string(docs[0]))
	assert.Empty(t, d.Buffered())
}

func TestDecoder_ConcatenatedObjectsInOneBufferState(t *testing.T) {
	// Known limitation of the whole-buffer strategy: two complete values in
	// one buffer state never parse as a single JSON value, so nothing is
	// emitted and the bytes stay buffered.
	d := New()

	docs := d.Feed([]byte(`{"a":1}{"b":2}`))
	assert.Empty(t, docs)
	assert.Equal(t, []byte(`{"a":1}{"b":2}`), d.Buffered())
}

func TestDecoder_ManyChunksManyObjects(t *testing.T) {
	d := New()

	chunks := [][]byte{
		[]byte(`{"uuid":"a","amount"`),
		[]byte(`:10}`),
		[]byte(`{"uuid":"b",`),
		[]byte(`"amount":20}`),
	}

	var collected []string
	for _, chunk := range chunks {
		for _, doc := range d.Feed(chunk) {
			collected = append(collected, string(doc))
		}
	}

	require.Len(t, collected, 2)
	assert.JSONEq(t, `{"uuid":"a","amount":10}`, collected[0])
	assert.JSONEq(t, `{"uuid":"b","amount":20}`, collected[1])
}

func TestDecoder_TrailingPartialIsNeverEmitted(t *testing.T) {
	d := New()

	docs := d.Feed([]byte(`{"uuid":"a"}`))
	require.Len(t, docs, 1)

	docs = d.Feed([]byte(`{"uuid":"trunc`))
	assert.Empty(t, docs)
	assert.Equal(t, []byte(`{"uuid":"trunc`), d.Buffered(), "trailing bytes stay buffered for the caller to discard")
}

func TestDecoder_EmptyChunk(t *testing.T) {
	d := New()
	assert.Empty(t, d.Feed(nil))
	assert.Empty(t, d.Feed([]byte{}))
	assert.Empty(t, d.Buffered())
}
