package sse

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openAIStream = "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n" +
	"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n" +
	"\n" +
	"data: {\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n" +
	"data: [DONE]\n"

func feedAll(d *Decoder, data string) []string {
	chunks := d.Feed([]byte(data))
	return append(chunks, d.Flush()...)
}

func TestOpenAIDecoding(t *testing.T) {
	t.Run("whole stream at once", func(t *testing.T) {
		d := NewDecoder(OpenAIExtractor)
		got := feedAll(d, openAIStream)
		assert.Equal(t, []string{"Hel", "lo", " world"}, got)
		assert.True(t, d.Done())
	})

	t.Run("identical result for every split offset", func(t *testing.T) {
		want := feedAll(NewDecoder(OpenAIExtractor), openAIStream)
		for offset := 0; offset <= len(openAIStream); offset++ {
			d := NewDecoder(OpenAIExtractor)
			var got []string
			got = append(got, d.Feed([]byte(openAIStream[:offset]))...)
			got = append(got, d.Feed([]byte(openAIStream[offset:]))...)
			got = append(got, d.Flush()...)
			require.Equal(t, want, got, "split at offset %d", offset)
		}
	})

	t.Run("byte at a time", func(t *testing.T) {
		d := NewDecoder(OpenAIExtractor)
		var got []string
		for i := 0; i < len(openAIStream); i++ {
			got = append(got, d.Feed([]byte{openAIStream[i]})...)
		}
		assert.Equal(t, []string{"Hel", "lo", " world"}, got)
		assert.True(t, d.Done())
	})

	t.Run("malformed line between valid ones is skipped", func(t *testing.T) {
		stream := "data: {\"choices\":[{\"delta\":{\"content\":\"one\"}}]}\n" +
			"data: {\"choices\":[{\"delta\n" +
			"data: {\"choices\":[{\"delta\":{\"content\":\"two\"}}]}\n" +
			"data: [DONE]\n"
		d := NewDecoder(OpenAIExtractor)
		got := feedAll(d, stream)
		assert.Equal(t, []string{"one", "two"}, got)
	})

	t.Run("non-data lines are ignored", func(t *testing.T) {
		stream := ": keep-alive\n" +
			"event: message\n" +
			"data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n"
		got := feedAll(NewDecoder(OpenAIExtractor), stream)
		assert.Equal(t, []string{"hi"}, got)
	})

	t.Run("nothing after the sentinel is decoded", func(t *testing.T) {
		stream := "data: [DONE]\n" +
			"data: {\"choices\":[{\"delta\":{\"content\":\"late\"}}]}\n"
		d := NewDecoder(OpenAIExtractor)
		got := feedAll(d, stream)
		assert.Empty(t, got)
		assert.True(t, d.Done())
	})

	t.Run("crlf line endings", func(t *testing.T) {
		stream := "data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\r\ndata: [DONE]\r\n"
		got := feedAll(NewDecoder(OpenAIExtractor), stream)
		assert.Equal(t, []string{"hi"}, got)
	})

	t.Run("delta without content is skipped", func(t *testing.T) {
		stream := "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\"}}]}\n" +
			"data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n"
		got := feedAll(NewDecoder(OpenAIExtractor), stream)
		assert.Equal(t, []string{"x"}, got)
	})
}

func TestGoogleDecoding(t *testing.T) {
	t.Run("candidate parts", func(t *testing.T) {
		stream := "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Hel\"},{\"text\":\"lo\"}]}}]}\n" +
			"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\" world\"}]}}]}\n"
		got := feedAll(NewDecoder(GoogleExtractor), stream)
		assert.Equal(t, []string{"Hel", "lo", " world"}, got)
	})

	t.Run("stream ends on transport close without sentinel", func(t *testing.T) {
		// no trailing newline on the last line: Flush picks it up
		stream := "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"done\"}]}}]}"
		d := NewDecoder(GoogleExtractor)
		got := feedAll(d, stream)
		assert.Equal(t, []string{"done"}, got)
		assert.False(t, d.Done())
	})

	t.Run("malformed candidate line is skipped", func(t *testing.T) {
		stream := "data: {\"candidates\":[{\"content\"\n" +
			"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"ok\"}]}}]}\n"
		got := feedAll(NewDecoder(GoogleExtractor), stream)
		assert.Equal(t, []string{"ok"}, got)
	})
}

func TestPump(t *testing.T) {
	t.Run("delivers chunks in order", func(t *testing.T) {
		var got []string
		err := Pump(context.Background(), strings.NewReader(openAIStream),
			NewDecoder(OpenAIExtractor), func(s string) { got = append(got, s) })
		require.NoError(t, err)
		assert.Equal(t, []string{"Hel", "lo", " world"}, got)
	})

	t.Run("returns context error between emissions", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var got []string
		err := Pump(ctx, strings.NewReader(openAIStream), NewDecoder(OpenAIExtractor), func(s string) {
			got = append(got, s)
			cancel()
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"Hel"}, got)
	})

	t.Run("transport failure mid-stream surfaces as stream aborted", func(t *testing.T) {
		r := io.MultiReader(
			strings.NewReader("data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n"),
			&failingReader{},
		)
		var got []string
		err := Pump(context.Background(), r, NewDecoder(OpenAIExtractor), func(s string) { got = append(got, s) })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stream aborted")
		assert.Equal(t, []string{"a"}, got)
	})

	t.Run("eof without sentinel is a normal end", func(t *testing.T) {
		stream := "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"g\"}]}}]}\n"
		var got []string
		err := Pump(context.Background(), strings.NewReader(stream),
			NewDecoder(GoogleExtractor), func(s string) { got = append(got, s) })
		require.NoError(t, err)
		assert.Equal(t, []string{"g"}, got)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}
