// Package sse decodes the line-delimited streaming wire formats the
// completion providers use. Two framings exist in the wild: the OpenAI style
// (`data: ` lines carrying chat-completion delta JSON, terminated by a
// `[DONE]` sentinel) and the Google style (`data: ` lines carrying a
// candidates array, terminated only by transport close). The decoder is
// byte-boundary agnostic: payloads may arrive split anywhere, including in
// the middle of a line, and incomplete trailing lines are buffered across
// reads until their newline shows up.
package sse

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

const dataPrefix = "data:"

// doneSentinel ends an OpenAI-style stream. Google-style streams never send
// it; they simply close the transport.
const doneSentinel = "[DONE]"

// Extractor decodes one `data:` payload into zero or more text chunks.
// A payload that fails to parse yields no chunks and no error: partial or
// garbled lines are skipped to keep the stream alive.
type Extractor func(payload []byte) []string

// OpenAIExtractor pulls `choices[i].delta.content` out of a chat-completion
// chunk payload.
func OpenAIExtractor(payload []byte) []string {
	if !gjson.ValidBytes(payload) {
		return nil
	}
	var chunks []string
	gjson.GetBytes(payload, "choices").ForEach(func(_, choice gjson.Result) bool {
		if content := choice.Get("delta.content"); content.Exists() && content.String() != "" {
			chunks = append(chunks, content.String())
		}
		return true
	})
	return chunks
}

// GoogleExtractor pulls `candidates[i].content.parts[j].text` out of a
// generateContent stream payload.
func GoogleExtractor(payload []byte) []string {
	if !gjson.ValidBytes(payload) {
		return nil
	}
	var chunks []string
	gjson.GetBytes(payload, "candidates").ForEach(func(_, candidate gjson.Result) bool {
		candidate.Get("content.parts").ForEach(func(_, part gjson.Result) bool {
			if text := part.Get("text"); text.Exists() && text.String() != "" {
				chunks = append(chunks, text.String())
			}
			return true
		})
		return true
	})
	return chunks
}

// Decoder accumulates raw bytes and emits decoded text chunks as complete
// `data:` lines become available.
type Decoder struct {
	extract Extractor
	buf     []byte
	done    bool
}

// NewDecoder creates a decoder around the given payload extractor.
func NewDecoder(extract Extractor) *Decoder {
	return &Decoder{extract: extract}
}

// Feed appends raw bytes and returns the chunks decoded from every line the
// buffer now completes. The trailing partial line, if any, stays buffered.
func (d *Decoder) Feed(p []byte) []string {
	if d.done {
		return nil
	}
	d.buf = append(d.buf, p...)

	var chunks []string
	for {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			return chunks
		}
		line := d.buf[:idx]
		d.buf = d.buf[idx+1:]

		chunks = append(chunks, d.decodeLine(line)...)
		if d.done {
			return chunks
		}
	}
}

// Flush decodes whatever complete line is still buffered. Google-style
// streams may end without a trailing newline, so the transport loop calls
// this once at EOF.
func (d *Decoder) Flush() []string {
	if d.done || len(d.buf) == 0 {
		return nil
	}
	line := d.buf
	d.buf = nil
	return d.decodeLine(line)
}

// Done reports whether the terminating sentinel has been seen.
func (d *Decoder) Done() bool {
	return d.done
}

func (d *Decoder) decodeLine(line []byte) []string {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if !bytes.HasPrefix(line, []byte(dataPrefix)) {
		return nil
	}
	payload := bytes.TrimSpace(line[len(dataPrefix):])
	if string(payload) == doneSentinel {
		d.done = true
		return nil
	}
	return d.extract(payload)
}

// Pump drives a decoder from the response body, delivering each decoded
// chunk through onChunk. It returns nil when the stream terminates normally,
// either via the sentinel or transport close, and checks ctx between chunk
// emissions so callers can abort mid-stream.
func Pump(ctx context.Context, r io.Reader, d *Decoder, onChunk func(string)) error {
	buf := make([]byte, 4096)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(buf)
		if n > 0 {
			for _, chunk := range d.Feed(buf[:n]) {
				if cerr := ctx.Err(); cerr != nil {
					return cerr
				}
				onChunk(chunk)
			}
			if d.Done() {
				return nil
			}
		}

		switch {
		case err == io.EOF:
			for _, chunk := range d.Flush() {
				if cerr := ctx.Err(); cerr != nil {
					return cerr
				}
				onChunk(chunk)
			}
			return nil
		case err != nil:
			return fmt.Errorf("stream aborted: %w", err)
		}
	}
}
