package mpv

import (
	"bytes"
	"encoding/json"
	"net"
)

type responsesIterator struct {
	conn     net.Conn
	buffered []byte
}

// NewResponsesIterator creates an iterator which returns ResponsePayload processed from
// provided connection.
func NewResponsesIterator(conn net.Conn) *responsesIterator {
	return &responsesIterator{
		conn: conn,
	}
}

// Next returns ResponsePayload fetched from a mpv socket connection.
// It blocks until a valid, newline-separated JSON is provided through the connection.
// When a single read provides more than one payload, subsequent calls to Next drain
// the buffered payloads without touching the socket. Newline-separated chunks which
// do not form a valid JSON on their own are aggregated until they do.
func (ri *responsesIterator) Next() (ResponsePayload, error) {
	var payload []byte

	for {
		chunk, err := ri.nextChunk()
		if err != nil {
			return ResponsePayload{}, err
		}

		payload = append(payload, chunk...)
		if json.Valid(payload) {
			break
		}
	}

	return parseResponsePayload(payload)
}

// nextChunk returns the next non-empty newline-terminated chunk, reading from
// the connection only when the buffer runs out of newlines.
func (ri *responsesIterator) nextChunk() ([]byte, error) {
	for {
		newlineIdx := bytes.Index(ri.buffered, newline)
		if newlineIdx != -1 {
			chunk := append([]byte(nil), ri.buffered[:newlineIdx]...)
			ri.buffered = append([]byte(nil), ri.buffered[newlineIdx+1:]...)

			if len(chunk) == 0 {
				continue // consecutive newlines - discard and keep searching.
			}

			return chunk, nil
		}

		buf := make([]byte, bufSize)
		nRead, err := ri.conn.Read(buf)
		if err != nil {
			return nil, err
		}

		ri.buffered = append(ri.buffered, buf[:nRead]...)
	}
}
