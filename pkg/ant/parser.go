package ant

import (
	"bytes"
	"log/slog"
)

// Parser reassembles messages from raw USB reads. A read may hold several
// messages, a partial one, or padding.
type Parser struct {
	buf []byte
}

// Feed appends b and returns every complete message found so far. Bytes that
// cannot start a valid message are skipped.
func (p *Parser) Feed(b []byte) []Message {
	p.buf = append(p.buf, b...)

	var out []Message
	for {
		start := bytes.IndexByte(p.buf, SyncByte)
		if start < 0 {
			p.buf = p.buf[:0]
			return out
		}
		if start > 0 {
			slog.Debug("skipping bytes before sync", slog.String("bytes", EncodeToString(p.buf[:start])))
			p.buf = p.buf[start:]
		}

		if len(p.buf) < 2 {
			return out
		}

		n := int(p.buf[1])
		if n > MaxPayloadSize {
			slog.Warn("invalid message length", slog.Int("length", n))
			p.buf = p.buf[1:]
			continue
		}

		total := HeaderSize + n + 1
		if len(p.buf) < total {
			return out
		}

		m, err := Decode(p.buf[:total])
		if err != nil {
			slog.Warn("message parsing failed", slog.Any("error", err), slog.String("bytes", EncodeToString(p.buf[:total])))
			p.buf = p.buf[1:]
			continue
		}

		out = append(out, m)
		p.buf = p.buf[total:]
	}
}

// Buffered returns the number of bytes held for an incomplete message.
func (p *Parser) Buffered() int {
	return len(p.buf)
}
