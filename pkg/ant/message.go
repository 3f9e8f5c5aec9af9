package ant

import (
	"errors"
	"fmt"
)

var (
	ErrShortMessage = errors.New("short message")
	ErrBadSync      = errors.New("bad sync byte")
	ErrChecksum     = errors.New("checksum mismatch")
	ErrPayloadSize  = errors.New("payload too large")
)

// Message is a single ANT serial message without sync, length and checksum.
type Message struct {
	ID      byte
	Payload []byte
}

// Checksum is the XOR of every byte from sync through the last payload byte.
func Checksum(bytes []byte) byte {
	var checksum byte
	for _, b := range bytes {
		checksum ^= b
	}

	return checksum
}

// Encode returns the wire form: sync, length, id, payload, checksum.
func (m Message) Encode() ([]byte, error) {
	if len(m.Payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadSize, len(m.Payload))
	}

	b := make([]byte, 0, HeaderSize+len(m.Payload)+1)
	b = append(b, SyncByte, byte(len(m.Payload)), m.ID)
	b = append(b, m.Payload...)
	b = append(b, Checksum(b))
	return b, nil
}

// Decode parses exactly one wire message from b.
func Decode(b []byte) (Message, error) {
	if len(b) < HeaderSize+1 {
		return Message{}, ErrShortMessage
	}
	if b[0] != SyncByte {
		return Message{}, fmt.Errorf("%w: 0x%02X", ErrBadSync, b[0])
	}

	n := int(b[1])
	total := HeaderSize + n + 1
	if len(b) < total {
		return Message{}, fmt.Errorf("%w: need %d bytes, have %d", ErrShortMessage, total, len(b))
	}

	declared := b[total-1]
	if computed := Checksum(b[:total-1]); computed != declared {
		return Message{}, fmt.Errorf("%w: declared 0x%02X computed 0x%02X", ErrChecksum, declared, computed)
	}

	payload := make([]byte, n)
	copy(payload, b[HeaderSize:HeaderSize+n])
	return Message{ID: b[2], Payload: payload}, nil
}

func (m Message) String() string {
	return fmt.Sprintf("id=0x%02X payload=%s", m.ID, EncodeToString(m.Payload))
}

// Channel returns the channel number carried in the first payload byte.
func (m Message) Channel() byte {
	if len(m.Payload) == 0 {
		return 0
	}
	return m.Payload[0]
}

// ChannelEvent is the payload of a channel response / event message.
type ChannelEvent struct {
	Channel byte
	// MessageID is the id of the message being answered, or 0x01 for RF
	// events.
	MessageID byte
	Code      byte
}

// IsRFEvent reports whether e is an RF event rather than a command response.
func (e ChannelEvent) IsRFEvent() bool {
	return e.MessageID == channelEventRF
}

func parseChannelEvent(m Message) (ChannelEvent, error) {
	if len(m.Payload) < 3 {
		return ChannelEvent{}, fmt.Errorf("channel event: %w", ErrShortMessage)
	}
	return ChannelEvent{
		Channel:   m.Payload[0],
		MessageID: m.Payload[1],
		Code:      m.Payload[2],
	}, nil
}

// dataPage extracts the 8-byte page of a broadcast or acknowledged data
// message. Extended data after the page is ignored.
func dataPage(m Message) ([PageSize]byte, error) {
	var page [PageSize]byte
	if len(m.Payload) < 1+PageSize {
		return page, fmt.Errorf("data message: %w: %d bytes", ErrShortMessage, len(m.Payload))
	}
	copy(page[:], m.Payload[1:1+PageSize])
	return page, nil
}
