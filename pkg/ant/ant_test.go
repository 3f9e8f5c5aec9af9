package ant

import (
	"bytes"
	"encoding/hex"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// parseHexString converts a dash-separated hex string to bytes
func parseHexString(s string) []byte {
	s = strings.ReplaceAll(s, "-", "")
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func mustEncode(t *testing.T, m Message) []byte {
	t.Helper()
	b, err := m.Encode()
	if err != nil {
		t.Fatalf("encode %s: %v", m, err)
	}
	return b
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "reset",
			msg:  ResetSystem(),
			want: "a4-01-4a-00-ef",
		},
		{
			name: "network key",
			msg:  SetNetworkKey(0, ANTPlusNetworkKey),
			want: "a4-09-46-00-b9-a5-21-fb-bd-72-c3-45-64",
		},
		{
			name: "assign bidirectional transmit",
			msg:  AssignChannel(0, ChannelBidirectionalTransmit, 0),
			want: "a4-03-42-00-10-00-f5",
		},
		{
			name: "channel id",
			msg:  SetChannelID(0, 1, 16, 5),
			want: "a4-05-51-00-01-00-10-05-e4",
		},
		{
			name: "channel period",
			msg:  SetChannelPeriod(0, 8192),
			want: "a4-03-43-00-00-20-c4",
		},
		{
			name: "rf frequency",
			msg:  SetChannelRFFreq(0, 57),
			want: "a4-02-45-00-39-da",
		},
		{
			name: "broadcast data",
			msg:  BroadcastData(0, [PageSize]byte{0x02, 0, 0, 0, 0, 0, 0, 0x50}),
			want: "a4-09-4e-00-02-00-00-00-00-00-00-50-b1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEncode(t, tt.msg)
			if !bytes.Equal(got, parseHexString(tt.want)) {
				t.Fatalf("got %s, want %s", EncodeToString(got), tt.want)
			}
			if Checksum(got) != 0 {
				t.Fatalf("checksum over full message should be zero")
			}

			back, err := Decode(got)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if back.ID != tt.msg.ID || !bytes.Equal(back.Payload, tt.msg.Payload) {
				t.Fatalf("decode mismatch: %s vs %s", back, tt.msg)
			}
		})
	}
}

func TestEncodePayloadTooLarge(t *testing.T) {
	_, err := Message{ID: MsgBurstData, Payload: make([]byte, MaxPayloadSize+1)}.Encode()
	if !errors.Is(err, ErrPayloadSize) {
		t.Fatalf("expected ErrPayloadSize, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"short", "a4-01", ErrShortMessage},
		{"bad sync", "a5-01-4a-00-ee", ErrBadSync},
		{"truncated payload", "a4-03-42-00-10", ErrShortMessage},
		{"checksum", "a4-01-4a-00-ee", ErrChecksum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(parseHexString(tt.raw)); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParserFeed(t *testing.T) {
	ack := Message{ID: MsgAcknowledgedData, Payload: []byte{0, 73, 0, 0, 0, 0, 0, 36, 0}}
	evt := Message{ID: MsgChannelEvent, Payload: []byte{0, 0x01, EventTx}}

	ackBytes := mustEncode(t, ack)
	evtBytes := mustEncode(t, evt)

	var p Parser

	// Two messages split across three reads, with padding in between.
	stream := append(append([]byte{0x00, 0x00}, ackBytes...), evtBytes...)
	var got []Message
	got = append(got, p.Feed(stream[:5])...)
	if len(got) != 0 {
		t.Fatalf("unexpected messages from partial read: %v", got)
	}
	got = append(got, p.Feed(stream[5:14])...)
	got = append(got, p.Feed(stream[14:])...)

	want := []Message{ack, evt}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if p.Buffered() != 0 {
		t.Fatalf("buffered = %d after complete messages", p.Buffered())
	}
}

func TestParserSkipsCorruptMessage(t *testing.T) {
	evt := Message{ID: MsgChannelEvent, Payload: []byte{0, 0x01, EventTx}}
	good := mustEncode(t, evt)
	bad := mustEncode(t, evt)
	bad[len(bad)-1] ^= 0xFF

	var p Parser
	got := p.Feed(append(bad, good...))
	if !reflect.DeepEqual(got, []Message{evt}) {
		t.Fatalf("got %v", got)
	}
}

func TestParserInvalidLength(t *testing.T) {
	evt := Message{ID: MsgChannelEvent, Payload: []byte{0, 0x42, 0}}
	stream := append([]byte{SyncByte, 0xFF}, mustEncode(t, evt)...)

	var p Parser
	got := p.Feed(stream)
	if !reflect.DeepEqual(got, []Message{evt}) {
		t.Fatalf("got %v", got)
	}
}

func TestDataPage(t *testing.T) {
	m := Message{ID: MsgBroadcastData, Payload: []byte{0, 80, 0, 0, 2, 38, 0, 0xFF, 0xFF, 0xE0, 0x01, 0x00}}
	page, err := dataPage(m)
	if err != nil {
		t.Fatalf("data page: %v", err)
	}
	if page != [PageSize]byte{80, 0, 0, 2, 38, 0, 0xFF, 0xFF} {
		t.Fatalf("page = % x", page[:])
	}

	if _, err := dataPage(Message{ID: MsgBroadcastData, Payload: []byte{0, 80}}); !errors.Is(err, ErrShortMessage) {
		t.Fatalf("expected ErrShortMessage, got %v", err)
	}
}

func TestCodeName(t *testing.T) {
	if CodeName(EventTx) != "EVENT_TX" {
		t.Fatalf("got %s", CodeName(EventTx))
	}
	if CodeName(0xEE) != "0xEE" {
		t.Fatalf("got %s", CodeName(0xEE))
	}
}
