// Package remote implements the master side of the ANT+ generic control
// device profile as used by handlebar remotes such as the Garmin Edge remote
// and the o_synce remote. See
// https://www.thisisant.com/resources/audio-controls/ and
// https://www.thisisant.com/resources/common-data-pages/

package remote

import "fmt"

// PageSize is the fixed length of every ANT data page.
const PageSize = 8

// Page numbers handled by this package.
const (
	PageControlAvailability = 0x02
	PageGenericCommand      = 0x49 // 73
	PageManufacturerInfo    = 0x50 // 80
	PageProductInfo         = 0x51 // 81
	PageBatteryStatus       = 0x52 // 82
)

// Page is a single 8-byte ANT data page. Byte 0 is the page number.
type Page [PageSize]byte

// PageFromBytes copies the first PageSize bytes of b into a Page. A shorter
// slice is a programming error; the radio always delivers full pages.
func PageFromBytes(b []byte) Page {
	if len(b) < PageSize {
		panic(fmt.Sprintf("remote: page needs %d bytes, got %d", PageSize, len(b)))
	}
	var p Page
	copy(p[:], b)
	return p
}

// Number returns the page number tag.
func (p Page) Number() uint8 {
	return p[0]
}

func (p Page) uint16At(i int) uint16 {
	return uint16(p[i]) | uint16(p[i+1])<<8
}

func (p Page) uint24At(i int) uint32 {
	return uint32(p[i]) | uint32(p[i+1])<<8 | uint32(p[i+2])<<16
}

func (p Page) uint32At(i int) uint32 {
	return p.uint24At(i) | uint32(p[i+3])<<24
}

// ChannelKind identifies the delivery path a page arrived on.
type ChannelKind int

const (
	Acknowledged ChannelKind = iota
	Broadcast
)

func (k ChannelKind) String() string {
	switch k {
	case Acknowledged:
		return "acknowledged"
	case Broadcast:
		return "broadcast"
	default:
		return fmt.Sprintf("ChannelKind(%d)", int(k))
	}
}

// Event is a decoded inbound page.
type Event interface {
	PageNumber() uint8
	String() string
}
