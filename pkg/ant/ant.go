// Package ant implements the subset of the ANT serial message protocol needed
// to run a single master channel on an ANT USB stick, as defined in
// https://www.thisisant.com/resources/ant-message-protocol-and-usage/

package ant

import (
	"encoding/hex"
	"strings"
)

const (
	// From Section 7.1 - Message Structure
	SyncByte       = 0xA4
	HeaderSize     = 3 // sync, length, id
	MaxPayloadSize = 32

	// Payload length of a data page.
	PageSize = 8

	// From Section 9.3 - Configuration Messages
	MsgUnassignChannel = 0x41
	MsgAssignChannel   = 0x42
	MsgChannelPeriod   = 0x43
	MsgChannelRFFreq   = 0x45
	MsgNetworkKey      = 0x46
	MsgChannelID       = 0x51

	// Control Messages
	MsgResetSystem  = 0x4A
	MsgOpenChannel  = 0x4B
	MsgCloseChannel = 0x4C
	MsgRequest      = 0x4D

	// Data Messages
	MsgBroadcastData    = 0x4E
	MsgAcknowledgedData = 0x4F
	MsgBurstData        = 0x50

	// Channel Event / Response Messages
	MsgChannelEvent = 0x40
	MsgStartup      = 0x6F

	// Channel types
	ChannelBidirectionalReceive  = 0x00
	ChannelBidirectionalTransmit = 0x10

	// The initiating message id of a channel event (as opposed to a response).
	channelEventRF = 0x01
)

// Channel response codes and RF event codes, Section 9.5.6.1.
const (
	ResponseNoError             = 0x00
	EventRxSearchTimeout        = 0x01
	EventRxFail                 = 0x02
	EventTx                     = 0x03
	EventTransferRxFailed       = 0x04
	EventTransferTxCompleted    = 0x05
	EventTransferTxFailed       = 0x06
	EventChannelClosed          = 0x07
	EventRxFailGoToSearch       = 0x08
	EventChannelCollision       = 0x09
	ChannelInWrongState         = 0x15
	ChannelNotOpened            = 0x16
	ChannelIDNotSet             = 0x18
	CloseAllChannels            = 0x19
	TransferInProgress          = 0x1F
	TransferSequenceNumberError = 0x20
	InvalidMessage              = 0x28
	InvalidNetworkNumber        = 0x29
	InvalidListID               = 0x30
	InvalidScanTxChannel        = 0x31
	InvalidParameterProvided    = 0x33
	EventSerialQueueOverflow    = 0x34
	EventQueueOverflow          = 0x35
)

// ANTPlusNetworkKey is the public ANT+ managed network key.
var ANTPlusNetworkKey = [8]byte{0xB9, 0xA5, 0x21, 0xFB, 0xBD, 0x72, 0xC3, 0x45}

// EncodeToString renders b as dash separated hex, the format used in logs.
func EncodeToString(b []byte) string {
	hexDigits := hex.EncodeToString(b)
	var builder strings.Builder
	for i, r := range hexDigits {
		if i > 0 && i%2 == 0 {
			builder.WriteString("-")
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
