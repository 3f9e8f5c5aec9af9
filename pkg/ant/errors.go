package ant

import (
	"errors"
	"fmt"
)

var (
	ErrResponseTimeout = errors.New("timed out waiting for channel response")
	ErrNotStarted      = errors.New("node not started")
	ErrClosed          = errors.New("node closed")
)

var codeNames = map[byte]string{
	ResponseNoError:             "RESPONSE_NO_ERROR",
	EventRxSearchTimeout:        "EVENT_RX_SEARCH_TIMEOUT",
	EventRxFail:                 "EVENT_RX_FAIL",
	EventTx:                     "EVENT_TX",
	EventTransferRxFailed:       "EVENT_TRANSFER_RX_FAILED",
	EventTransferTxCompleted:    "EVENT_TRANSFER_TX_COMPLETED",
	EventTransferTxFailed:       "EVENT_TRANSFER_TX_FAILED",
	EventChannelClosed:          "EVENT_CHANNEL_CLOSED",
	EventRxFailGoToSearch:       "EVENT_RX_FAIL_GO_TO_SEARCH",
	EventChannelCollision:       "EVENT_CHANNEL_COLLISION",
	ChannelInWrongState:         "CHANNEL_IN_WRONG_STATE",
	ChannelNotOpened:            "CHANNEL_NOT_OPENED",
	ChannelIDNotSet:             "CHANNEL_ID_NOT_SET",
	CloseAllChannels:            "CLOSE_ALL_CHANNELS",
	TransferInProgress:          "TRANSFER_IN_PROGRESS",
	TransferSequenceNumberError: "TRANSFER_SEQUENCE_NUMBER_ERROR",
	InvalidMessage:              "INVALID_MESSAGE",
	InvalidNetworkNumber:        "INVALID_NETWORK_NUMBER",
	InvalidListID:               "INVALID_LIST_ID",
	InvalidScanTxChannel:        "INVALID_SCAN_TX_CHANNEL",
	InvalidParameterProvided:    "INVALID_PARAMETER_PROVIDED",
	EventSerialQueueOverflow:    "EVENT_SERIAL_QUE_OVERFLOW",
	EventQueueOverflow:          "EVENT_QUE_OVERFLOW",
}

// CodeName returns the symbolic name of a response or event code.
func CodeName(code byte) string {
	if n, ok := codeNames[code]; ok {
		return n
	}
	return fmt.Sprintf("0x%02X", code)
}

// ResponseError is returned when the stick rejects a command.
type ResponseError struct {
	MessageID byte
	Code      byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("message 0x%02X rejected: %s", e.MessageID, CodeName(e.Code))
}
