package ant

func ResetSystem() Message {
	return Message{ID: MsgResetSystem, Payload: []byte{0x00}}
}

func SetNetworkKey(network byte, key [8]byte) Message {
	b := []byte{network}
	b = append(b, key[:]...)
	return Message{ID: MsgNetworkKey, Payload: b}
}

func AssignChannel(channel, channelType, network byte) Message {
	return Message{ID: MsgAssignChannel, Payload: []byte{channel, channelType, network}}
}

func UnassignChannel(channel byte) Message {
	return Message{ID: MsgUnassignChannel, Payload: []byte{channel}}
}

// SetChannelID sets the device number, device type and transmission type.
func SetChannelID(channel byte, deviceNumber uint16, deviceType, transmissionType byte) Message {
	return Message{ID: MsgChannelID, Payload: []byte{
		channel,
		byte(deviceNumber),
		byte(deviceNumber >> 8),
		deviceType,
		transmissionType,
	}}
}

// SetChannelPeriod sets the message period in units of 1/32768 s.
func SetChannelPeriod(channel byte, period uint16) Message {
	return Message{ID: MsgChannelPeriod, Payload: []byte{channel, byte(period), byte(period >> 8)}}
}

// SetChannelRFFreq sets the RF frequency as an offset from 2400 MHz.
func SetChannelRFFreq(channel, freq byte) Message {
	return Message{ID: MsgChannelRFFreq, Payload: []byte{channel, freq}}
}

func OpenChannel(channel byte) Message {
	return Message{ID: MsgOpenChannel, Payload: []byte{channel}}
}

func CloseChannel(channel byte) Message {
	return Message{ID: MsgCloseChannel, Payload: []byte{channel}}
}

func BroadcastData(channel byte, page [PageSize]byte) Message {
	return dataMessage(MsgBroadcastData, channel, page)
}

func AcknowledgedData(channel byte, page [PageSize]byte) Message {
	return dataMessage(MsgAcknowledgedData, channel, page)
}

func dataMessage(id, channel byte, page [PageSize]byte) Message {
	b := make([]byte, 0, 1+PageSize)
	b = append(b, channel)
	b = append(b, page[:]...)
	return Message{ID: id, Payload: b}
}
