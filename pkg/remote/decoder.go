package remote

import (
	"log/slog"
)

type pageDecoder func(Page) Event

// wrappedDecoder converts a typed page decoder into a generic pageDecoder.
func wrappedDecoder[T Event](f func(Page) T) pageDecoder {
	return func(p Page) Event {
		return f(p)
	}
}

var (
	// Common data pages are only meaningful on the broadcast path.
	broadcastDecoders = map[uint8]pageDecoder{
		PageManufacturerInfo: wrappedDecoder(decodeHardwareInfo),
		PageProductInfo:      wrappedDecoder(decodeSoftwareInfo),
		PageBatteryStatus:    wrappedDecoder(decodeBatteryStatus),
	}
)

// Decoder turns inbound pages into events. It holds no state beyond the
// command table of its profile, so Decode is pure.
type Decoder struct {
	commands map[uint16]Command
}

func NewDecoder(p Profile) Decoder {
	return Decoder{commands: p.Commands}
}

// Decode classifies p by its page number. Pages that carry nothing of
// interest, and command numbers the profile does not know, yield false.
func (d Decoder) Decode(p Page, kind ChannelKind) (Event, bool) {
	if p.Number() == PageGenericCommand {
		return d.decodeCommand(p)
	}

	if kind != Broadcast {
		return nil, false
	}

	decode, ok := broadcastDecoders[p.Number()]
	if !ok {
		return nil, false
	}
	return decode(p), true
}

func (d Decoder) decodeCommand(p Page) (Event, bool) {
	ev := decodeButtonEvent(p)
	cmd, ok := d.commands[ev.Number]
	if !ok {
		slog.Debug("unknown command number", slog.Int("command", int(ev.Number)))
		return nil, false
	}
	ev.Button = cmd.Button
	ev.Press = cmd.Press
	return ev, true
}
