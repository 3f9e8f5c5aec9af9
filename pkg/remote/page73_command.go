package remote

import "fmt"

// ButtonEvent is a decoded generic command page (73).
type ButtonEvent struct {
	Button Button
	Press  PressKind

	// Number is the raw command number from bytes 6-7.
	Number         uint16
	RemoteSerial   uint16
	ManufacturerID uint16
	Sequence       uint8
}

func decodeButtonEvent(p Page) ButtonEvent {
	return ButtonEvent{
		RemoteSerial:   p.uint16At(1),
		ManufacturerID: p.uint16At(3),
		Sequence:       p[5],
		Number:         p.uint16At(6),
	}
}

func (ButtonEvent) PageNumber() uint8 { return PageGenericCommand }

func (e ButtonEvent) String() string {
	return fmt.Sprintf("%s push: %q button", e.Press, string(e.Button))
}
