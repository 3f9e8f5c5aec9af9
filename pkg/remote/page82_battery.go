package remote

import (
	"fmt"
	"strconv"
)

// BatteryStatusLevel is the 3-bit battery status field of page 82.
type BatteryStatusLevel uint8

const (
	BatteryReserved0 BatteryStatusLevel = iota
	BatteryNew
	BatteryGood
	BatteryOk
	BatteryLow
	BatteryCritical
	BatteryReserved6
	BatteryInvalid
)

var batteryStatusNames = [...]string{
	"Reserved for future use",
	"New",
	"Good",
	"Ok",
	"Low",
	"Critical",
	"Reserved for future use",
	"Invalid",
}

func (l BatteryStatusLevel) String() string {
	if int(l) < len(batteryStatusNames) {
		return batteryStatusNames[l]
	}
	return fmt.Sprintf("BatteryStatusLevel(%d)", uint8(l))
}

// Cumulative operating time ticks, selected by bit 7 of byte 7.
const (
	operatingTimeResolutionFine   = 2
	operatingTimeResolutionCoarse = 16
)

// BatteryStatus is common data page 82.
type BatteryStatus struct {
	Identifier           uint8
	Voltage              float64
	Status               BatteryStatusLevel
	OperatingTimeSeconds uint32
}

func decodeBatteryStatus(p Page) BatteryStatus {
	descriptor := p[7]

	fractional := float64(p[6]) / 256
	coarse := float64(descriptor & 0x0F)

	resolution := uint32(operatingTimeResolutionCoarse)
	if descriptor>>7 == 1 {
		resolution = operatingTimeResolutionFine
	}

	return BatteryStatus{
		Identifier:           p[2],
		Voltage:              coarse + fractional,
		Status:               BatteryStatusLevel((descriptor >> 4) & 0x07),
		OperatingTimeSeconds: p.uint24At(3) * resolution,
	}
}

func (BatteryStatus) PageNumber() uint8 { return PageBatteryStatus }

func (b BatteryStatus) String() string {
	return fmt.Sprintf("Page 82: Battery Voltage=%s | Battery Status=%s | Cumulative Operating Time [s]=%d",
		strconv.FormatFloat(b.Voltage, 'f', -1, 64), b.Status, b.OperatingTimeSeconds)
}
