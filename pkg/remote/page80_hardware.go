package remote

import "fmt"

// HardwareInfo is common data page 80, manufacturer's identification.
type HardwareInfo struct {
	HWRevision     uint8
	ManufacturerID uint16
	ModelNumber    uint16
}

func decodeHardwareInfo(p Page) HardwareInfo {
	return HardwareInfo{
		HWRevision:     p[3],
		ManufacturerID: p.uint16At(4),
		ModelNumber:    p.uint16At(6),
	}
}

func (HardwareInfo) PageNumber() uint8 { return PageManufacturerInfo }

func (h HardwareInfo) String() string {
	return fmt.Sprintf("Page 80: HW Revision=%d | Manufacturer ID=%d | Model Number=%d",
		h.HWRevision, h.ManufacturerID, h.ModelNumber)
}
