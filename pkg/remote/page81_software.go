package remote

import "fmt"

// SoftwareInfo is common data page 81, product information.
type SoftwareInfo struct {
	SWRevision uint8
	// SupplementalSWRevision is 0xFF when the remote does not use it.
	SupplementalSWRevision uint8
	SerialNumber           uint32
}

func decodeSoftwareInfo(p Page) SoftwareInfo {
	return SoftwareInfo{
		SupplementalSWRevision: p[2],
		SWRevision:             p[3],
		SerialNumber:           p.uint32At(4),
	}
}

func (SoftwareInfo) PageNumber() uint8 { return PageProductInfo }

func (s SoftwareInfo) String() string {
	return fmt.Sprintf("Page 81: SW Revision=%d | Serial Number=%d", s.SWRevision, s.SerialNumber)
}
