package remote

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCounterWraps(t *testing.T) {
	c := NewCounter(3)
	var got []int
	for i := 0; i < 7; i++ {
		got = append(got, c.Advance())
	}
	want := []int{0, 1, 2, 0, 1, 2, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if c.Peek() != 1 {
		t.Fatalf("peek = %d, want 1", c.Peek())
	}
}

func TestSequencerRotation(t *testing.T) {
	for _, p := range []Profile{GarminEdge, OSynce} {
		t.Run(p.Name, func(t *testing.T) {
			s := NewSequencer(p)
			first := make([]Page, 0, CycleLength)
			for call := 1; call <= CycleLength; call++ {
				page := s.Next()
				first = append(first, page)

				var want Page
				switch call {
				case 1:
					want = p.ManufacturerPage
				case 66:
					want = p.ProductPage
				default:
					want = p.DefaultPage
				}
				if page != want {
					t.Fatalf("call %d: got % x, want % x", call, page[:], want[:])
				}
			}

			// The rotation starts over at call 130.
			for i := 0; i < CycleLength; i++ {
				if got := s.Next(); got != first[i] {
					t.Fatalf("second cycle call %d: got % x, want % x", i+1, got[:], first[i][:])
				}
			}
		})
	}
}

func TestSequencerDefaultPages(t *testing.T) {
	g := NewSequencer(GarminEdge)
	g.Next()
	if got := g.Next(); got[7] != 0x50 || got.Number() != PageControlAvailability {
		t.Fatalf("garmin default page: % x", got[:])
	}

	o := NewSequencer(OSynce)
	o.Next()
	if got := o.Next(); got[7] != 0x10 || got.Number() != PageControlAvailability {
		t.Fatalf("osynce default page: % x", got[:])
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		page    Page
		kind    ChannelKind
		want    Event
		line    string
	}{
		{
			name:    "garmin lap",
			profile: GarminEdge,
			page:    Page{73, 0, 0, 0, 0, 0, 36, 0},
			kind:    Acknowledged,
			want:    ButtonEvent{Button: ButtonLap, Press: Normal, Number: 36},
			line:    `Normal push: "Lap" button`,
		},
		{
			name:    "garmin page backward",
			profile: GarminEdge,
			page:    Page{73, 0, 0, 0, 0, 0, 0, 0},
			kind:    Acknowledged,
			want:    ButtonEvent{Button: ButtonPageBackward, Press: Long, Number: 0},
			line:    `Long push: "Page Backward" button`,
		},
		{
			name:    "garmin customize long",
			profile: GarminEdge,
			page:    Page{73, 0x34, 0x12, 0x01, 0x00, 7, 0x01, 0x80},
			kind:    Acknowledged,
			want: ButtonEvent{
				Button:         ButtonCustomize,
				Press:          Long,
				Number:         32769,
				RemoteSerial:   0x1234,
				ManufacturerID: 1,
				Sequence:       7,
			},
			line: `Long push: "Customize" button`,
		},
		{
			name:    "osynce up",
			profile: OSynce,
			page:    Page{73, 0, 0, 0, 0, 0, 0, 0},
			kind:    Acknowledged,
			want:    ButtonEvent{Button: ButtonUp, Press: Normal, Number: 0},
			line:    `Normal push: "Up" button`,
		},
		{
			name:    "osynce up long",
			profile: OSynce,
			page:    Page{73, 0, 0, 0, 0, 0, 3, 0},
			kind:    Acknowledged,
			want:    ButtonEvent{Button: ButtonUp, Press: Long, Number: 3},
			line:    `Long push: "Up" button`,
		},
		{
			name:    "osynce down long on broadcast",
			profile: OSynce,
			page:    Page{73, 0, 0, 0, 0, 0, 36, 0},
			kind:    Broadcast,
			want:    ButtonEvent{Button: ButtonDown, Press: Long, Number: 36},
			line:    `Long push: "Down" button`,
		},
		{
			name:    "hardware info",
			profile: OSynce,
			page:    Page{80, 0, 0, 2, 38, 0, 0xFF, 0xFF},
			kind:    Broadcast,
			want:    HardwareInfo{HWRevision: 2, ManufacturerID: 38, ModelNumber: 65535},
			line:    "Page 80: HW Revision=2 | Manufacturer ID=38 | Model Number=65535",
		},
		{
			name:    "software info",
			profile: OSynce,
			page:    Page{81, 0xFF, 0xFF, 93, 0x16, 0x50, 0xBC, 0x14},
			kind:    Broadcast,
			want:    SoftwareInfo{SWRevision: 93, SupplementalSWRevision: 0xFF, SerialNumber: 347885590},
			line:    "Page 81: SW Revision=93 | Serial Number=347885590",
		},
		{
			name:    "battery status coarse resolution",
			profile: GarminEdge,
			page:    Page{82, 0xFF, 0xFF, 0x26, 0, 0, 0xFF, 0x02},
			kind:    Broadcast,
			want: BatteryStatus{
				Identifier:           0xFF,
				Voltage:              2.99609375,
				Status:               BatteryReserved0,
				OperatingTimeSeconds: 608,
			},
			line: "Page 82: Battery Voltage=2.99609375 | Battery Status=Reserved for future use | Cumulative Operating Time [s]=608",
		},
		{
			name:    "battery status fine resolution",
			profile: OSynce,
			page:    Page{82, 0xFF, 0xFF, 0x93, 0, 0, 0xFF, 0x90},
			kind:    Broadcast,
			want: BatteryStatus{
				Identifier:           0xFF,
				Voltage:              0.99609375,
				Status:               BatteryNew,
				OperatingTimeSeconds: 294,
			},
			line: "Page 82: Battery Voltage=0.99609375 | Battery Status=New | Cumulative Operating Time [s]=294",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.profile)
			got, ok := d.Decode(tt.page, tt.kind)
			if !ok {
				t.Fatalf("no event for % x", tt.page[:])
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("event mismatch:\ngot:  %+v\nwant: %+v", got, tt.want)
			}
			if got.String() != tt.line {
				t.Errorf("line mismatch:\ngot:  %s\nwant: %s", got.String(), tt.line)
			}
			if got.PageNumber() != tt.page.Number() {
				t.Errorf("page number = %d, want %d", got.PageNumber(), tt.page.Number())
			}
		})
	}
}

func TestDecodeIgnored(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		page    Page
		kind    ChannelKind
	}{
		{"unknown tag acknowledged", GarminEdge, Page{99, 1, 2, 3, 4, 5, 6, 7}, Acknowledged},
		{"unknown tag broadcast", OSynce, Page{99, 1, 2, 3, 4, 5, 6, 7}, Broadcast},
		{"unknown garmin command", GarminEdge, Page{73, 0, 0, 0, 0, 0, 2, 0}, Acknowledged},
		{"unknown osynce command", OSynce, Page{73, 0, 0, 0, 0, 0, 0, 0x80}, Acknowledged},
		{"info page on acknowledged channel", OSynce, Page{80, 0, 0, 2, 38, 0, 0xFF, 0xFF}, Acknowledged},
		{"battery page on acknowledged channel", OSynce, Page{82, 0, 0, 0x26, 0, 0, 0xFF, 0x02}, Acknowledged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ev, ok := NewDecoder(tt.profile).Decode(tt.page, tt.kind); ok {
				t.Fatalf("unexpected event %+v", ev)
			}
		})
	}

	// Every tag other than the known ones is ignored on both channels.
	d := NewDecoder(GarminEdge)
	for tag := 0; tag < 256; tag++ {
		switch tag {
		case PageGenericCommand, PageManufacturerInfo, PageProductInfo, PageBatteryStatus:
			continue
		}
		for _, kind := range []ChannelKind{Acknowledged, Broadcast} {
			if _, ok := d.Decode(Page{byte(tag), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, kind); ok {
				t.Fatalf("tag %d on %s produced an event", tag, kind)
			}
		}
	}
}

func TestDecodeIsPure(t *testing.T) {
	d := NewDecoder(OSynce)
	pages := []Page{
		{73, 0, 0, 0, 0, 0, 2, 0},
		{80, 0, 0, 2, 38, 0, 0xFF, 0xFF},
		{82, 0, 0, 0x26, 0, 0, 0xFF, 0x02},
		{99, 0, 0, 0, 0, 0, 0, 0},
	}
	for _, p := range pages {
		for _, kind := range []ChannelKind{Acknowledged, Broadcast} {
			ev1, ok1 := d.Decode(p, kind)
			ev2, ok2 := d.Decode(p, kind)
			if ok1 != ok2 || !reflect.DeepEqual(ev1, ev2) {
				t.Fatalf("decode of % x on %s not repeatable: %+v/%v vs %+v/%v", p[:], kind, ev1, ok1, ev2, ok2)
			}
		}
	}
}

func TestProfileCommandsAreUnique(t *testing.T) {
	for _, p := range []Profile{GarminEdge, OSynce} {
		seen := make(map[Command]uint16)
		for code, cmd := range p.Commands {
			if prev, ok := seen[cmd]; ok {
				t.Errorf("%s: %s %s mapped by both %d and %d", p.Name, cmd.Press, cmd.Button, prev, code)
			}
			seen[cmd] = code
		}
	}
}

func TestLookupProfile(t *testing.T) {
	p, err := LookupProfile(" Garmin-Edge ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.Name != GarminEdge.Name {
		t.Fatalf("got profile %q", p.Name)
	}

	if _, err := LookupProfile("wahoo"); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}

	if got := ProfileNames(); !reflect.DeepEqual(got, []string{"garmin-edge", "osynce"}) {
		t.Fatalf("profile names = %v", got)
	}
}

func TestPageFromBytes(t *testing.T) {
	p := PageFromBytes([]byte{73, 1, 2, 3, 4, 5, 6, 7, 0xC0})
	if p != (Page{73, 1, 2, 3, 4, 5, 6, 7}) {
		t.Fatalf("got % x", p[:])
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for short page")
		}
	}()
	PageFromBytes([]byte{73, 0, 0})
}

func TestSession(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(GarminEdge, &ConsoleReporter{W: &out})

	if got := s.OnTransmit(); Page(got) != GarminEdge.ManufacturerPage {
		t.Fatalf("first transmit: % x", got[:])
	}
	if got := s.OnTransmit(); Page(got) != GarminEdge.DefaultPage {
		t.Fatalf("second transmit: % x", got[:])
	}

	s.OnAcknowledged([PageSize]byte{73, 0, 0, 0, 0, 0, 36, 0})
	s.OnAcknowledged([PageSize]byte{73, 0, 0, 0, 0, 0, 1, 0})
	s.OnAcknowledged([PageSize]byte{99, 0, 0, 0, 0, 0, 0, 0})
	s.OnBroadcast([PageSize]byte{80, 0, 0, 2, 38, 0, 0xFF, 0xFF})

	want := strings.Join([]string{
		`Normal push: "Lap" button`,
		`Normal push: "Page Forward" button`,
		"Page 80: HW Revision=2 | Manufacturer ID=38 | Model Number=65535",
		"",
	}, "\n")
	if out.String() != want {
		t.Fatalf("output mismatch:\ngot:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestSessionReportsChannelKind(t *testing.T) {
	var kinds []ChannelKind
	s := NewSession(OSynce, ReporterFunc(func(kind ChannelKind, _ Event) {
		kinds = append(kinds, kind)
	}))

	if !s.Handle(Page{73, 0, 0, 0, 0, 0, 2, 0}, Acknowledged) {
		t.Fatal("expected event for middle button")
	}
	if !s.Handle(Page{81, 0, 0, 1, 0, 0, 0, 0}, Broadcast) {
		t.Fatal("expected event for page 81")
	}
	if s.Handle(Page{2, 0, 0, 0, 0, 0, 0, 0}, Broadcast) {
		t.Fatal("page 2 should be ignored")
	}

	if !reflect.DeepEqual(kinds, []ChannelKind{Acknowledged, Broadcast}) {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestBatteryVoltageIsExact(t *testing.T) {
	tests := []struct {
		coarse, frac byte
		want         string
	}{
		{0x0F, 0xFF, "15.99609375"},
		{0x02, 0xFF, "2.99609375"},
		{0x00, 0x01, "0.00390625"},
		{0x03, 0x80, "3.5"},
		{0x01, 0x00, "1"},
	}
	for _, tt := range tests {
		p := Page{PageBatteryStatus, 0xFF, 0xFF, 0, 0, 0, tt.frac, 0x10 | tt.coarse}
		ev, ok := NewDecoder(GarminEdge).Decode(p, Broadcast)
		if !ok {
			t.Fatalf("page % x not decoded", p[:])
		}
		want := "Page 82: Battery Voltage=" + tt.want + " |"
		if !strings.HasPrefix(ev.String(), want) {
			t.Errorf("got %q, want prefix %q", ev.String(), want)
		}
		b := ev.(BatteryStatus)
		if b.Voltage != float64(tt.coarse)+float64(tt.frac)/256 {
			t.Errorf("voltage = %v", b.Voltage)
		}
	}
}

func TestSequencerSlot(t *testing.T) {
	s := NewSequencer(OSynce)
	for i := 0; i < CycleLength+2; i++ {
		if got, want := s.Slot(), i%CycleLength; got != want {
			t.Fatalf("call %d: slot = %d, want %d", i, got, want)
		}
		s.Next()
	}
}
