package remote

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownProfile = errors.New("unknown device profile")

// Button names a physical key on a remote.
type Button string

const (
	ButtonLap          Button = "Lap"
	ButtonPageForward  Button = "Page Forward"
	ButtonPageBackward Button = "Page Backward"
	ButtonCustomize    Button = "Customize"
	ButtonUp           Button = "Up"
	ButtonDown         Button = "Down"
	ButtonMiddle       Button = "Middle"
)

// PressKind tells a short press from a held one.
type PressKind int

const (
	Normal PressKind = iota
	Long
)

func (k PressKind) String() string {
	switch k {
	case Normal:
		return "Normal"
	case Long:
		return "Long"
	default:
		return fmt.Sprintf("PressKind(%d)", int(k))
	}
}

// Command is the meaning of one command number for a given remote.
type Command struct {
	Button Button
	Press  PressKind
}

// Profile bundles what the master sends to and expects from one remote model.
type Profile struct {
	Name string

	ManufacturerPage Page
	ProductPage      Page
	DefaultPage      Page

	// Commands maps page 73 command numbers to buttons.
	Commands map[uint16]Command
}

var (
	manufacturerPage = Page{PageManufacturerInfo, 0xFF, 0xFF, 0x01, 0x0F, 0x00, 0x85, 0x83}
	productPage      = Page{PageProductInfo, 0xFF, 0xFF, 0x01, 0x01, 0x00, 0x00, 0x00}
)

// GarminEdge is the Garmin Edge remote control.
var GarminEdge = Profile{
	Name:             "garmin-edge",
	ManufacturerPage: manufacturerPage,
	ProductPage:      productPage,
	DefaultPage:      Page{PageControlAvailability, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x50},
	Commands: map[uint16]Command{
		36:    {ButtonLap, Normal},
		1:     {ButtonPageForward, Normal},
		0:     {ButtonPageBackward, Long},
		32768: {ButtonCustomize, Normal},
		32769: {ButtonCustomize, Long},
	},
}

// OSynce is the o_synce ANT remote.
var OSynce = Profile{
	Name:             "osynce",
	ManufacturerPage: manufacturerPage,
	ProductPage:      productPage,
	DefaultPage:      Page{PageControlAvailability, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10},
	Commands: map[uint16]Command{
		0:  {ButtonUp, Normal},
		3:  {ButtonUp, Long},
		1:  {ButtonDown, Normal},
		36: {ButtonDown, Long},
		2:  {ButtonMiddle, Normal},
		32: {ButtonMiddle, Long},
	},
}

var profiles = map[string]Profile{
	GarminEdge.Name: GarminEdge,
	OSynce.Name:     OSynce,
}

// LookupProfile returns the built-in profile with the given name.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// ProfileNames lists the built-in profiles in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
