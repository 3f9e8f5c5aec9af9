package config

import (
	"time"

	"github.com/seagrayinc/antremote/internal/antusb"
	"github.com/seagrayinc/antremote/pkg/ant"
	"github.com/seagrayinc/antremote/pkg/remote"
)

type Config struct {
	Profile         string        `yaml:"profile" toml:"profile"`
	Device          DeviceConfig  `yaml:"device" toml:"device"`
	Network         NetworkConfig `yaml:"network" toml:"network"`
	Channel         ChannelConfig `yaml:"channel" toml:"channel"`
	ResponseTimeout Duration      `yaml:"response_timeout" toml:"response_timeout"`
	Log             LogConfig     `yaml:"log" toml:"log"`
}

// ---- USB ----

type DeviceConfig struct {
	VendorID   uint16   `yaml:"vendor_id" toml:"vendor_id"`
	ProductIDs []uint16 `yaml:"product_ids" toml:"product_ids"`
}

// ---- ANT ----

type NetworkConfig struct {
	Number uint8 `yaml:"number" toml:"number"`
	// Key is the 8-byte network key; empty means the ANT+ key.
	Key []int `yaml:"key" toml:"key"`
}

type ChannelConfig struct {
	Number           uint8  `yaml:"number" toml:"number"`
	DeviceNumber     uint16 `yaml:"device_number" toml:"device_number"`
	DeviceType       uint8  `yaml:"device_type" toml:"device_type"`
	TransmissionType uint8  `yaml:"transmission_type" toml:"transmission_type"`
	Period           uint16 `yaml:"period" toml:"period"`
	RFFrequency      uint8  `yaml:"rf_frequency" toml:"rf_frequency"`
}

// ---- LOGGING ----

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the configuration of a Garmin Edge remote on an ANT USB
// stick with the ANT+ network key.
func Default() *Config {
	ch := ant.ControlChannel()
	return &Config{
		Profile: remote.GarminEdge.Name,
		Device: DeviceConfig{
			VendorID:   antusb.DynastreamVID,
			ProductIDs: []uint16{antusb.USBmPID, antusb.USB2PID},
		},
		Network: NetworkConfig{
			Number: 0,
			Key:    keyInts(ant.ANTPlusNetworkKey),
		},
		Channel: ChannelConfig{
			Number:           ch.Number,
			DeviceNumber:     ch.DeviceNumber,
			DeviceType:       ch.DeviceType,
			TransmissionType: ch.TransmissionType,
			Period:           ch.Period,
			RFFrequency:      ch.RFFrequency,
		},
		ResponseTimeout: Duration(time.Second),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// NetworkKey returns the configured key as a fixed array. Validate guarantees
// its length.
func (c *Config) NetworkKey() [8]byte {
	var k [8]byte
	for i := 0; i < len(k) && i < len(c.Network.Key); i++ {
		k[i] = byte(c.Network.Key[i])
	}
	return k
}

func keyInts(key [8]byte) []int {
	out := make([]int, len(key))
	for i, b := range key {
		out[i] = int(b)
	}
	return out
}

// ANTChannel converts the channel section for the ANT node.
func (c *Config) ANTChannel() ant.ChannelConfig {
	return ant.ChannelConfig{
		Number:           c.Channel.Number,
		Network:          c.Network.Number,
		Type:             ant.ChannelBidirectionalTransmit,
		DeviceNumber:     c.Channel.DeviceNumber,
		DeviceType:       c.Channel.DeviceType,
		TransmissionType: c.Channel.TransmissionType,
		Period:           c.Channel.Period,
		RFFrequency:      c.Channel.RFFrequency,
	}
}
