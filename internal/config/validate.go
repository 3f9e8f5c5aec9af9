package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seagrayinc/antremote/internal/logging"
	"github.com/seagrayinc/antremote/pkg/ant"
	"github.com/seagrayinc/antremote/pkg/remote"
)

// Highest RF channel offset, 2524 MHz.
const maxRFFrequency = 124

var ErrInvalid = errors.New("invalid configuration")

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if _, err := remote.LookupProfile(cfg.Profile); err != nil {
		return fmt.Errorf("%w: profile: %v (known: %s)", ErrInvalid, err, strings.Join(remote.ProfileNames(), ", "))
	}

	if len(cfg.Device.ProductIDs) == 0 {
		return fmt.Errorf("%w: device.product_ids must list at least one product id", ErrInvalid)
	}

	if len(cfg.Network.Key) != 8 {
		return fmt.Errorf("%w: network.key must have 8 bytes, got %d", ErrInvalid, len(cfg.Network.Key))
	}
	for i, b := range cfg.Network.Key {
		if b < 0 || b > 0xFF {
			return fmt.Errorf("%w: network.key[%d]=%d is not a byte", ErrInvalid, i, b)
		}
	}

	if cfg.Channel.Period == 0 {
		return fmt.Errorf("%w: channel.period must be positive", ErrInvalid)
	}
	if cfg.Channel.RFFrequency > maxRFFrequency {
		return fmt.Errorf("%w: channel.rf_frequency %d out of range 0-%d", ErrInvalid, cfg.Channel.RFFrequency, maxRFFrequency)
	}
	// Bit 7 of the device type is the pairing bit; masters never set it.
	if cfg.Channel.DeviceType > 0x7F {
		return fmt.Errorf("%w: channel.device_type %d out of range 0-127", ErrInvalid, cfg.Channel.DeviceType)
	}

	if cfg.ResponseTimeout <= 0 {
		return fmt.Errorf("%w: response_timeout must be positive", ErrInvalid)
	}

	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalid, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q must be text or json", ErrInvalid, cfg.Log.Format)
	}

	return nil
}

// Normalize applies post-load normalization.
// It is allowed to mutate configuration.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Profile = strings.ToLower(strings.TrimSpace(cfg.Profile))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if len(cfg.Network.Key) == 0 {
		cfg.Network.Key = keyInts(ant.ANTPlusNetworkKey)
	}
}
