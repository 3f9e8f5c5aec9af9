package antusb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/gousb"
)

// VID/PID for Dynastream/Garmin ANT USB sticks
const (
	DynastreamVID uint16 = 0x0FCF
	USB2PID       uint16 = 0x1008 // ANTUSB2 (older, longer stick)
	USBmPID       uint16 = 0x1009 // ANTUSB-m
)

// ReadSize is the bulk IN transfer size of the sticks.
const ReadSize = 64

const (
	DefaultReadTimeout  = 500 * time.Millisecond
	DefaultWriteTimeout = time.Second
)

var (
	ErrDeviceNotFound = errors.New("ANT USB stick not found")
	ErrNoBulkEndpoint = errors.New("no bulk endpoint pair")
)

// Device is an opened stick. Reads return raw bytes from the IN endpoint and
// may contain several serial messages.
type Device interface {
	Read([]byte) (int, error)
	Write([]byte) (int, error)
	Close() error
}

// Info describes an attached stick.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Serial       string
	Manufacturer string
	Product      string
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (VID:0x%04X PID:0x%04X) at %s", i.Manufacturer, i.Product, i.VendorID, i.ProductID, i.Path)
}

// List returns every attached device matching vendorID and one of productIDs.
func List(vendorID uint16, productIDs ...uint16) ([]Info, error) {
	usbCtx := gousb.NewContext()
	defer usbCtx.Close()

	devs, err := openDevices(usbCtx, vendorID, productIDs)
	defer closeAll(devs)
	if err != nil {
		return nil, err
	}

	out := make([]Info, 0, len(devs))
	for _, d := range devs {
		out = append(out, infoFrom(d))
	}
	return out, nil
}

// Open opens the first attached device matching vendorID and one of
// productIDs and claims its bulk endpoint pair.
func Open(vendorID uint16, productIDs ...uint16) (*Stick, error) {
	usbCtx := gousb.NewContext()

	devs, err := openDevices(usbCtx, vendorID, productIDs)
	if len(devs) == 0 {
		usbCtx.Close()
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w (VID:0x%04X PID:%s)", ErrDeviceNotFound, vendorID, formatPIDs(productIDs))
	}
	if err != nil {
		slog.Debug("some devices failed to open", slog.Any("error", err))
	}
	dev := devs[0]
	closeAll(devs[1:])

	if err := dev.SetAutoDetach(true); err != nil {
		slog.Debug("kernel driver auto detach unavailable", slog.Any("error", err))
	}

	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		usbCtx.Close()
		return nil, fmt.Errorf("claim interface: %w", err)
	}

	in, out, err := bulkEndpoints(intf)
	if err != nil {
		done()
		dev.Close()
		usbCtx.Close()
		return nil, err
	}

	release := func() error {
		done()
		return errors.Join(dev.Close(), usbCtx.Close())
	}
	return newStick(infoFrom(dev), in, out, release), nil
}

func openDevices(usbCtx *gousb.Context, vendorID uint16, productIDs []uint16) ([]*gousb.Device, error) {
	devs, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return matches(uint16(desc.Vendor), uint16(desc.Product), vendorID, productIDs)
	})
	if err != nil {
		return devs, fmt.Errorf("usb open devices: %w", err)
	}
	return devs, nil
}

func matches(vid, pid, vendorID uint16, productIDs []uint16) bool {
	if vid != vendorID {
		return false
	}
	if len(productIDs) == 0 {
		return true
	}
	for _, p := range productIDs {
		if pid == p {
			return true
		}
	}
	return false
}

func closeAll(devs []*gousb.Device) {
	for _, d := range devs {
		if err := d.Close(); err != nil {
			slog.Debug("failed to close device", slog.Any("error", err))
		}
	}
}

func bulkEndpoints(intf *gousb.Interface) (*gousb.InEndpoint, *gousb.OutEndpoint, error) {
	inNum, outNum := -1, -1
	for _, ep := range intf.Setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		if ep.Direction == gousb.EndpointDirectionIn {
			if inNum < 0 {
				inNum = ep.Number
			}
		} else if outNum < 0 {
			outNum = ep.Number
		}
	}
	if inNum < 0 || outNum < 0 {
		return nil, nil, fmt.Errorf("%w on %s", ErrNoBulkEndpoint, intf)
	}

	in, err := intf.InEndpoint(inNum)
	if err != nil {
		return nil, nil, fmt.Errorf("in endpoint %d: %w", inNum, err)
	}
	out, err := intf.OutEndpoint(outNum)
	if err != nil {
		return nil, nil, fmt.Errorf("out endpoint %d: %w", outNum, err)
	}
	return in, out, nil
}

func infoFrom(d *gousb.Device) Info {
	manufacturer, _ := d.Manufacturer()
	product, _ := d.Product()
	serial, _ := d.SerialNumber()
	return Info{
		Path:         fmt.Sprintf("%d-%d", d.Desc.Bus, d.Desc.Address),
		VendorID:     uint16(d.Desc.Vendor),
		ProductID:    uint16(d.Desc.Product),
		Serial:       serial,
		Manufacturer: manufacturer,
		Product:      product,
	}
}

func formatPIDs(pids []uint16) string {
	s := ""
	for i, p := range pids {
		if i > 0 {
			s += "/"
		}
		s += fmt.Sprintf("0x%04X", p)
	}
	return s
}

type inEndpoint interface {
	ReadContext(ctx context.Context, p []byte) (int, error)
}

type outEndpoint interface {
	WriteContext(ctx context.Context, p []byte) (int, error)
}

// Stick is an ANT USB stick with a claimed bulk IN/OUT endpoint pair. Read
// and Write use separate endpoints and may run concurrently.
type Stick struct {
	Info         Info
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	in      inEndpoint
	out     outEndpoint
	release func() error

	ctx    context.Context
	cancel context.CancelFunc

	readMu    sync.Mutex
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newStick(info Info, in inEndpoint, out outEndpoint, release func() error) *Stick {
	ctx, cancel := context.WithCancel(context.Background())
	return &Stick{
		Info:         info,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		in:           in,
		out:          out,
		release:      release,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Read waits for the next IN transfer. Each transfer is bounded by
// ReadTimeout and reissued until data arrives. Read returns io.EOF once the
// stick is closed.
func (s *Stick) Read(p []byte) (int, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()

	for {
		if s.ctx.Err() != nil {
			return 0, io.EOF
		}

		ctx, cancel := context.WithTimeout(s.ctx, timeoutOr(s.ReadTimeout, DefaultReadTimeout))
		n, err := s.in.ReadContext(ctx, p)
		expired := ctx.Err() != nil
		cancel()

		switch {
		case n > 0:
			return n, nil
		case s.ctx.Err() != nil:
			return 0, io.EOF
		case err == nil, expired:
			continue
		default:
			return 0, fmt.Errorf("usb read: %w", err)
		}
	}
}

// Write writes one serial message to the OUT endpoint.
func (s *Stick) Write(p []byte) (int, error) {
	if s.ctx.Err() != nil {
		return 0, io.ErrClosedPipe
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, cancel := context.WithTimeout(s.ctx, timeoutOr(s.WriteTimeout, DefaultWriteTimeout))
	defer cancel()

	n, err := s.out.WriteContext(ctx, p)
	if err != nil {
		return n, fmt.Errorf("usb write: %w", err)
	}
	return n, nil
}

// Close cancels pending transfers, waits for them to return and releases the
// device.
func (s *Stick) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.readMu.Lock()
		s.writeMu.Lock()
		s.closeErr = s.release()
		s.writeMu.Unlock()
		s.readMu.Unlock()
	})
	return s.closeErr
}

func timeoutOr(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
