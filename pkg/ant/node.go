package ant

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Device is the raw byte transport to an ANT stick.
type Device interface {
	Read([]byte) (int, error)
	Write([]byte) (int, error)
	Close() error
}

// Handler receives the traffic of an open channel. All calls are made from
// the node's read loop, one at a time.
type Handler interface {
	// OnTransmit returns the page to broadcast in the next message period.
	OnTransmit() [PageSize]byte
	OnAcknowledged(page [PageSize]byte)
	OnBroadcast(page [PageSize]byte)
}

// ChannelConfig holds the parameters of one channel.
type ChannelConfig struct {
	Number  byte
	Network byte
	Type    byte

	DeviceNumber     uint16
	DeviceType       byte
	TransmissionType byte

	// Period is the message period in 1/32768 s units.
	Period      uint16
	RFFrequency byte
}

// ControlChannel returns the master channel used to drive a generic control
// device: device type 16 on 2457 MHz at 4 Hz.
func ControlChannel() ChannelConfig {
	return ChannelConfig{
		Number:           0,
		Network:          0,
		Type:             ChannelBidirectionalTransmit,
		DeviceNumber:     1,
		DeviceType:       16,
		TransmissionType: 5,
		Period:           8192,
		RFFrequency:      57,
	}
}

const (
	defaultResponseTimeout = time.Second
	readSize               = 64
)

// Node drives one ANT stick. Start must be called before any command.
type Node struct {
	Device          Device
	ResponseTimeout time.Duration

	writeMu sync.Mutex
	reqMu   sync.Mutex
	parser  Parser

	responses chan ChannelEvent
	startup   chan Message

	mu      sync.Mutex
	handler Handler
	channel byte

	startOnce sync.Once
	started   bool
	done      chan struct{}
	err       error
}

func NewNode(dev Device) *Node {
	return &Node{
		Device:    dev,
		responses: make(chan ChannelEvent, 16),
		startup:   make(chan Message, 1),
		done:      make(chan struct{}),
	}
}

// Start launches the read loop. The loop ends when the device read fails,
// which Close triggers.
func (n *Node) Start(ctx context.Context) {
	n.startOnce.Do(func() {
		n.mu.Lock()
		n.started = true
		n.mu.Unlock()
		go n.readLoop(ctx)
	})
}

// Done is closed when the read loop has exited.
func (n *Node) Done() <-chan struct{} {
	return n.done
}

// Err returns the reason the read loop exited.
func (n *Node) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.err
}

// Reset resets the stick and waits for its startup message.
func (n *Node) Reset(ctx context.Context) error {
	if err := n.send(ResetSystem()); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	select {
	case m := <-n.startup:
		slog.Debug("stick started", slog.String("message", m.String()))
	case <-time.After(n.timeout()):
		// Some firmware versions do not report startup over USB.
		slog.Warn("no startup message after reset")
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (n *Node) SetNetworkKey(ctx context.Context, network byte, key [8]byte) error {
	if err := n.request(ctx, SetNetworkKey(network, key)); err != nil {
		return fmt.Errorf("set network key: %w", err)
	}
	return nil
}

// OpenChannel assigns and configures a channel, then opens it with h
// receiving its traffic.
func (n *Node) OpenChannel(ctx context.Context, cfg ChannelConfig, h Handler) error {
	n.mu.Lock()
	n.handler = h
	n.channel = cfg.Number
	n.mu.Unlock()

	steps := []struct {
		name string
		msg  Message
	}{
		{"assign channel", AssignChannel(cfg.Number, cfg.Type, cfg.Network)},
		{"set channel id", SetChannelID(cfg.Number, cfg.DeviceNumber, cfg.DeviceType, cfg.TransmissionType)},
		{"set channel period", SetChannelPeriod(cfg.Number, cfg.Period)},
		{"set rf frequency", SetChannelRFFreq(cfg.Number, cfg.RFFrequency)},
		{"open channel", OpenChannel(cfg.Number)},
	}
	for _, s := range steps {
		if err := n.request(ctx, s.msg); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	slog.Info("channel open",
		slog.Int("channel", int(cfg.Number)),
		slog.Int("device_number", int(cfg.DeviceNumber)),
		slog.Int("device_type", int(cfg.DeviceType)),
		slog.Int("transmission_type", int(cfg.TransmissionType)),
		slog.Int("period", int(cfg.Period)),
		slog.Int("rf_frequency", int(cfg.RFFrequency)),
	)
	return nil
}

// CloseChannel closes the open channel. Traffic already queued by the stick
// may still reach the handler.
func (n *Node) CloseChannel(ctx context.Context) error {
	n.mu.Lock()
	ch := n.channel
	n.mu.Unlock()

	if err := n.request(ctx, CloseChannel(ch)); err != nil {
		return fmt.Errorf("close channel: %w", err)
	}
	return nil
}

// Close releases the device, which also stops the read loop.
func (n *Node) Close() error {
	return n.Device.Close()
}

func (n *Node) timeout() time.Duration {
	if n.ResponseTimeout > 0 {
		return n.ResponseTimeout
	}
	return defaultResponseTimeout
}

func (n *Node) send(m Message) error {
	b, err := m.Encode()
	if err != nil {
		return err
	}

	n.writeMu.Lock()
	defer n.writeMu.Unlock()

	slog.Debug("sending message", slog.String("bytes", EncodeToString(b)))
	if _, err := n.Device.Write(b); err != nil {
		return err
	}
	return nil
}

// request sends m and waits for the channel response that answers it.
func (n *Node) request(ctx context.Context, m Message) error {
	n.mu.Lock()
	started := n.started
	n.mu.Unlock()
	if !started {
		return ErrNotStarted
	}

	n.reqMu.Lock()
	defer n.reqMu.Unlock()

	if err := n.send(m); err != nil {
		return err
	}

	timer := time.NewTimer(n.timeout())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-n.done:
			return ErrClosed
		case <-timer.C:
			return fmt.Errorf("%w (message 0x%02X)", ErrResponseTimeout, m.ID)
		case resp := <-n.responses:
			if resp.MessageID != m.ID {
				slog.Debug("discarding stale response", slog.Int("message_id", int(resp.MessageID)), slog.String("code", CodeName(resp.Code)))
				continue
			}
			if resp.Code != ResponseNoError {
				return &ResponseError{MessageID: resp.MessageID, Code: resp.Code}
			}
			return nil
		}
	}
}

func (n *Node) readLoop(ctx context.Context) {
	defer close(n.done)

	buf := make([]byte, readSize)
	for {
		if err := ctx.Err(); err != nil {
			n.setErr(err)
			return
		}

		c, err := n.Device.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			slog.Debug("read loop stopped", slog.Any("error", err))
			n.setErr(err)
			return
		}

		for _, m := range n.parser.Feed(buf[:c]) {
			n.dispatch(m)
		}
	}
}

func (n *Node) setErr(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

func (n *Node) currentHandler() Handler {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.handler
}

func (n *Node) dispatch(m Message) {
	switch m.ID {
	case MsgStartup:
		select {
		case n.startup <- m:
		default:
		}

	case MsgChannelEvent:
		e, err := parseChannelEvent(m)
		if err != nil {
			slog.Warn("dropping channel event", slog.Any("error", err))
			return
		}
		if e.IsRFEvent() {
			n.handleEvent(e)
			return
		}
		select {
		case n.responses <- e:
		default:
			slog.Warn("response buffer full, dropping response", slog.Int("message_id", int(e.MessageID)))
		}

	case MsgBroadcastData, MsgAcknowledgedData:
		page, err := dataPage(m)
		if err != nil {
			slog.Warn("dropping data message", slog.Any("error", err))
			return
		}
		h := n.currentHandler()
		if h == nil {
			return
		}
		if m.ID == MsgAcknowledgedData {
			h.OnAcknowledged(page)
		} else {
			h.OnBroadcast(page)
		}

	default:
		slog.Debug("unhandled message", slog.String("message", m.String()))
	}
}

func (n *Node) handleEvent(e ChannelEvent) {
	switch e.Code {
	case EventTx:
		h := n.currentHandler()
		if h == nil {
			return
		}
		if err := n.send(BroadcastData(e.Channel, h.OnTransmit())); err != nil {
			slog.Warn("failed to send broadcast data", slog.Any("error", err))
		}
	case EventChannelClosed:
		slog.Info("channel closed", slog.Int("channel", int(e.Channel)))
	default:
		slog.Debug("channel event", slog.Int("channel", int(e.Channel)), slog.String("event", CodeName(e.Code)))
	}
}
