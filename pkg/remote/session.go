package remote

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Reporter receives every decoded event.
type Reporter interface {
	Report(kind ChannelKind, ev Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(kind ChannelKind, ev Event)

func (f ReporterFunc) Report(kind ChannelKind, ev Event) { f(kind, ev) }

// ConsoleReporter writes one line per event.
type ConsoleReporter struct {
	W io.Writer

	mu sync.Mutex
}

func (c *ConsoleReporter) Report(_ ChannelKind, ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintln(c.W, ev.String()); err != nil {
		slog.Warn("failed to write event", slog.Any("error", err))
	}
}

// Session is the master side of one remote link. It satisfies the channel
// handler of the ANT node: the node calls OnTransmit on every transmit
// opportunity and hands over every received data payload.
type Session struct {
	Profile Profile

	sequencer *Sequencer
	decoder   Decoder
	reporter  Reporter
}

func NewSession(p Profile, r Reporter) *Session {
	return &Session{
		Profile:   p,
		sequencer: NewSequencer(p),
		decoder:   NewDecoder(p),
		reporter:  r,
	}
}

// OnTransmit returns the next page of the rotation.
func (s *Session) OnTransmit() [PageSize]byte {
	slot := s.sequencer.Slot()
	p := s.sequencer.Next()
	slog.Debug("page sent", slog.Int("slot", slot), slog.Int("page", int(p.Number())))
	return p
}

func (s *Session) OnAcknowledged(data [PageSize]byte) {
	s.handle(Page(data), Acknowledged)
}

func (s *Session) OnBroadcast(data [PageSize]byte) {
	s.handle(Page(data), Broadcast)
}

// Handle decodes p and reports the result, if any. It returns whether an
// event was produced.
func (s *Session) Handle(p Page, kind ChannelKind) bool {
	return s.handle(p, kind)
}

func (s *Session) handle(p Page, kind ChannelKind) bool {
	slog.Debug("page received",
		slog.String("channel", kind.String()),
		slog.Int("page", int(p.Number())),
		slog.String("data", fmt.Sprintf("% x", p[:])),
	)

	ev, ok := s.decoder.Decode(p, kind)
	if !ok {
		return false
	}
	if s.reporter != nil {
		s.reporter.Report(kind, ev)
	}
	return true
}
