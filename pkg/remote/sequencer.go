package remote

// Slot offsets within the rotation that carry identification pages.
const (
	manufacturerSlot = 0
	productSlot      = 65
)

// Sequencer picks the page to broadcast on each transmit opportunity.
// It is not safe for concurrent use; the radio calls it from one goroutine.
type Sequencer struct {
	profile Profile
	counter *Counter
}

func NewSequencer(p Profile) *Sequencer {
	return &Sequencer{
		profile: p,
		counter: NewCounter(CycleLength),
	}
}

// Slot returns the transmit slot the next call to Next fills.
func (s *Sequencer) Slot() int {
	return s.counter.Peek()
}

// Next returns the page for the current transmit slot and advances the
// rotation.
func (s *Sequencer) Next() Page {
	switch s.counter.Advance() {
	case manufacturerSlot:
		return s.profile.ManufacturerPage
	case productSlot:
		return s.profile.ProductPage
	default:
		return s.profile.DefaultPage
	}
}
