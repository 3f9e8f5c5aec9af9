package remote

// CycleLength is the number of transmit slots in one page rotation.
const CycleLength = 129

// Counter is a transmit slot counter that wraps at a fixed bound.
type Counter struct {
	n     int
	bound int
}

// NewCounter returns a counter that yields 0..bound-1 and then starts over.
func NewCounter(bound int) *Counter {
	if bound <= 0 {
		panic("remote: counter bound must be positive")
	}
	return &Counter{bound: bound}
}

// Advance returns the current slot index and moves to the next one.
func (c *Counter) Advance() int {
	cur := c.n
	c.n = (c.n + 1) % c.bound
	return cur
}

// Peek returns the slot index the next Advance will return.
func (c *Counter) Peek() int {
	return c.n
}
