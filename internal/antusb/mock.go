package antusb

import (
	"io"
	"sync"
)

// Mock is an in-memory Device. Emitted chunks are returned by Read one at a
// time; writes are recorded and may be answered by Respond.
type Mock struct {
	// Respond, when set, is called for every write and its results are
	// queued for reading.
	Respond func(written []byte) [][]byte

	reads chan []byte
	done  chan struct{}

	mu        sync.Mutex
	writes    [][]byte
	closeOnce sync.Once
}

func NewMock() *Mock {
	return &Mock{
		reads: make(chan []byte, 256),
		done:  make(chan struct{}),
	}
}

// Emit queues b to be returned by a later Read. It blocks while the queue is
// full and returns without queueing once the mock is closed.
func (m *Mock) Emit(b []byte) {
	select {
	case <-m.done:
		return
	default:
	}
	select {
	case m.reads <- append([]byte(nil), b...):
	case <-m.done:
	}
}

func (m *Mock) Read(p []byte) (int, error) {
	select {
	case <-m.done:
		return 0, io.EOF
	default:
	}
	select {
	case b := <-m.reads:
		return copy(p, b), nil
	case <-m.done:
		return 0, io.EOF
	}
}

func (m *Mock) Write(p []byte) (int, error) {
	select {
	case <-m.done:
		return 0, io.ErrClosedPipe
	default:
	}

	m.mu.Lock()
	m.writes = append(m.writes, append([]byte(nil), p...))
	respond := m.Respond
	m.mu.Unlock()

	if respond != nil {
		for _, r := range respond(p) {
			m.Emit(r)
		}
	}
	return len(p), nil
}

// Writes returns a copy of everything written so far.
func (m *Mock) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

func (m *Mock) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}
