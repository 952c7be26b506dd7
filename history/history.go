// Package history keeps a bounded per-gate time series of observed gate
// samples. Each gate owns a fixed-capacity ring buffer: appends are O(1)
// and the oldest sample is evicted first once the cap is reached.
package history

import (
	"sync"

	"github.com/karimlaafif/Event-Flow/models"
)

// DefaultCapacity bounds each gate's series.
const DefaultCapacity = 1000

type series struct {
	buf  []models.HistoricalDataPoint
	head int
	size int
}

func (s *series) push(p models.HistoricalDataPoint) {
	if s.size < len(s.buf) {
		s.buf[(s.head+s.size)%len(s.buf)] = p
		s.size++
		return
	}
	s.buf[s.head] = p
	s.head = (s.head + 1) % len(s.buf)
}

// last returns up to n samples in chronological order.
func (s *series) last(n int) []models.HistoricalDataPoint {
	if n > s.size {
		n = s.size
	}
	if n <= 0 {
		return nil
	}
	out := make([]models.HistoricalDataPoint, n)
	start := s.size - n
	for i := 0; i < n; i++ {
		out[i] = s.buf[(s.head+start+i)%len(s.buf)]
	}
	return out
}

// Store holds the per-gate series. It is safe for concurrent use: the tick
// loop appends while forecast goroutines read.
type Store struct {
	mu       sync.RWMutex
	capacity int
	gates    map[string]*series
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity, gates: make(map[string]*series)}
}

// Append inserts a sample at the tail of the gate's series, evicting the
// oldest sample once the capacity is exceeded.
func (s *Store) Append(gateID string, p models.HistoricalDataPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[gateID]
	if !ok {
		g = &series{buf: make([]models.HistoricalDataPoint, s.capacity)}
		s.gates[gateID] = g
	}
	g.push(p)
}

// Recent returns the last n samples for a gate in chronological order, or
// fewer if there is not enough history. Unknown gates yield an empty
// sequence.
func (s *Store) Recent(gateID string, n int) []models.HistoricalDataPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gates[gateID]
	if !ok {
		return nil
	}
	return g.last(n)
}

// QueueSequence returns the last n queue sizes for a gate, oldest first.
func (s *Store) QueueSequence(gateID string, n int) []float64 {
	pts := s.Recent(gateID, n)
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = float64(p.Queue)
	}
	return out
}

// Len reports how many samples a gate currently holds.
func (s *Store) Len(gateID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gates[gateID]
	if !ok {
		return 0
	}
	return g.size
}

// GateIDs lists every gate with at least one sample.
func (s *Store) GateIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.gates))
	for id := range s.gates {
		out = append(out, id)
	}
	return out
}
