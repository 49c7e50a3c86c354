package diag

import "sync"

// Bag is a Reporter that keeps at most limit diagnostics and counts the
// rest. It is safe for concurrent use, so parallel batch jobs can share one.
type Bag struct {
	mu      sync.Mutex
	items   []Diagnostic
	limit   int
	dropped int
}

// NewBag returns a Bag holding up to limit diagnostics; limit <= 0 means no
// limit.
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

// Report adds d, or counts it as dropped when the bag is full.
func (b *Bag) Report(d Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.limit > 0 && len(b.items) >= b.limit {
		b.dropped++
		return
	}
	b.items = append(b.items, d)
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Dropped counts diagnostics turned away because the bag was full.
func (b *Bag) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Items returns a copy of the kept diagnostics in arrival order.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return nil
	}
	return append([]Diagnostic(nil), b.items...)
}
