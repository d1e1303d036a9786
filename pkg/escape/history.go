package escape

import "github.com/willbeason/mandelscan/pkg/decimal"

// history is a fixed-size ring of recent orbit values.
type history struct {
	values []decimal.Complex
	next   int
	size   int
}

// newHistory returns a ring of capacity values. A non-positive capacity
// remembers nothing.
func newHistory(capacity int) *history {
	capacity = max(capacity, 0)
	return &history{values: make([]decimal.Complex, capacity)}
}

func (h *history) push(z decimal.Complex) {
	if len(h.values) == 0 {
		return
	}
	h.values[h.next] = z
	h.next = (h.next + 1) % len(h.values)
	if h.size < len(h.values) {
		h.size++
	}
}

// match reports whether z equals a remembered value under eq.
func (h *history) match(z decimal.Complex, eq func(a, b decimal.Complex) bool) bool {
	for i := range h.size {
		if eq(h.values[i], z) {
			return true
		}
	}
	return false
}
