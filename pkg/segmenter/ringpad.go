package segmenter

// RingPadBuffer keeps copies of the most recent frames, evicting the oldest
// one on overflow. Slots are preallocated, so Push never allocates.
type RingPadBuffer struct {
	slots [][]float32
	head  int
	count int
}

func NewRingPadBuffer(capacity, frameSamples int) *RingPadBuffer {
	slots := make([][]float32, capacity)
	for idx := range slots {
		slots[idx] = make([]float32, frameSamples)
	}
	return &RingPadBuffer{
		slots: slots,
	}
}

func (r *RingPadBuffer) Cap() int {
	return len(r.slots)
}

func (r *RingPadBuffer) Len() int {
	return r.count
}

// Push copies frame into the ring.
func (r *RingPadBuffer) Push(frame []float32) {
	if len(r.slots) == 0 {
		return
	}
	tail := (r.head + r.count) % len(r.slots)
	copy(r.slots[tail], frame)
	if r.count < len(r.slots) {
		r.count++
		return
	}
	r.head = (r.head + 1) % len(r.slots)
}

// Each calls fn for every stored frame, oldest first. The slice passed to
// fn is only valid until the next Push.
func (r *RingPadBuffer) Each(fn func(frame []float32)) {
	for idx := 0; idx < r.count; idx++ {
		fn(r.slots[(r.head+idx)%len(r.slots)])
	}
}

func (r *RingPadBuffer) Clear() {
	r.head = 0
	r.count = 0
}
