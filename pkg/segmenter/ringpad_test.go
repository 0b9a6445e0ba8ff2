package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ringContents(r *RingPadBuffer) []float32 {
	var result []float32
	r.Each(func(frame []float32) {
		result = append(result, frame[0])
	})
	return result
}

func TestRingPadBuffer(t *testing.T) {
	r := NewRingPadBuffer(3, 2)
	assert.Equal(t, 3, r.Cap())
	assert.Zero(t, r.Len())
	assert.Empty(t, ringContents(r))

	frame := []float32{1, 1}
	r.Push(frame)
	frame[0] = 100
	assert.Equal(t, []float32{1}, ringContents(r), "the ring should keep a copy")

	r.Push([]float32{2, 2})
	r.Push([]float32{3, 3})
	assert.Equal(t, []float32{1, 2, 3}, ringContents(r))

	r.Push([]float32{4, 4})
	r.Push([]float32{5, 5})
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []float32{3, 4, 5}, ringContents(r))

	r.Clear()
	assert.Zero(t, r.Len())
	r.Push([]float32{6, 6})
	assert.Equal(t, []float32{6}, ringContents(r))
}

func TestRingPadBufferZeroCapacity(t *testing.T) {
	r := NewRingPadBuffer(0, 4)
	r.Push([]float32{1, 2, 3, 4})
	assert.Zero(t, r.Len())
	assert.Empty(t, ringContents(r))
}
