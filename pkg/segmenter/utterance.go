package segmenter

// UtteranceBuffer accumulates the frames of the in-progress utterance as
// one flat slice of samples.
type UtteranceBuffer struct {
	frameSamples int
	samples      []float32
}

func NewUtteranceBuffer(frameSamples int) *UtteranceBuffer {
	return &UtteranceBuffer{
		frameSamples: frameSamples,
	}
}

// Len returns the amount of buffered frames.
func (b *UtteranceBuffer) Len() int {
	return len(b.samples) / b.frameSamples
}

func (b *UtteranceBuffer) IsEmpty() bool {
	return len(b.samples) == 0
}

// Append copies frame to the end of the buffer.
func (b *UtteranceBuffer) Append(frame []float32) {
	b.samples = append(b.samples, frame...)
}

// Take returns the concatenation of the buffered frames and empties the
// buffer. The caller owns the returned slice.
func (b *UtteranceBuffer) Take() []float32 {
	samples := b.samples
	b.samples = nil
	if samples == nil {
		return []float32{}
	}
	return samples
}

func (b *UtteranceBuffer) Clear() {
	b.samples = b.samples[:0]
}
