package noisesuppression

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
)

// Dummy passes audio through untouched and reports a constant voice
// probability.
type Dummy struct {
	SampleRateValue  audio.SampleRate
	FrameSizeValue   int
	VoiceProbability float64
}

var _ NoiseSuppression = (*Dummy)(nil)

func NewDummy(
	sampleRate audio.SampleRate,
	frameSize int,
	voiceProbability float64,
) *Dummy {
	return &Dummy{
		SampleRateValue:  sampleRate,
		FrameSizeValue:   frameSize,
		VoiceProbability: voiceProbability,
	}
}

func (*Dummy) Close() error {
	return nil
}

func (s *Dummy) SampleRate() audio.SampleRate {
	return s.SampleRateValue
}

func (s *Dummy) FrameSize() int {
	return s.FrameSizeValue
}

func (s *Dummy) SuppressNoise(_ context.Context, input []float32, outputVoice []float32) (float64, error) {
	if len(input) != len(outputVoice) {
		return 0, fmt.Errorf("lengths of input and output slices are not equal: %d != %d", len(input), len(outputVoice))
	}
	copy(outputVoice, input)
	return s.VoiceProbability, nil
}

func (*Dummy) Reset(context.Context) error {
	return nil
}
