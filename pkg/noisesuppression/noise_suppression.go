package noisesuppression

import (
	"context"
	"io"

	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
)

// NoiseSuppression denoises mono float samples and reports how likely
// the processed audio contains voice.
type NoiseSuppression interface {
	io.Closer

	SampleRate() audio.SampleRate

	// FrameSize is the amount of samples processed at once; the input
	// of SuppressNoise must be a multiple of it.
	FrameSize() int

	// SuppressNoise returns the highest voice probability among
	// the processed sub-frames.
	SuppressNoise(ctx context.Context, input []float32, outputVoice []float32) (float64, error)

	// Reset drops the recurrent state accumulated by previous calls.
	Reset(ctx context.Context) error
}
