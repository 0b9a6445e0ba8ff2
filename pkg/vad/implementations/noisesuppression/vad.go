// Package noisesuppression adapts a noise suppressor which estimates voice
// probability (like RNNoise) into a vad.ProbabilityModel.
package noisesuppression

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/vadsegmenter/pkg/noisesuppression"
	"github.com/xaionaro-go/vadsegmenter/pkg/vad"
)

type VAD struct {
	NoiseSuppression noisesuppression.NoiseSuppression
	Buffer           []float32
}

var _ vad.ProbabilityModel = (*VAD)(nil)

func NewVAD(
	ctx context.Context,
	noiseSuppression noisesuppression.NoiseSuppression,
	frameSamples int,
) (*VAD, error) {
	subFrame := noiseSuppression.FrameSize()
	if subFrame > 0 && frameSamples%subFrame != 0 {
		return nil, fmt.Errorf("frame size %d is not a multiple of the noise suppressor's frame size %d", frameSamples, subFrame)
	}
	logger.Debugf(ctx, "frame size: %d; sub-frames: %d", frameSamples, subFramesCount(frameSamples, subFrame))
	return &VAD{
		NoiseSuppression: noiseSuppression,
		Buffer:           make([]float32, frameSamples),
	}, nil
}

func subFramesCount(frameSamples, subFrame int) int {
	if subFrame <= 0 {
		return 1
	}
	return frameSamples / subFrame
}

func (v *VAD) Close() error {
	return v.NoiseSuppression.Close()
}

func (v *VAD) Infer(
	ctx context.Context,
	samples []float32,
) (_ret vad.SpeechProbability, _err error) {
	logger.Tracef(ctx, "Infer")
	defer func() { logger.Tracef(ctx, "/Infer: %v %v", _ret, _err) }()

	if len(samples) != len(v.Buffer) {
		return vad.SpeechProbability{}, fmt.Errorf("expected %d samples, received %d", len(v.Buffer), len(samples))
	}
	voiceProb, err := v.NoiseSuppression.SuppressNoise(ctx, samples, v.Buffer)
	if err != nil {
		return vad.SpeechProbability{}, fmt.Errorf("unable to suppress noise: %w", err)
	}
	return vad.FromIsSpeech(voiceProb), nil
}

func (v *VAD) ResetState(ctx context.Context) error {
	if err := v.NoiseSuppression.Reset(ctx); err != nil {
		return fmt.Errorf("unable to reset the noise suppressor: %w", err)
	}
	return nil
}
