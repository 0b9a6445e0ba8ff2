//go:build libfvad
// +build libfvad

// Package libfvad implements vad.ProbabilityModel on top of the WebRTC
// voice activity detector.
package libfvad

import (
	"context"
	"fmt"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/josharian/fvad"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/pcm"
	"github.com/xaionaro-go/vadsegmenter/pkg/vad"
)

type VAD struct {
	locker     sync.Mutex
	detector   *fvad.Detector
	sampleRate audio.SampleRate
	mode       Mode
	subFrame   int
	buffer     []int16
}

var _ vad.ProbabilityModel = (*VAD)(nil)

// NewVAD creates a detector. Frames passed to Infer must be either a valid
// WebRTC frame (10, 20 or 30ms) or a multiple of 10ms; in the latter case
// the probability is the share of voiced 10ms sub-frames.
func NewVAD(
	sampleRate audio.SampleRate,
	mode Mode,
) (*VAD, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid mode %d", mode)
	}
	v := &VAD{
		sampleRate: sampleRate,
		mode:       mode,
		subFrame:   int(sampleRate) / 100,
	}
	if err := v.init(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *VAD) init() error {
	detector := fvad.NewDetector()
	if detector == nil {
		return fmt.Errorf("unable to allocate a detector")
	}
	if err := detector.SetMode(int(v.mode)); err != nil {
		detector.Close()
		return fmt.Errorf("unable to set mode %d: %w", v.mode, err)
	}
	if err := detector.SetSampleRate(int(v.sampleRate)); err != nil {
		detector.Close()
		return fmt.Errorf("unable to set sample rate %d: %w", v.sampleRate, err)
	}
	v.detector = detector
	return nil
}

func (v *VAD) Close() error {
	v.locker.Lock()
	defer v.locker.Unlock()
	if v.detector == nil {
		return nil
	}
	v.detector.Close()
	v.detector = nil
	return nil
}

func (v *VAD) isValidFrameLength(n int) bool {
	return n == v.subFrame || n == 2*v.subFrame || n == 3*v.subFrame
}

func (v *VAD) Infer(
	ctx context.Context,
	samples []float32,
) (_ret vad.SpeechProbability, _err error) {
	logger.Tracef(ctx, "Infer")
	defer func() { logger.Tracef(ctx, "/Infer: %v %v", _ret, _err) }()

	v.locker.Lock()
	defer v.locker.Unlock()
	if v.detector == nil {
		return vad.SpeechProbability{}, fmt.Errorf("the detector is closed")
	}

	if cap(v.buffer) < len(samples) {
		v.buffer = make([]int16, len(samples))
	}
	buf := v.buffer[:len(samples)]
	for idx, sample := range samples {
		buf[idx] = pcm.ToInt16(sample)
	}

	if v.isValidFrameLength(len(buf)) {
		isSpeech, err := v.detector.Process(buf)
		if err != nil {
			return vad.SpeechProbability{}, fmt.Errorf("unable to process the frame: %w", err)
		}
		return vad.FromIsSpeech(boolToFloat(isSpeech)), nil
	}

	if len(buf) == 0 || len(buf)%v.subFrame != 0 {
		return vad.SpeechProbability{}, fmt.Errorf("frame length %d is not a multiple of 10ms (%d samples)", len(buf), v.subFrame)
	}
	var voiced, total int
	for ; len(buf) > 0; buf = buf[v.subFrame:] {
		isSpeech, err := v.detector.Process(buf[:v.subFrame])
		if err != nil {
			return vad.SpeechProbability{}, fmt.Errorf("unable to process sub-frame %d: %w", total, err)
		}
		if isSpeech {
			voiced++
		}
		total++
	}
	return vad.FromIsSpeech(float64(voiced) / float64(total)), nil
}

func (v *VAD) ResetState(ctx context.Context) error {
	logger.Tracef(ctx, "ResetState")
	defer logger.Tracef(ctx, "/ResetState")

	v.locker.Lock()
	defer v.locker.Unlock()
	if v.detector == nil {
		return fmt.Errorf("the detector is closed")
	}
	v.detector.Reset()
	// Reset also drops the mode and the sample rate.
	if err := v.detector.SetMode(int(v.mode)); err != nil {
		return fmt.Errorf("unable to set mode %d: %w", v.mode, err)
	}
	if err := v.detector.SetSampleRate(int(v.sampleRate)); err != nil {
		return fmt.Errorf("unable to set sample rate %d: %w", v.sampleRate, err)
	}
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
