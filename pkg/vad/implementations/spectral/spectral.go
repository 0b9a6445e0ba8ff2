// Package spectral implements a lightweight pure-Go speech probability
// model.
//
// Each frame is Hann-windowed and transformed with an FFT. The share of
// the (non-DC) signal power which falls into the voice band is multiplied
// by a loudness gate derived from the frame's RMS level, and the result is
// exponentially smoothed across frames.
package spectral

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/mjibson/go-dsp/fft"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
	"github.com/xaionaro-go/vadsegmenter/pkg/vad"
)

type Config struct {
	SampleRate audio.SampleRate

	// MinFreq and MaxFreq bound the voice band, in Hz.
	MinFreq float64
	MaxFreq float64

	// LoudnessFloorDB is the RMS level (dBFS) at which the loudness gate
	// lets through half of the band ratio.
	LoudnessFloorDB float64

	// LoudnessSlopeDB is how many dB above the floor raise the gate from
	// 0.5 to ~0.73.
	LoudnessSlopeDB float64

	// Smoothing is the weight of the previous output, in [0, 1).
	Smoothing float64
}

func DefaultConfig(sampleRate audio.SampleRate) Config {
	return Config{
		SampleRate:      sampleRate,
		MinFreq:         300,
		MaxFreq:         3400,
		LoudnessFloorDB: -45,
		LoudnessSlopeDB: 3,
		Smoothing:       0.5,
	}
}

func (cfg Config) Validate() error {
	switch {
	case cfg.SampleRate == 0:
		return fmt.Errorf("sample rate is mandatory")
	case cfg.MinFreq < 0 || cfg.MinFreq >= cfg.MaxFreq:
		return fmt.Errorf("invalid voice band: [%v, %v]", cfg.MinFreq, cfg.MaxFreq)
	case cfg.MaxFreq > float64(cfg.SampleRate)/2:
		return fmt.Errorf("the voice band upper bound %v is above the Nyquist frequency %v", cfg.MaxFreq, float64(cfg.SampleRate)/2)
	case cfg.LoudnessSlopeDB <= 0:
		return fmt.Errorf("loudness slope must be positive: %v", cfg.LoudnessSlopeDB)
	case cfg.Smoothing < 0 || cfg.Smoothing >= 1:
		return fmt.Errorf("smoothing must be in [0, 1): %v", cfg.Smoothing)
	}
	return nil
}

type VAD struct {
	Config Config

	locker   sync.Mutex
	window   []float64
	buffer   []float64
	previous float64
	hasState bool
}

var _ vad.ProbabilityModel = (*VAD)(nil)

func NewVAD(cfg Config) (*VAD, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &VAD{
		Config: cfg,
	}, nil
}

func (v *VAD) Close() error {
	return nil
}

func (v *VAD) ResetState(ctx context.Context) error {
	logger.Tracef(ctx, "ResetState")
	defer logger.Tracef(ctx, "/ResetState")

	v.locker.Lock()
	defer v.locker.Unlock()
	v.previous = 0
	v.hasState = false
	return nil
}

func (v *VAD) Infer(
	ctx context.Context,
	samples []float32,
) (_ret vad.SpeechProbability, _err error) {
	logger.Tracef(ctx, "Infer")
	defer func() { logger.Tracef(ctx, "/Infer: %v %v", _ret, _err) }()

	if len(samples) < 2 {
		return vad.SpeechProbability{}, fmt.Errorf("a frame should contain at least 2 samples, received %d", len(samples))
	}

	v.locker.Lock()
	defer v.locker.Unlock()

	raw := v.rawProbability(samples)
	result := raw
	if v.hasState {
		result = v.Config.Smoothing*v.previous + (1-v.Config.Smoothing)*raw
	}
	v.previous = result
	v.hasState = true
	return vad.FromIsSpeech(result), nil
}

func (v *VAD) rawProbability(samples []float32) float64 {
	n := len(samples)
	if len(v.window) != n {
		v.window = hannWindow(n)
		v.buffer = make([]float64, n)
	}

	var sumSquares float64
	for idx, sample := range samples {
		s := float64(sample)
		sumSquares += s * s
		v.buffer[idx] = s * v.window[idx]
	}
	if sumSquares == 0 {
		return 0
	}
	rms := math.Sqrt(sumSquares / float64(n))

	spectrum := fft.FFTReal(v.buffer)
	binWidth := float64(v.Config.SampleRate) / float64(n)
	var bandPower, totalPower float64
	for k := 1; k <= n/2; k++ {
		re, im := real(spectrum[k]), imag(spectrum[k])
		power := re*re + im*im
		totalPower += power
		freq := float64(k) * binWidth
		if freq >= v.Config.MinFreq && freq <= v.Config.MaxFreq {
			bandPower += power
		}
	}
	if totalPower == 0 {
		return 0
	}

	rmsDB := 20 * math.Log10(rms)
	gate := sigmoid((rmsDB - v.Config.LoudnessFloorDB) / v.Config.LoudnessSlopeDB)
	return clamp01(bandPower / totalPower * gate)
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for idx := range w {
		w[idx] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(idx)/float64(n-1))
	}
	return w
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
