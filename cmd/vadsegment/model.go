package main

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
	"github.com/xaionaro-go/vadsegmenter/pkg/noisesuppression/implementations/rnnoise"
	"github.com/xaionaro-go/vadsegmenter/pkg/vad"
	"github.com/xaionaro-go/vadsegmenter/pkg/vad/implementations/libfvad"
	nsvad "github.com/xaionaro-go/vadsegmenter/pkg/vad/implementations/noisesuppression"
	"github.com/xaionaro-go/vadsegmenter/pkg/vad/implementations/spectral"
)

const (
	modelSpectral = "spectral"
	modelLibFVAD  = "libfvad"
	modelRNNoise  = "rnnoise"
)

func newModel(
	ctx context.Context,
	name string,
	libfvadMode string,
	sampleRate audio.SampleRate,
	frameSamples int,
) (vad.ProbabilityModel, error) {
	switch name {
	case modelSpectral:
		return spectral.NewVAD(spectral.DefaultConfig(sampleRate))
	case modelLibFVAD:
		mode, err := libfvad.ParseMode(libfvadMode)
		if err != nil {
			return nil, err
		}
		v, err := libfvad.NewVAD(sampleRate, mode)
		if err != nil {
			return nil, fmt.Errorf("unable to initialize libfvad (build with tag 'libfvad' to enable it): %w", err)
		}
		return v, nil
	case modelRNNoise:
		if sampleRate != rnnoise.SampleRate {
			return nil, fmt.Errorf("rnnoise works only at %dHz, but the sample rate is %d", rnnoise.SampleRate, sampleRate)
		}
		ns, err := rnnoise.New()
		if err != nil {
			return nil, fmt.Errorf("unable to initialize rnnoise: %w", err)
		}
		v, err := nsvad.NewVAD(ctx, ns, frameSamples)
		if err != nil {
			_ = ns.Close()
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown model '%s'", name)
}
