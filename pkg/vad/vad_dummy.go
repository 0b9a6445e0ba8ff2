package vad

import (
	"context"
)

// Dummy always reports the same probability.
type Dummy struct {
	Probability SpeechProbability
}

var _ ProbabilityModel = (*Dummy)(nil)

func NewDummy(isSpeech float64) *Dummy {
	return &Dummy{
		Probability: FromIsSpeech(isSpeech),
	}
}

func (*Dummy) Close() error {
	return nil
}

func (d *Dummy) Infer(context.Context, []float32) (SpeechProbability, error) {
	return d.Probability, nil
}

func (*Dummy) ResetState(context.Context) error {
	return nil
}
