// Package vad defines the per-frame speech probability models consumed by
// the segmenter.
package vad

import (
	"context"
	"io"
)

// SpeechProbability is a model's verdict for one frame. Only IsSpeech is
// compared against thresholds; the two values need not sum to 1.
type SpeechProbability struct {
	NotSpeech float64
	IsSpeech  float64
}

// FromIsSpeech builds a SpeechProbability with NotSpeech as the complement.
func FromIsSpeech(isSpeech float64) SpeechProbability {
	return SpeechProbability{
		NotSpeech: 1 - isSpeech,
		IsSpeech:  isSpeech,
	}
}

type ProbabilityModel interface {
	io.Closer

	// Infer returns the speech probability of a single frame. Models
	// with recurrent state carry it from one call to the next.
	Infer(ctx context.Context, samples []float32) (SpeechProbability, error)

	// ResetState clears the recurrent state. It is idempotent.
	ResetState(ctx context.Context) error
}
