// Package mock provides a scripted vad.ProbabilityModel for tests.
//
// Example:
//
//	model := &mock.Model{Script: []float64{0.1, 0.9, 0.9, 0.2}}
//	seg, _ := segmenter.New(cfg, model, sink)
package mock

import (
	"context"
	"sync"

	"github.com/xaionaro-go/vadsegmenter/pkg/vad"
)

// InferCall records a single invocation of Model.Infer.
type InferCall struct {
	// Samples is a copy of the samples passed to Infer.
	Samples []float32
}

// Model is a mock implementation of vad.ProbabilityModel.
type Model struct {
	mu sync.Mutex

	// Script holds the IsSpeech value returned by the n-th Infer call.
	Script []float64

	// Default is returned once Script is exhausted.
	Default float64

	// InferErrs maps an Infer call index to the error it returns.
	InferErrs map[int]error

	// ResetStateErr, if non-nil, is returned by every ResetState call.
	ResetStateErr error

	// CloseErr, if non-nil, is returned by Close.
	CloseErr error

	// InferCalls records every call to Infer in order.
	InferCalls []InferCall

	// ResetStateCallCount is the number of times ResetState was called.
	ResetStateCallCount int

	// CloseCallCount is the number of times Close was called.
	CloseCallCount int
}

// Ensure Model implements vad.ProbabilityModel at compile time.
var _ vad.ProbabilityModel = (*Model)(nil)

// Infer records the call and returns the next scripted probability.
func (m *Model) Infer(_ context.Context, samples []float32) (vad.SpeechProbability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := len(m.InferCalls)
	cp := make([]float32, len(samples))
	copy(cp, samples)
	m.InferCalls = append(m.InferCalls, InferCall{Samples: cp})

	if err := m.InferErrs[idx]; err != nil {
		return vad.SpeechProbability{}, err
	}
	isSpeech := m.Default
	if idx < len(m.Script) {
		isSpeech = m.Script[idx]
	}
	return vad.FromIsSpeech(isSpeech), nil
}

// ResetState records the call and returns ResetStateErr.
func (m *Model) ResetState(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetStateCallCount++
	return m.ResetStateErr
}

// Close records the call and returns CloseErr.
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCallCount++
	return m.CloseErr
}

// InferCallCount returns the number of Infer calls so far. Thread-safe.
func (m *Model) InferCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.InferCalls)
}

// ResetStateCalls returns ResetStateCallCount. Thread-safe.
func (m *Model) ResetStateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ResetStateCallCount
}
