//go:build libfvad
// +build libfvad

package libfvad

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVADSilence(t *testing.T) {
	ctx := context.Background()

	v, err := NewVAD(16000, ModeAggressive)
	require.NoError(t, err)
	defer v.Close()

	for _, frameSamples := range []int{160, 320, 480, 640} {
		prob, err := v.Infer(ctx, make([]float32, frameSamples))
		require.NoError(t, err, frameSamples)
		assert.Equal(t, float64(0), prob.IsSpeech, frameSamples)
	}

	_, err = v.Infer(ctx, make([]float32, 100))
	require.Error(t, err)

	require.NoError(t, v.ResetState(ctx))
	require.NoError(t, v.ResetState(ctx))
	_, err = v.Infer(ctx, make([]float32, 480))
	require.NoError(t, err)
}

func TestVADClose(t *testing.T) {
	ctx := context.Background()

	v, err := NewVAD(16000, ModeQuality)
	require.NoError(t, err)
	require.NoError(t, v.Close())
	require.NoError(t, v.Close())

	_, err = v.Infer(ctx, make([]float32, 160))
	require.Error(t, err)
	require.Error(t, v.ResetState(ctx))
}

func TestNewVADInvalidSampleRate(t *testing.T) {
	_, err := NewVAD(44100, ModeQuality)
	require.Error(t, err)
}

func TestNewVADInvalidMode(t *testing.T) {
	_, err := NewVAD(16000, Mode(7))
	require.Error(t, err)
}
