package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	ctx := context.Background()

	m, err := newModel(ctx, modelSpectral, "", 16000, 480)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	_, err = newModel(ctx, modelRNNoise, "", 16000, 480)
	require.ErrorContains(t, err, "48000Hz")

	_, err = newModel(ctx, modelLibFVAD, "loud", 16000, 480)
	require.Error(t, err)

	_, err = newModel(ctx, "silero", "", 16000, 480)
	require.ErrorContains(t, err, "unknown model")
}
