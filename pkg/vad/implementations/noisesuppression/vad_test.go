package noisesuppression

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/vadsegmenter/pkg/noisesuppression"
)

func TestVAD(t *testing.T) {
	ctx := context.Background()

	v, err := NewVAD(ctx, noisesuppression.NewDummy(48000, 480, 0.75), 960)
	require.NoError(t, err)
	defer v.Close()

	prob, err := v.Infer(ctx, make([]float32, 960))
	require.NoError(t, err)
	assert.Equal(t, 0.75, prob.IsSpeech)
	assert.Equal(t, 0.25, prob.NotSpeech)

	_, err = v.Infer(ctx, make([]float32, 480))
	require.Error(t, err)

	require.NoError(t, v.ResetState(ctx))
}

func TestNewVADFrameMismatch(t *testing.T) {
	_, err := NewVAD(context.Background(), noisesuppression.NewDummy(48000, 480, 0), 500)
	require.Error(t, err)
}
