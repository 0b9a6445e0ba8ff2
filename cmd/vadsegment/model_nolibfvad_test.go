//go:build !libfvad
// +build !libfvad

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewModelWithoutLibFVAD(t *testing.T) {
	_, err := newModel(context.Background(), modelLibFVAD, "aggressive", 16000, 480)
	require.ErrorContains(t, err, "built without libfvad support")
}
