//go:build !libfvad
// +build !libfvad

package libfvad

import (
	"fmt"

	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
	"github.com/xaionaro-go/vadsegmenter/pkg/vad"
)

type VAD = vad.Dummy

func NewVAD(
	sampleRate audio.SampleRate,
	mode Mode,
) (*VAD, error) {
	return nil, fmt.Errorf("built without libfvad support")
}
