//go:build rnnoise
// +build rnnoise

package rnnoise

import (
	"context"
	"fmt"
	"math"
	"sync"
	"unsafe"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
	"github.com/xaionaro-go/vadsegmenter/pkg/noisesuppression"
)

/*
#cgo pkg-config: rnnoise
#include <rnnoise.h>
*/
import "C"

// SampleRate is the only rate RNNoise's model was trained for.
const SampleRate = 48000

type RNNoise struct {
	Locker       sync.Mutex
	DenoiseState *C.DenoiseState
	Buffer       []float32
}

var _ noisesuppression.NoiseSuppression = (*RNNoise)(nil)

var frameSize int

func init() {
	frameSize = int(C.rnnoise_get_frame_size())
}

func New() (*RNNoise, error) {
	state := C.rnnoise_create(nil)
	if state == nil {
		return nil, fmt.Errorf("unable to create a denoise state")
	}
	return &RNNoise{
		DenoiseState: state,
		Buffer:       make([]float32, frameSize),
	}, nil
}

func (s *RNNoise) Close() error {
	s.Locker.Lock()
	defer s.Locker.Unlock()
	if s.DenoiseState == nil {
		return fmt.Errorf("double-free attempt")
	}
	C.rnnoise_destroy(s.DenoiseState)
	s.DenoiseState = nil
	return nil
}

func (*RNNoise) SampleRate() audio.SampleRate {
	return SampleRate
}

func (*RNNoise) FrameSize() int {
	return frameSize
}

func (s *RNNoise) Reset(ctx context.Context) error {
	logger.Tracef(ctx, "Reset")
	defer logger.Tracef(ctx, "/Reset")

	s.Locker.Lock()
	defer s.Locker.Unlock()
	if s.DenoiseState == nil {
		return fmt.Errorf("the denoise state is already destroyed")
	}
	if C.rnnoise_init(s.DenoiseState, nil) != 0 {
		return fmt.Errorf("unable to reinitialize the denoise state")
	}
	return nil
}

func (s *RNNoise) SuppressNoise(ctx context.Context, input []float32, outputVoice []float32) (_ret float64, _err error) {
	logger.Tracef(ctx, "SuppressNoise, len:%d", len(input))
	defer func() { logger.Tracef(ctx, "/SuppressNoise, len:%d: %v %v", len(input), _ret, _err) }()

	if len(input) != len(outputVoice) {
		return 0, fmt.Errorf("lengths of input and output slices are not equal: %d != %d", len(input), len(outputVoice))
	}
	if len(input) == 0 || len(input)%frameSize != 0 {
		return 0, fmt.Errorf("the size of the input is not a multiple of the frame size: %d %% %d != 0", len(input), frameSize)
	}

	s.Locker.Lock()
	defer s.Locker.Unlock()
	if s.DenoiseState == nil {
		return 0, fmt.Errorf("the denoise state is already destroyed")
	}

	var maxVADProb float64
	for len(input) > 0 {
		// RNNoise expects samples in the int16 range.
		for idx := range s.Buffer {
			s.Buffer[idx] = input[idx] * math.MaxInt16
		}
		out := outputVoice[:frameSize]
		vadProb := C.rnnoise_process_frame(
			s.DenoiseState,
			(*C.float)(unsafe.Pointer(unsafe.SliceData(out))),
			(*C.float)(unsafe.Pointer(unsafe.SliceData(s.Buffer))),
		)
		for idx := range out {
			out[idx] /= math.MaxInt16
		}
		if float64(vadProb) > maxVADProb {
			maxVADProb = float64(vadProb)
		}
		input = input[frameSize:]
		outputVoice = outputVoice[frameSize:]
	}
	return maxVADProb, nil
}
