package segmenter

// SilenceEpsilon is the maximal absolute sample value of a silent frame.
const SilenceEpsilon = 1e-4

type Frame struct {
	Samples []float32

	// Silent frames are treated as non-speech without calling the model.
	Silent bool
}

// NewFrame wraps samples, flagging them as silent if every sample is within
// SilenceEpsilon of zero.
func NewFrame(samples []float32) Frame {
	return Frame{
		Samples: samples,
		Silent:  IsSilent(samples),
	}
}

func IsSilent(samples []float32) bool {
	for _, sample := range samples {
		if sample > SilenceEpsilon || sample < -SilenceEpsilon {
			return false
		}
	}
	return true
}
