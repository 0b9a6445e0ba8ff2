package libfvad

import (
	"fmt"
	"strings"
)

// Mode is the aggressiveness of the detector: the higher, the more
// likely a frame is classified as non-speech.
type Mode int

const (
	ModeQuality = Mode(iota)
	ModeLowBitrate
	ModeAggressive
	ModeVeryAggressive
	endOfMode
)

func (m Mode) IsValid() bool {
	return m >= ModeQuality && m < endOfMode
}

func (m Mode) String() string {
	switch m {
	case ModeQuality:
		return "quality"
	case ModeLowBitrate:
		return "low-bitrate"
	case ModeAggressive:
		return "aggressive"
	case ModeVeryAggressive:
		return "very-aggressive"
	}
	return fmt.Sprintf("unknown_mode_%d", int(m))
}

func ParseMode(s string) (Mode, error) {
	for m := ModeQuality; m < endOfMode; m++ {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return ModeQuality, fmt.Errorf("unknown mode '%s'", s)
}
