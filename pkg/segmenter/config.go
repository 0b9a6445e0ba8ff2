package segmenter

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/types"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// FrameSamples is the length of every frame, in samples.
	FrameSamples int `yaml:"frame_samples"`

	// PositiveSpeechThreshold is the speech probability at or above which
	// a frame starts (or reaffirms) speech.
	PositiveSpeechThreshold float64 `yaml:"positive_speech_threshold"`

	// NegativeSpeechThreshold is the speech probability below which a
	// frame counts towards ending the speech.
	NegativeSpeechThreshold float64 `yaml:"negative_speech_threshold"`

	// RedemptionFrames is the amount of consecutive frames below
	// NegativeSpeechThreshold which end the speech.
	RedemptionFrames int `yaml:"redemption_frames"`

	// PreSpeechPadFrames is the amount of frames preceding the onset
	// which are prepended to the utterance.
	PreSpeechPadFrames int `yaml:"pre_speech_pad_frames"`

	// MinSpeechFrames is the minimal length of an utterance (pad frames
	// excluded); shorter ones are reported as a misfire.
	MinSpeechFrames int `yaml:"min_speech_frames"`

	// MaxSpeechFrames is the maximal amount of buffered frames, pad frames
	// included; reaching it flushes them as a segment while the speech
	// continues. It has to exceed PreSpeechPadFrames.
	MaxSpeechFrames int `yaml:"max_speech_frames"`
}

// DefaultConfig returns the configuration tuned for 30ms frames at 16kHz.
func DefaultConfig() Config {
	return Config{
		FrameSamples:            480,
		PositiveSpeechThreshold: 0.5,
		NegativeSpeechThreshold: 0.35,
		RedemptionFrames:        8,
		PreSpeechPadFrames:      1,
		MinSpeechFrames:         3,
		MaxSpeechFrames:         1000,
	}
}

// Validate returns every invalid field as a *ConfigError, aggregated into
// a *multierror.Error.
func (cfg Config) Validate() error {
	var mErr *multierror.Error
	fail := func(field, reason string, args ...any) {
		mErr = multierror.Append(mErr, &ConfigError{
			Field:  field,
			Reason: fmt.Sprintf(reason, args...),
		})
	}

	if cfg.FrameSamples <= 0 {
		fail("frame_samples", "should be positive, but is %d", cfg.FrameSamples)
	}
	if !isProbability(cfg.PositiveSpeechThreshold) {
		fail("positive_speech_threshold", "should be within [0, 1], but is %v", cfg.PositiveSpeechThreshold)
	}
	if !isProbability(cfg.NegativeSpeechThreshold) {
		fail("negative_speech_threshold", "should be within [0, 1], but is %v", cfg.NegativeSpeechThreshold)
	}
	if cfg.NegativeSpeechThreshold > cfg.PositiveSpeechThreshold {
		fail("negative_speech_threshold", "should not exceed positive_speech_threshold (%v), but is %v", cfg.PositiveSpeechThreshold, cfg.NegativeSpeechThreshold)
	}
	if cfg.RedemptionFrames < 0 {
		fail("redemption_frames", "should not be negative, but is %d", cfg.RedemptionFrames)
	}
	if cfg.PreSpeechPadFrames < 0 {
		fail("pre_speech_pad_frames", "should not be negative, but is %d", cfg.PreSpeechPadFrames)
	}
	if cfg.MinSpeechFrames < 1 {
		fail("min_speech_frames", "should be at least 1, but is %d", cfg.MinSpeechFrames)
	}
	if cfg.MaxSpeechFrames < cfg.MinSpeechFrames {
		fail("max_speech_frames", "should not be less than min_speech_frames (%d), but is %d", cfg.MinSpeechFrames, cfg.MaxSpeechFrames)
	}
	if cfg.PreSpeechPadFrames >= 0 && cfg.MaxSpeechFrames <= cfg.PreSpeechPadFrames {
		fail("max_speech_frames", "should exceed pre_speech_pad_frames (%d), but is %d", cfg.PreSpeechPadFrames, cfg.MaxSpeechFrames)
	}
	return mErr.ErrorOrNil()
}

func isProbability(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// FrameDuration returns the duration covered by one frame.
func (cfg Config) FrameDuration(sampleRate types.SampleRate) time.Duration {
	if sampleRate == 0 {
		return 0
	}
	return time.Duration(cfg.FrameSamples) * time.Second / time.Duration(sampleRate)
}

// FramesForDuration returns the amount of frames needed to cover the given
// duration, rounded up.
func (cfg Config) FramesForDuration(d time.Duration, sampleRate types.SampleRate) int {
	frameDuration := cfg.FrameDuration(sampleRate)
	if frameDuration <= 0 || d <= 0 {
		return 0
	}
	return int((d + frameDuration - 1) / frameDuration)
}

// LoadConfig reads a YAML file at path on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to open '%s': %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadConfigFromReader(f)
	if err != nil {
		return Config{}, fmt.Errorf("unable to load '%s': %w", path, err)
	}
	return cfg, nil
}

// LoadConfigFromReader decodes YAML on top of DefaultConfig and validates
// the result. Unknown fields are rejected.
func LoadConfigFromReader(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("unable to decode YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
