package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// PlayerPCMDummy is the fallback when no playback backend works: the audio
// is consumed as if it was played instantly.
type PlayerPCMDummy struct{}

var _ PlayerPCM = PlayerPCMDummy{}

func (PlayerPCMDummy) Close() error {
	return nil
}

func (PlayerPCMDummy) Ping(context.Context) error {
	return nil
}

func (PlayerPCMDummy) PlayPCM(
	ctx context.Context,
	sampleRate SampleRate,
	channels Channel,
	format PCMFormat,
	bufferSize time.Duration,
	reader io.Reader,
) (PlayStream, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("invalid PCM format: %v", format)
	}
	return &discardStream{reader: reader}, nil
}

// discardStream reads its input to the end on Drain.
type discardStream struct {
	reader    io.Reader
	drainOnce sync.Once
	drainErr  error
}

var _ PlayStream = (*discardStream)(nil)

func (s *discardStream) Drain() error {
	s.drainOnce.Do(func() {
		if _, err := io.Copy(io.Discard, s.reader); err != nil {
			s.drainErr = fmt.Errorf("unable to consume the input: %w", err)
		}
	})
	return s.drainErr
}

func (s *discardStream) Close() error {
	return nil
}

// RecorderPCMDummy is the fallback when no capture backend works: it never
// writes anything.
type RecorderPCMDummy struct{}

var _ RecorderPCM = RecorderPCMDummy{}

func (RecorderPCMDummy) Close() error {
	return nil
}

func (RecorderPCMDummy) Ping(context.Context) error {
	return nil
}

func (RecorderPCMDummy) RecordPCM(
	ctx context.Context,
	sampleRate SampleRate,
	channels Channel,
	format PCMFormat,
	writer io.Writer,
) (RecordStream, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("invalid PCM format: %v", format)
	}
	return idleRecordStream{}, nil
}

type idleRecordStream struct{}

func (idleRecordStream) Close() error {
	return nil
}
