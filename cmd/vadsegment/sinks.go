package main

import (
	"context"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
	"github.com/xaionaro-go/vadsegmenter/pkg/segmenter"
)

type logSink struct {
	SampleRate audio.SampleRate
}

func (s logSink) OnEvent(ctx context.Context, event segmenter.Event) {
	switch event := event.(type) {
	case segmenter.FrameProcessed:
		logger.Tracef(ctx, "frame #%d: probability %.3f", event.FrameIndex, event.Probability.IsSpeech)
	case segmenter.SpeechStart:
		logger.Infof(ctx, "speech started at frame #%d", event.FrameIndex)
	case segmenter.SpeechEnd:
		logger.Infof(ctx, "speech ended at frame #%d (%v)", event.FrameIndex, s.duration(event.Audio))
	case segmenter.VADMisfire:
		logger.Infof(ctx, "misfire at frame #%d", event.FrameIndex)
	case segmenter.SpeechSegment:
		logger.Infof(ctx, "speech segment at frame #%d (%v)", event.FrameIndex, s.duration(event.Audio))
	}
}

func (s logSink) duration(samples []float32) time.Duration {
	if s.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(samples)) * time.Second / time.Duration(s.SampleRate)
}

// playbackSink replays utterances in the background, one after another.
type playbackSink struct {
	player     *audio.Player
	sampleRate audio.SampleRate
	queue      chan []float32
	pending    []float32
	wg         sync.WaitGroup
}

func newPlaybackSink(
	ctx context.Context,
	player *audio.Player,
	sampleRate audio.SampleRate,
) *playbackSink {
	s := &playbackSink{
		player:     player,
		sampleRate: sampleRate,
		queue:      make(chan []float32, 16),
	}
	s.wg.Add(1)
	observability.Go(ctx, func() {
		defer s.wg.Done()
		for samples := range s.queue {
			if err := s.player.PlaySamples(ctx, s.sampleRate, samples); err != nil {
				logger.Errorf(ctx, "unable to play back an utterance: %v", err)
			}
		}
	})
	return s
}

func (s *playbackSink) OnEvent(ctx context.Context, event segmenter.Event) {
	switch event := event.(type) {
	case segmenter.SpeechSegment:
		s.pending = append(s.pending, event.Audio...)
	case segmenter.VADMisfire:
		s.pending = nil
	case segmenter.SpeechEnd:
		samples := append(s.pending, event.Audio...)
		s.pending = nil
		select {
		case s.queue <- samples:
		default:
			logger.Warnf(ctx, "the playback queue is full, skipping an utterance")
		}
	}
}

func (s *playbackSink) Close() error {
	close(s.queue)
	s.wg.Wait()
	return s.player.Close()
}
