package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/vadsegmenter/pkg/segmenter"
)

func TestPlaybackSinkQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("segments_are_joined", func(t *testing.T) {
		s := &playbackSink{queue: make(chan []float32, 1)}
		s.OnEvent(ctx, segmenter.SpeechStart{FrameIndex: 0})
		s.OnEvent(ctx, segmenter.SpeechSegment{FrameIndex: 3, Audio: []float32{1, 2}})
		s.OnEvent(ctx, segmenter.SpeechEnd{FrameIndex: 5, Audio: []float32{3}})

		require.Len(t, s.queue, 1)
		assert.Equal(t, []float32{1, 2, 3}, <-s.queue)
		assert.Nil(t, s.pending)
	})

	t.Run("misfire_drops_segments", func(t *testing.T) {
		s := &playbackSink{queue: make(chan []float32, 1)}
		s.OnEvent(ctx, segmenter.SpeechStart{FrameIndex: 0})
		s.OnEvent(ctx, segmenter.SpeechSegment{FrameIndex: 0, Audio: []float32{1, 2}})
		s.OnEvent(ctx, segmenter.VADMisfire{FrameIndex: 2})
		assert.Empty(t, s.queue)

		s.OnEvent(ctx, segmenter.SpeechStart{FrameIndex: 10})
		s.OnEvent(ctx, segmenter.SpeechEnd{FrameIndex: 15, Audio: []float32{7, 8}})
		require.Len(t, s.queue, 1)
		assert.Equal(t, []float32{7, 8}, <-s.queue)
	})

	t.Run("full_queue_skips", func(t *testing.T) {
		s := &playbackSink{queue: make(chan []float32, 1)}
		s.OnEvent(ctx, segmenter.SpeechEnd{FrameIndex: 1, Audio: []float32{1}})
		s.OnEvent(ctx, segmenter.SpeechEnd{FrameIndex: 2, Audio: []float32{2}})
		require.Len(t, s.queue, 1)
		assert.Equal(t, []float32{1}, <-s.queue)
	})
}
