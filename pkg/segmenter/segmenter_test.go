package segmenter

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/vadsegmenter/pkg/vad"
	"github.com/xaionaro-go/vadsegmenter/pkg/vad/mock"
)

type recordingSink struct {
	events []Event
}

func (s *recordingSink) OnEvent(_ context.Context, event Event) {
	s.events = append(s.events, event)
}

// lifecycle returns all the events except FrameProcessed.
func (s *recordingSink) lifecycle() []Event {
	var result []Event
	for _, event := range s.events {
		if event.Kind() != EventKindFrameProcessed {
			result = append(result, event)
		}
	}
	return result
}

// markedFrame returns a non-silent frame whose samples identify its index.
func markedFrame(frameSamples int, frameIndex int) Frame {
	samples := make([]float32, frameSamples)
	for idx := range samples {
		samples[idx] = markOf(frameIndex)
	}
	return NewFrame(samples)
}

func markOf(frameIndex int) float32 {
	return float32(frameIndex+1) / 1000
}

type testSetup struct {
	cfg   Config
	model *mock.Model
	sink  *recordingSink
	seg   *Segmenter
}

func newTestSetup(t *testing.T, cfg Config, probs ...float64) *testSetup {
	model := &mock.Model{Script: probs}
	sink := &recordingSink{}
	seg, err := New(cfg, model, sink)
	require.NoError(t, err)
	return &testSetup{
		cfg:   cfg,
		model: model,
		sink:  sink,
		seg:   seg,
	}
}

func (ts *testSetup) run(t *testing.T, count int) []Result {
	ctx := context.Background()
	var results []Result
	for idx := 0; idx < count; idx++ {
		result, err := ts.seg.Process(ctx, markedFrame(ts.cfg.FrameSamples, int(ts.seg.FrameIndex())))
		require.NoError(t, err, "frame #%d", idx)
		results = append(results, result)
	}
	return results
}

func assertFramesMarked(t *testing.T, frameSamples int, audio []float32, firstFrameIndex int) {
	require.Zero(t, len(audio)%frameSamples)
	for frame := 0; frame < len(audio)/frameSamples; frame++ {
		assert.Equal(t, markOf(firstFrameIndex+frame), audio[frame*frameSamples], "frame %d of the payload", frame)
		assert.Equal(t, markOf(firstFrameIndex+frame), audio[(frame+1)*frameSamples-1], "frame %d of the payload", frame)
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.FrameSamples = 16
	return cfg
}

func TestWorkedExample(t *testing.T) {
	ts := newTestSetup(t, DefaultConfig(),
		0.1, 0.1, 0.6, 0.7, 0.8, 0.2, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1,
	)
	results := ts.run(t, 15)

	lifecycle := ts.sink.lifecycle()
	require.Len(t, lifecycle, 2)
	assert.Equal(t, SpeechStart{FrameIndex: 2}, lifecycle[0])
	end, ok := lifecycle[1].(SpeechEnd)
	require.True(t, ok, "%T", lifecycle[1])
	assert.Equal(t, uint64(12), end.FrameIndex)
	assert.Len(t, end.Audio, 5760)
	assertFramesMarked(t, 480, end.Audio, 1)

	for idx, result := range results {
		assert.Equal(t, uint64(idx), result.FrameIndex)
		assert.NoError(t, result.InferenceError)
		switch idx {
		case 2:
			assert.Equal(t, EventKindSpeechStart, result.Event.Kind())
		case 12:
			assert.Equal(t, EventKindSpeechEnd, result.Event.Kind())
		default:
			assert.Nil(t, result.Event, "frame #%d", idx)
		}
	}
	assert.Equal(t, 0.6, results[2].Probability.IsSpeech)

	assert.Len(t, ts.sink.events, 15+2)
	assert.Equal(t, 1, ts.model.ResetStateCallCount)
	assert.Equal(t, StateIdle, ts.seg.State())
}

func TestFrameProcessedPrecedesLifecycleEvent(t *testing.T) {
	ts := newTestSetup(t, testConfig(), 0.9)
	ts.run(t, 1)

	require.Len(t, ts.sink.events, 2)
	assert.Equal(t, FrameProcessed{FrameIndex: 0, Probability: vad.FromIsSpeech(0.9)}, ts.sink.events[0])
	assert.Equal(t, SpeechStart{FrameIndex: 0}, ts.sink.events[1])
}

func TestMisfire(t *testing.T) {
	cfg := testConfig()
	cfg.RedemptionFrames = 3
	cfg.PreSpeechPadFrames = 2
	cfg.MinSpeechFrames = 5

	ts := newTestSetup(t, cfg, 0.1, 0.9, 0.1, 0.1, 0.1, 0.1)
	ts.run(t, 6)

	assert.Equal(t, []Event{
		SpeechStart{FrameIndex: 1},
		VADMisfire{FrameIndex: 4},
	}, ts.sink.lifecycle())
	assert.Equal(t, StateIdle, ts.seg.State())
	assert.Zero(t, ts.seg.BufferedFrames())
	assert.Equal(t, 1, ts.model.ResetStateCallCount)
}

func TestRoundTrip(t *testing.T) {
	cfg := testConfig()
	cfg.RedemptionFrames = 3
	cfg.PreSpeechPadFrames = 2
	cfg.MinSpeechFrames = 3

	t.Run("full_pad", func(t *testing.T) {
		ts := newTestSetup(t, cfg, 0.1, 0.1, 0.1, 0.9, 0.9, 0.9, 0.1, 0.1, 0.1)
		ts.run(t, 9)

		lifecycle := ts.sink.lifecycle()
		require.Len(t, lifecycle, 2)
		assert.Equal(t, SpeechStart{FrameIndex: 3}, lifecycle[0])
		end := lifecycle[1].(SpeechEnd)
		assert.Equal(t, uint64(8), end.FrameIndex)
		const n = 6 // frames #3..#8
		assert.Len(t, end.Audio, (cfg.PreSpeechPadFrames+n)*cfg.FrameSamples)
		assertFramesMarked(t, cfg.FrameSamples, end.Audio, 1)
	})

	t.Run("short_pad", func(t *testing.T) {
		ts := newTestSetup(t, cfg, 0.9, 0.9, 0.9, 0.1, 0.1, 0.1)
		ts.run(t, 6)

		lifecycle := ts.sink.lifecycle()
		require.Len(t, lifecycle, 2)
		end := lifecycle[1].(SpeechEnd)
		assert.Len(t, end.Audio, 6*cfg.FrameSamples)
		assertFramesMarked(t, cfg.FrameSamples, end.Audio, 0)
	})

	t.Run("minimal_length", func(t *testing.T) {
		cfg := cfg
		cfg.RedemptionFrames = 2
		ts := newTestSetup(t, cfg, 0.9, 0.1, 0.1)
		ts.run(t, 3)

		lifecycle := ts.sink.lifecycle()
		require.Len(t, lifecycle, 2)
		assert.Equal(t, EventKindSpeechEnd, lifecycle[1].Kind())
	})
}

func TestChunking(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSpeechFrames = 4
	cfg.MinSpeechFrames = 2
	cfg.RedemptionFrames = 2

	t.Run("no_pad", func(t *testing.T) {
		cfg := cfg
		cfg.PreSpeechPadFrames = 0
		ts := newTestSetup(t, cfg)
		ts.model.Default = 0.9
		ts.run(t, 10)

		lifecycle := ts.sink.lifecycle()
		require.Len(t, lifecycle, 3)
		assert.Equal(t, SpeechStart{FrameIndex: 0}, lifecycle[0])
		for idx, event := range lifecycle[1:] {
			segment, ok := event.(SpeechSegment)
			require.True(t, ok, "%T", event)
			assert.Equal(t, uint64(3+4*idx), segment.FrameIndex)
			assert.Len(t, segment.Audio, cfg.MaxSpeechFrames*cfg.FrameSamples)
			assertFramesMarked(t, cfg.FrameSamples, segment.Audio, 4*idx)
		}
		assert.Equal(t, StateActiveSpeech, ts.seg.State())
		assert.Equal(t, 10, ts.seg.UtteranceFrames())
		assert.Equal(t, 2, ts.seg.BufferedFrames())
		assert.Zero(t, ts.model.ResetStateCallCount)
	})

	t.Run("with_pad", func(t *testing.T) {
		cfg := cfg
		cfg.PreSpeechPadFrames = 2
		ts := newTestSetup(t, cfg, 0.1, 0.1)
		ts.model.Default = 0.9
		ts.run(t, 2+9)

		lifecycle := ts.sink.lifecycle()
		require.Len(t, lifecycle, 3)
		first := lifecycle[1].(SpeechSegment)
		assert.Equal(t, uint64(3), first.FrameIndex)
		assert.Len(t, first.Audio, cfg.MaxSpeechFrames*cfg.FrameSamples)
		assertFramesMarked(t, cfg.FrameSamples, first.Audio, 0)
		second := lifecycle[2].(SpeechSegment)
		assert.Equal(t, uint64(7), second.FrameIndex)
		assertFramesMarked(t, cfg.FrameSamples, second.Audio, 4)
	})

	t.Run("segment_has_priority_over_redemption", func(t *testing.T) {
		cfg := cfg
		cfg.PreSpeechPadFrames = 0
		cfg.RedemptionFrames = 1
		ts := newTestSetup(t, cfg, 0.9, 0.9, 0.9, 0.1, 0.1)
		ts.run(t, 5)

		lifecycle := ts.sink.lifecycle()
		require.Len(t, lifecycle, 3)
		assert.Equal(t, EventKindSpeechSegment, lifecycle[1].Kind())
		assert.Equal(t, uint64(3), lifecycle[1].Frame())
		end := lifecycle[2].(SpeechEnd)
		assert.Equal(t, uint64(4), end.FrameIndex)
		assertFramesMarked(t, cfg.FrameSamples, end.Audio, 4)
	})
}

func TestReaffirmation(t *testing.T) {
	cfg := testConfig()
	cfg.RedemptionFrames = 3
	ts := newTestSetup(t, cfg, 0.9, 0.1, 0.1, 0.9, 0.1, 0.1, 0.4, 0.1, 0.1)

	ts.run(t, 3)
	assert.Equal(t, 2, ts.seg.RedemptionCount())

	ts.run(t, 1)
	assert.Equal(t, 0, ts.seg.RedemptionCount())

	ts.run(t, 2)
	assert.Equal(t, 2, ts.seg.RedemptionCount())

	// between the thresholds: neither speech nor silence
	ts.run(t, 1)
	assert.Equal(t, 0, ts.seg.RedemptionCount())

	ts.run(t, 2)
	assert.Equal(t, []Event{SpeechStart{FrameIndex: 0}}, ts.sink.lifecycle())
	assert.Equal(t, StateActiveSpeech, ts.seg.State())
}

func TestPadCorrectness(t *testing.T) {
	cfg := testConfig()
	cfg.PreSpeechPadFrames = 3
	cfg.RedemptionFrames = 1
	cfg.MinSpeechFrames = 1

	ts := newTestSetup(t, cfg,
		0.1, 0.1, 0.1, 0.1, 0.1, 0.9, 0.1, // utterance #1: onset at #5
		0.1, 0.9, 0.1, // utterance #2: onset at #8
	)
	ts.run(t, 10)

	lifecycle := ts.sink.lifecycle()
	require.Len(t, lifecycle, 4)

	first := lifecycle[1].(SpeechEnd)
	require.Len(t, first.Audio, (3+2)*cfg.FrameSamples)
	assertFramesMarked(t, cfg.FrameSamples, first.Audio, 2)

	second := lifecycle[3].(SpeechEnd)
	require.Len(t, second.Audio, (3+2)*cfg.FrameSamples)
	assertFramesMarked(t, cfg.FrameSamples, second.Audio, 5)
}

func TestSilentFrameSkipsInference(t *testing.T) {
	cfg := testConfig()
	model := &mock.Model{Default: 0.9}
	sink := &recordingSink{}
	seg, err := New(cfg, model, sink)
	require.NoError(t, err)

	silence := make([]float32, cfg.FrameSamples)
	silence[0] = SilenceEpsilon / 2
	result, err := seg.Process(context.Background(), NewFrame(silence))
	require.NoError(t, err)
	assert.Zero(t, result.Probability.IsSpeech)
	assert.Nil(t, result.Event)
	assert.Zero(t, model.InferCallCount())
	assert.Equal(t, StateIdle, seg.State())
	assert.Equal(t, 1, seg.PadFrames())

	result, err = seg.Process(context.Background(), markedFrame(cfg.FrameSamples, 1))
	require.NoError(t, err)
	assert.Equal(t, EventKindSpeechStart, result.Event.Kind())
	assert.Equal(t, 1, model.InferCallCount())
}

func TestInferenceFailure(t *testing.T) {
	cfg := testConfig()
	cfg.RedemptionFrames = 2
	ts := newTestSetup(t, cfg, 0.9, 0.9, 0.9, 0.9)
	ts.model.Default = 0.9
	inferErr := errors.New("model exploded")
	ts.model.InferErrs = map[int]error{1: inferErr, 2: inferErr, 5: inferErr}

	results := ts.run(t, 7)

	var frameErr *InferenceError
	require.ErrorAs(t, results[1].InferenceError, &frameErr)
	assert.Equal(t, uint64(1), frameErr.FrameIndex)
	assert.ErrorIs(t, results[1].InferenceError, inferErr)
	assert.Zero(t, results[1].Probability.IsSpeech)
	assert.NoError(t, results[3].InferenceError)

	// two failed frames in a row are two non-speech frames, which ends
	// the utterance; a single failure in the next one does not
	lifecycle := ts.sink.lifecycle()
	require.Len(t, lifecycle, 3)
	assert.Equal(t, SpeechStart{FrameIndex: 0}, lifecycle[0])
	assert.Equal(t, EventKindSpeechEnd, lifecycle[1].Kind())
	assert.Equal(t, uint64(2), lifecycle[1].Frame())
	assert.Equal(t, SpeechStart{FrameIndex: 3}, lifecycle[2])
	assert.Equal(t, StateActiveSpeech, ts.seg.State())
	assert.Equal(t, 7, ts.model.InferCallCount())
}

func TestInvalidProbability(t *testing.T) {
	t.Run("nan_while_active", func(t *testing.T) {
		cfg := testConfig()
		cfg.PreSpeechPadFrames = 0
		cfg.RedemptionFrames = 2
		cfg.MinSpeechFrames = 1
		ts := newTestSetup(t, cfg, 0.9, math.NaN(), math.NaN(), math.NaN(), math.NaN())
		results := ts.run(t, 5)

		lifecycle := ts.sink.lifecycle()
		require.Len(t, lifecycle, 2)
		assert.Equal(t, SpeechStart{FrameIndex: 0}, lifecycle[0])
		end, ok := lifecycle[1].(SpeechEnd)
		require.True(t, ok, "%T", lifecycle[1])
		assert.Equal(t, uint64(2), end.FrameIndex)
		assert.Len(t, end.Audio, 3*cfg.FrameSamples)

		assert.NoError(t, results[0].InferenceError)
		for _, result := range results[1:] {
			var inferErr *InferenceError
			require.ErrorAs(t, result.InferenceError, &inferErr)
			assert.Equal(t, result.FrameIndex, inferErr.FrameIndex)
			assert.Zero(t, result.Probability.IsSpeech)
		}
		assert.Equal(t, StateIdle, ts.seg.State())
	})

	t.Run("out_of_range_while_idle", func(t *testing.T) {
		ts := newTestSetup(t, testConfig(), math.Inf(1), 1.5, -0.1, math.Inf(-1))
		results := ts.run(t, 4)

		assert.Empty(t, ts.sink.lifecycle())
		for _, result := range results {
			var inferErr *InferenceError
			require.ErrorAs(t, result.InferenceError, &inferErr)
			assert.Zero(t, result.Probability.IsSpeech)
		}
		assert.Equal(t, StateIdle, ts.seg.State())
	})
}

func TestModelStateError(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.RedemptionFrames = 1
	cfg.MinSpeechFrames = 1
	ts := newTestSetup(t, cfg, 0.9, 0.1, 0.9)
	resetErr := errors.New("cannot reset")
	ts.model.ResetStateErr = resetErr

	ts.run(t, 1)
	result, err := ts.seg.Process(ctx, markedFrame(cfg.FrameSamples, 1))
	var stateErr *ModelStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, uint64(1), stateErr.FrameIndex)
	assert.ErrorIs(t, err, resetErr)
	require.NotNil(t, result.Event)
	assert.Equal(t, EventKindSpeechEnd, result.Event.Kind())
	assert.Equal(t, EventKindSpeechEnd, ts.sink.lifecycle()[1].Kind())

	eventsBefore := len(ts.sink.events)
	_, err = ts.seg.Process(ctx, markedFrame(cfg.FrameSamples, 2))
	require.ErrorIs(t, err, ErrBroken)
	require.ErrorAs(t, err, &stateErr)
	_, err = ts.seg.Flush(ctx)
	require.ErrorIs(t, err, ErrBroken)
	require.ErrorIs(t, ts.seg.Reset(ctx), ErrBroken)
	assert.Len(t, ts.sink.events, eventsBefore)
	assert.Equal(t, 2, ts.model.InferCallCount())
}

func TestFrameSizeError(t *testing.T) {
	cfg := testConfig()
	ts := newTestSetup(t, cfg, 0.9)

	_, err := ts.seg.Process(context.Background(), markedFrame(cfg.FrameSamples+1, 0))
	var sizeErr *FrameSizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, cfg.FrameSamples, sizeErr.Expected)
	assert.Equal(t, cfg.FrameSamples+1, sizeErr.Actual)
	assert.Zero(t, ts.seg.FrameIndex())
	assert.Zero(t, ts.seg.PadFrames())
	assert.Empty(t, ts.sink.events)
	assert.Zero(t, ts.model.InferCallCount())

	ts.run(t, 1)
	assert.Equal(t, []Event{SpeechStart{FrameIndex: 0}}, ts.sink.lifecycle())
}

func TestReentrantProcess(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	var (
		seg         *Segmenter
		reentryErrs []error
	)
	sink := EventSinkFunc(func(ctx context.Context, event Event) {
		_, err := seg.Process(ctx, markedFrame(cfg.FrameSamples, 100))
		reentryErrs = append(reentryErrs, err)
	})
	model := &mock.Model{Default: 0.9}
	seg, err := New(cfg, model, sink)
	require.NoError(t, err)

	result, err := seg.Process(ctx, markedFrame(cfg.FrameSamples, 0))
	require.NoError(t, err)
	assert.Equal(t, EventKindSpeechStart, result.Event.Kind())

	require.Len(t, reentryErrs, 2)
	for _, err := range reentryErrs {
		assert.ErrorIs(t, err, ErrConcurrentProcess)
	}
	assert.Equal(t, uint64(1), seg.FrameIndex())
	assert.Equal(t, 1, model.InferCallCount())
}

func TestFlush(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.PreSpeechPadFrames = 1
	cfg.MinSpeechFrames = 3

	t.Run("idle", func(t *testing.T) {
		ts := newTestSetup(t, cfg, 0.1)
		ts.run(t, 1)
		event, err := ts.seg.Flush(ctx)
		require.NoError(t, err)
		assert.Nil(t, event)
		assert.Zero(t, ts.model.ResetStateCallCount)
	})

	t.Run("speech_end", func(t *testing.T) {
		ts := newTestSetup(t, cfg, 0.1, 0.9, 0.9, 0.9)
		ts.run(t, 4)
		event, err := ts.seg.Flush(ctx)
		require.NoError(t, err)
		end, ok := event.(SpeechEnd)
		require.True(t, ok, "%T", event)
		assert.Equal(t, uint64(3), end.FrameIndex)
		assert.Len(t, end.Audio, 4*cfg.FrameSamples)
		assertFramesMarked(t, cfg.FrameSamples, end.Audio, 0)
		assert.Equal(t, StateIdle, ts.seg.State())
		assert.Equal(t, 1, ts.model.ResetStateCallCount)
		assert.Equal(t, event, ts.sink.events[len(ts.sink.events)-1])
	})

	t.Run("misfire", func(t *testing.T) {
		ts := newTestSetup(t, cfg, 0.9, 0.9)
		ts.run(t, 2)
		event, err := ts.seg.Flush(ctx)
		require.NoError(t, err)
		assert.Equal(t, VADMisfire{FrameIndex: 1}, event)
	})

	t.Run("continues_after_flush", func(t *testing.T) {
		ts := newTestSetup(t, cfg, 0.9, 0.9, 0.9, 0.9)
		ts.run(t, 3)
		_, err := ts.seg.Flush(ctx)
		require.NoError(t, err)
		ts.run(t, 1)
		lifecycle := ts.sink.lifecycle()
		assert.Equal(t, SpeechStart{FrameIndex: 3}, lifecycle[len(lifecycle)-1])
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.PreSpeechPadFrames = 2
	ts := newTestSetup(t, cfg, 0.1, 0.1, 0.9, 0.9, 0.1, 0.9)
	ts.run(t, 4)
	eventsBefore := len(ts.sink.events)

	require.NoError(t, ts.seg.Reset(ctx))
	assert.Equal(t, eventsBefore, len(ts.sink.events))
	assert.Equal(t, StateIdle, ts.seg.State())
	assert.Zero(t, ts.seg.PadFrames())
	assert.Zero(t, ts.seg.BufferedFrames())
	assert.Equal(t, uint64(4), ts.seg.FrameIndex())
	assert.Equal(t, 1, ts.model.ResetStateCallCount)

	ts.run(t, 2)
	lifecycle := ts.sink.lifecycle()
	assert.Equal(t, SpeechStart{FrameIndex: 5}, lifecycle[len(lifecycle)-1])
	assert.Equal(t, 2, ts.seg.BufferedFrames())
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	ts := newTestSetup(t, testConfig())

	require.NoError(t, ts.seg.Close())
	assert.Equal(t, 1, ts.model.CloseCallCount)
	require.ErrorIs(t, ts.seg.Close(), ErrClosed)

	_, err := ts.seg.Process(ctx, markedFrame(ts.cfg.FrameSamples, 0))
	require.ErrorIs(t, err, ErrClosed)
	_, err = ts.seg.Flush(ctx)
	require.ErrorIs(t, err, ErrClosed)
}

func TestNew(t *testing.T) {
	cfg := testConfig()
	cfg.MinSpeechFrames = 0
	_, err := New(cfg, &mock.Model{}, nil)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "min_speech_frames", cfgErr.Field)

	_, err = New(testConfig(), nil, nil)
	require.Error(t, err)

	seg, err := New(testConfig(), vad.NewDummy(1), nil)
	require.NoError(t, err)
	result, err := seg.Process(context.Background(), markedFrame(testConfig().FrameSamples, 0))
	require.NoError(t, err)
	assert.Equal(t, EventKindSpeechStart, result.Event.Kind())
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "speech_start", SpeechStart{}.Kind().String())
	assert.Equal(t, "speech_end", SpeechEnd{}.Kind().String())
	assert.Equal(t, "vad_misfire", VADMisfire{}.Kind().String())
	assert.Equal(t, "speech_segment", SpeechSegment{}.Kind().String())
	assert.Equal(t, "frame_processed", FrameProcessed{}.Kind().String())
	assert.Equal(t, "unknown_event_kind_42", EventKind(42).String())
	assert.Equal(t, "active_speech", StateActiveSpeech.String())
}

func BenchmarkProcess(b *testing.B) {
	ctx := context.Background()
	cfg := DefaultConfig()
	seg, err := New(cfg, vad.NewDummy(0.4), nil)
	require.NoError(b, err)

	frame := NewFrame(make([]float32, cfg.FrameSamples))
	frame.Silent = false
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := seg.Process(ctx, frame); err != nil {
			b.Fatal(err)
		}
	}
}
