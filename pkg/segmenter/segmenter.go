// Package segmenter turns a stream of per-frame speech probabilities into
// debounced utterance boundaries.
//
// A Segmenter consumes fixed-size frames one at a time. A frame with the
// speech probability at or above the positive threshold starts an
// utterance (prefixed by the pad frames which preceded it); a run of
// RedemptionFrames frames below the negative threshold ends it. Utterances
// shorter than MinSpeechFrames are retracted with VADMisfire, and long ones
// are delivered in chunks of MaxSpeechFrames frames.
package segmenter

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/vadsegmenter/pkg/vad"
)

type State int

const (
	StateIdle = State(iota)
	StateActiveSpeech
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActiveSpeech:
		return "active_speech"
	}
	return fmt.Sprintf("unknown_state_%d", int(s))
}

// Result describes the outcome of processing a single frame.
type Result struct {
	FrameIndex  uint64
	Probability vad.SpeechProbability

	// Event is the lifecycle event caused by the frame, or nil.
	Event Event

	// InferenceError is a non-fatal *InferenceError; the frame was treated
	// as non-speech.
	InferenceError error
}

// Segmenter is not safe for concurrent use: frames must be submitted
// sequentially, in arrival order.
type Segmenter struct {
	config Config
	model  vad.ProbabilityModel
	sink   EventSink

	ring      *RingPadBuffer
	utterance *UtteranceBuffer

	state            State
	redemptionCount  int
	utteranceFrames  int
	nextFrameIndex   uint64
	brokenBy         error
	closed           bool
	processingLocker atomic.Bool
}

func New(
	cfg Config,
	model vad.ProbabilityModel,
	sink EventSink,
) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if model == nil {
		return nil, fmt.Errorf("the probability model is mandatory")
	}
	if sink == nil {
		sink = DiscardEvents
	}
	return &Segmenter{
		config:    cfg,
		model:     model,
		sink:      sink,
		ring:      NewRingPadBuffer(cfg.PreSpeechPadFrames, cfg.FrameSamples),
		utterance: NewUtteranceBuffer(cfg.FrameSamples),
	}, nil
}

func (s *Segmenter) Config() Config {
	return s.config
}

func (s *Segmenter) State() State {
	return s.state
}

// FrameIndex returns the index the next processed frame will get.
func (s *Segmenter) FrameIndex() uint64 {
	return s.nextFrameIndex
}

// RedemptionCount returns the amount of consecutive frames below the
// negative threshold within the current utterance.
func (s *Segmenter) RedemptionCount() int {
	return s.redemptionCount
}

// UtteranceFrames returns the amount of frames of the current utterance
// since its onset, including the ones already flushed as segments.
func (s *Segmenter) UtteranceFrames() int {
	return s.utteranceFrames
}

// BufferedFrames returns the amount of frames not yet delivered to the
// sink, pad frames included.
func (s *Segmenter) BufferedFrames() int {
	return s.utterance.Len()
}

// PadFrames returns the amount of frames currently held for the pre-speech
// pad.
func (s *Segmenter) PadFrames() int {
	return s.ring.Len()
}

func (s *Segmenter) enter() error {
	if !s.processingLocker.CompareAndSwap(false, true) {
		return ErrConcurrentProcess
	}
	switch {
	case s.closed:
		s.processingLocker.Store(false)
		return ErrClosed
	case s.brokenBy != nil:
		s.processingLocker.Store(false)
		return fmt.Errorf("%w: %w", ErrBroken, s.brokenBy)
	}
	return nil
}

func (s *Segmenter) leave() {
	s.processingLocker.Store(false)
}

// Process consumes the next frame.
//
// A failure of the model to infer the probability is not returned as
// an error: it is reported via Result.InferenceError. A returned error
// means either that the frame was rejected without changing the state,
// or a *ModelStateError, after which the Segmenter is unusable.
func (s *Segmenter) Process(
	ctx context.Context,
	frame Frame,
) (_ret Result, _err error) {
	logger.Tracef(ctx, "Process")
	defer func() { logger.Tracef(ctx, "/Process: %v %v", _ret.Event, _err) }()

	if err := s.enter(); err != nil {
		return Result{}, err
	}
	defer s.leave()

	if len(frame.Samples) != s.config.FrameSamples {
		return Result{}, &FrameSizeError{
			Expected: s.config.FrameSamples,
			Actual:   len(frame.Samples),
		}
	}

	frameIndex := s.nextFrameIndex
	s.nextFrameIndex++
	result := Result{
		FrameIndex: frameIndex,
	}

	if frame.Silent {
		result.Probability = vad.FromIsSpeech(0)
	} else {
		prob, err := s.model.Infer(ctx, frame.Samples)
		if err == nil && !isProbability(prob.IsSpeech) {
			err = fmt.Errorf("the model returned an invalid speech probability: %v", prob.IsSpeech)
		}
		if err != nil {
			inferErr := &InferenceError{FrameIndex: frameIndex, Err: err}
			logger.Warnf(ctx, "%v; treating the frame as non-speech", inferErr)
			result.InferenceError = inferErr
			prob = vad.FromIsSpeech(0)
		}
		result.Probability = prob
	}

	s.sink.OnEvent(ctx, FrameProcessed{
		FrameIndex:  frameIndex,
		Probability: result.Probability,
	})

	var err error
	result.Event, err = s.transition(ctx, frameIndex, frame.Samples, result.Probability.IsSpeech)

	// The ring holds the frames preceding the one being processed, so
	// it is updated only after the transition.
	s.ring.Push(frame.Samples)
	return result, err
}

func (s *Segmenter) transition(
	ctx context.Context,
	frameIndex uint64,
	samples []float32,
	isSpeech float64,
) (Event, error) {
	switch s.state {
	case StateIdle:
		if isSpeech < s.config.PositiveSpeechThreshold {
			return nil, nil
		}
		s.ring.Each(s.utterance.Append)
		s.utterance.Append(samples)
		s.state = StateActiveSpeech
		s.redemptionCount = 0
		s.utteranceFrames = 1
		logger.Debugf(ctx, "speech started at frame #%d (probability: %.3f; pad frames: %d)", frameIndex, isSpeech, s.ring.Len())
		return s.emit(ctx, SpeechStart{FrameIndex: frameIndex}), nil

	case StateActiveSpeech:
		s.utterance.Append(samples)
		s.utteranceFrames++

		if s.utterance.Len() >= s.config.MaxSpeechFrames {
			logger.Debugf(ctx, "flushing a speech segment at frame #%d (%d frames)", frameIndex, s.utterance.Len())
			if isSpeech >= s.config.NegativeSpeechThreshold {
				s.redemptionCount = 0
			}
			return s.emit(ctx, SpeechSegment{
				FrameIndex: frameIndex,
				Audio:      s.utterance.Take(),
			}), nil
		}

		if isSpeech >= s.config.NegativeSpeechThreshold {
			s.redemptionCount = 0
			return nil, nil
		}

		s.redemptionCount++
		if s.redemptionCount < s.config.RedemptionFrames {
			return nil, nil
		}
		return s.endUtterance(ctx, frameIndex)

	default:
		return nil, fmt.Errorf("internal error: unexpected state %v", s.state)
	}
}

// endUtterance delivers SpeechEnd or VADMisfire, returns to Idle and resets
// the model. The event is delivered even if the reset fails.
func (s *Segmenter) endUtterance(
	ctx context.Context,
	frameIndex uint64,
) (Event, error) {
	var event Event
	if s.utteranceFrames >= s.config.MinSpeechFrames {
		logger.Debugf(ctx, "speech ended at frame #%d (%d frames)", frameIndex, s.utteranceFrames)
		event = SpeechEnd{
			FrameIndex: frameIndex,
			Audio:      s.utterance.Take(),
		}
	} else {
		logger.Debugf(ctx, "misfire at frame #%d (%d frames < %d)", frameIndex, s.utteranceFrames, s.config.MinSpeechFrames)
		s.utterance.Clear()
		event = VADMisfire{FrameIndex: frameIndex}
	}
	s.state = StateIdle
	s.redemptionCount = 0
	s.utteranceFrames = 0

	s.emit(ctx, event)
	return event, s.resetModel(ctx, frameIndex)
}

func (s *Segmenter) resetModel(
	ctx context.Context,
	frameIndex uint64,
) error {
	if err := s.model.ResetState(ctx); err != nil {
		s.brokenBy = &ModelStateError{FrameIndex: frameIndex, Err: err}
		logger.Errorf(ctx, "%v", s.brokenBy)
		return s.brokenBy
	}
	return nil
}

func (s *Segmenter) emit(ctx context.Context, event Event) Event {
	s.sink.OnEvent(ctx, event)
	return event
}

// Flush force-ends the current utterance, as if the redemption window
// elapsed on the last processed frame. It returns nil if there is no
// utterance in progress.
func (s *Segmenter) Flush(ctx context.Context) (_ret Event, _err error) {
	logger.Tracef(ctx, "Flush")
	defer func() { logger.Tracef(ctx, "/Flush: %v %v", _ret, _err) }()

	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	if s.state != StateActiveSpeech {
		return nil, nil
	}
	return s.endUtterance(ctx, s.nextFrameIndex-1)
}

// Reset drops the in-progress utterance and the pad frames without
// emitting any event, and resets the model. The frame index keeps counting.
func (s *Segmenter) Reset(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "Reset")
	defer func() { logger.Tracef(ctx, "/Reset: %v", _err) }()

	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	s.ring.Clear()
	s.utterance.Clear()
	s.state = StateIdle
	s.redemptionCount = 0
	s.utteranceFrames = 0
	return s.resetModel(ctx, s.nextFrameIndex)
}

// Close releases the model. The in-progress utterance, if any, is
// discarded; call Flush before Close to deliver it.
func (s *Segmenter) Close() error {
	if !s.processingLocker.CompareAndSwap(false, true) {
		return ErrConcurrentProcess
	}
	defer s.leave()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	if err := s.model.Close(); err != nil {
		return fmt.Errorf("unable to close the probability model: %w", err)
	}
	return nil
}
