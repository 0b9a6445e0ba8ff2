package segmenter

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/vadsegmenter/pkg/vad"
)

type EventKind int

const (
	EventKindUndefined = EventKind(iota)
	EventKindFrameProcessed
	EventKindSpeechStart
	EventKindSpeechEnd
	EventKindVADMisfire
	EventKindSpeechSegment
)

func (k EventKind) String() string {
	switch k {
	case EventKindUndefined:
		return "undefined"
	case EventKindFrameProcessed:
		return "frame_processed"
	case EventKindSpeechStart:
		return "speech_start"
	case EventKindSpeechEnd:
		return "speech_end"
	case EventKindVADMisfire:
		return "vad_misfire"
	case EventKindSpeechSegment:
		return "speech_segment"
	}
	return fmt.Sprintf("unknown_event_kind_%d", int(k))
}

// Event is one of FrameProcessed, SpeechStart, SpeechEnd, VADMisfire or
// SpeechSegment. The set is closed: the interface has an unexported method.
type Event interface {
	Kind() EventKind
	Frame() uint64
	isEvent()
}

// FrameProcessed is delivered for every processed frame, before the
// lifecycle event caused by that frame (if any).
type FrameProcessed struct {
	FrameIndex  uint64
	Probability vad.SpeechProbability
}

type SpeechStart struct {
	FrameIndex uint64
}

// SpeechEnd carries the utterance audio not yet delivered by SpeechSegment
// events, including the trailing frames of the redemption window.
type SpeechEnd struct {
	FrameIndex uint64
	Audio      []float32
}

// VADMisfire retracts a SpeechStart of an utterance which ended up shorter
// than the configured minimum.
type VADMisfire struct {
	FrameIndex uint64
}

// SpeechSegment is a chunk of an ongoing utterance which reached the
// maximal buffered length.
type SpeechSegment struct {
	FrameIndex uint64
	Audio      []float32
}

var (
	_ Event = FrameProcessed{}
	_ Event = SpeechStart{}
	_ Event = SpeechEnd{}
	_ Event = VADMisfire{}
	_ Event = SpeechSegment{}
)

func (FrameProcessed) Kind() EventKind { return EventKindFrameProcessed }
func (SpeechStart) Kind() EventKind    { return EventKindSpeechStart }
func (SpeechEnd) Kind() EventKind      { return EventKindSpeechEnd }
func (VADMisfire) Kind() EventKind     { return EventKindVADMisfire }
func (SpeechSegment) Kind() EventKind  { return EventKindSpeechSegment }

func (e FrameProcessed) Frame() uint64 { return e.FrameIndex }
func (e SpeechStart) Frame() uint64    { return e.FrameIndex }
func (e SpeechEnd) Frame() uint64      { return e.FrameIndex }
func (e VADMisfire) Frame() uint64     { return e.FrameIndex }
func (e SpeechSegment) Frame() uint64  { return e.FrameIndex }

func (FrameProcessed) isEvent() {}
func (SpeechStart) isEvent()    {}
func (SpeechEnd) isEvent()      {}
func (VADMisfire) isEvent()     {}
func (SpeechSegment) isEvent()  {}

func (e FrameProcessed) String() string {
	return fmt.Sprintf("%s#%d(%.3f)", e.Kind(), e.FrameIndex, e.Probability.IsSpeech)
}

func (e SpeechEnd) String() string {
	return fmt.Sprintf("%s#%d(%d samples)", e.Kind(), e.FrameIndex, len(e.Audio))
}

func (e SpeechSegment) String() string {
	return fmt.Sprintf("%s#%d(%d samples)", e.Kind(), e.FrameIndex, len(e.Audio))
}

// EventSink receives the events in the order they happen. OnEvent is
// called on the goroutine which submitted the frame.
type EventSink interface {
	OnEvent(ctx context.Context, event Event)
}

type EventSinkFunc func(ctx context.Context, event Event)

var _ EventSink = EventSinkFunc(nil)

func (fn EventSinkFunc) OnEvent(ctx context.Context, event Event) {
	fn(ctx, event)
}

// EventSinks delivers every event to each of the sinks in order.
type EventSinks []EventSink

var _ EventSink = EventSinks(nil)

func (s EventSinks) OnEvent(ctx context.Context, event Event) {
	for _, sink := range s {
		sink.OnEvent(ctx, event)
	}
}

// DiscardEvents is an EventSink which ignores everything.
var DiscardEvents EventSink = EventSinkFunc(func(context.Context, Event) {})
