// Package segmenterstream feeds a Segmenter from a mono PCM io.Reader.
//
// One goroutine reads the input into a circular buffer; another one slices
// the buffered bytes into frames and submits them to the Segmenter strictly
// in order.
package segmenterstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/iamcalledrob/circular"
	"github.com/xaionaro-go/datacounter"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/pcm"
	"github.com/xaionaro-go/vadsegmenter/pkg/segmenter"
)

const (
	defaultBufferFrames = 64
	maxReadSize         = 65536
)

type Config struct {
	// PCMFormat is the encoding of the (mono) input.
	PCMFormat audio.PCMFormat

	// BufferSize is the size of the input buffer in bytes; it defaults to
	// 64 frames.
	BufferSize uint

	// FlushOnEOF makes the end of the input end the current utterance,
	// instead of silently dropping it.
	FlushOnEOF bool
}

type SegmenterStream struct {
	Segmenter *segmenter.Segmenter
	Config    Config

	inputCounter *datacounter.ReaderCounter
	frameSize    int

	bufferLocker sync.Mutex
	buffer       *circular.Buffer
	inputEOF     bool

	readProgressedCh    chan struct{}
	processProgressedCh chan struct{}

	paused          atomic.Bool
	framesProcessed atomic.Uint64
	framesDropped   atomic.Uint64

	resultLocker sync.Mutex
	resultError  error
	cancelFunc   context.CancelFunc
	doneCh       chan struct{}
}

func New(
	ctx context.Context,
	input io.Reader,
	seg *segmenter.Segmenter,
	cfg Config,
) (*SegmenterStream, error) {
	if !cfg.PCMFormat.IsValid() {
		return nil, fmt.Errorf("invalid PCM format: %v", cfg.PCMFormat)
	}
	frameSize := seg.Config().FrameSamples * int(cfg.PCMFormat.Size())
	if cfg.BufferSize == 0 {
		cfg.BufferSize = uint(frameSize) * defaultBufferFrames
	}
	if cfg.BufferSize < uint(frameSize) {
		return nil, fmt.Errorf("the buffer size %d is less than a frame (%d bytes)", cfg.BufferSize, frameSize)
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	s := &SegmenterStream{
		Segmenter:           seg,
		Config:              cfg,
		inputCounter:        datacounter.NewReaderCounter(input),
		frameSize:           frameSize,
		buffer:              circular.NewBuffer(int(cfg.BufferSize)),
		readProgressedCh:    make(chan struct{}),
		processProgressedCh: make(chan struct{}),
		cancelFunc:          cancelFunc,
		doneCh:              make(chan struct{}),
	}
	observability.Go(ctx, func() {
		err := s.readerLoop(ctx)
		if err != nil {
			s.setResultError(fmt.Errorf("got an error from the reader loop: %w", err))
			cancelFunc()
		}
	})
	observability.Go(ctx, func() {
		defer close(s.doneCh)
		defer cancelFunc()
		err := s.processLoop(ctx)
		if err != nil {
			s.setResultError(fmt.Errorf("got an error from the segmenter loop: %w", err))
		}
	})
	return s, nil
}

func (s *SegmenterStream) setResultError(err error) {
	s.resultLocker.Lock()
	defer s.resultLocker.Unlock()
	if s.resultError == nil {
		s.resultError = err
	}
}

func (s *SegmenterStream) getResultError() error {
	s.resultLocker.Lock()
	defer s.resultLocker.Unlock()
	return s.resultError
}

// Pause makes the stream discard the incoming frames (without passing
// them to the Segmenter) until Resume is called. The state of the
// Segmenter is left intact.
func (s *SegmenterStream) Pause() {
	s.paused.Store(true)
}

func (s *SegmenterStream) Resume() {
	s.paused.Store(false)
}

func (s *SegmenterStream) IsPaused() bool {
	return s.paused.Load()
}

// BytesConsumed returns the amount of bytes read from the input so far.
func (s *SegmenterStream) BytesConsumed() uint64 {
	return s.inputCounter.Count()
}

func (s *SegmenterStream) FramesProcessed() uint64 {
	return s.framesProcessed.Load()
}

// FramesDropped returns the amount of frames discarded while paused.
func (s *SegmenterStream) FramesDropped() uint64 {
	return s.framesDropped.Load()
}

// Done is closed once the stream stops submitting frames.
func (s *SegmenterStream) Done() <-chan struct{} {
	return s.doneCh
}

// Wait blocks until the input is exhausted (or the stream failed) and
// returns the first error.
func (s *SegmenterStream) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.doneCh:
	}
	return s.getResultError()
}

// Close stops submitting frames. It does not close the input, nor the
// Segmenter.
func (s *SegmenterStream) Close() error {
	s.cancelFunc()
	<-s.doneCh
	err := s.getResultError()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *SegmenterStream) readerLoop(
	ctx context.Context,
) (_err error) {
	logger.Tracef(ctx, "readerLoop")
	defer func() { logger.Tracef(ctx, "/readerLoop: %v", _err) }()

	readBuf := make([]byte, min(maxReadSize, int(s.Config.BufferSize)))
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := s.inputCounter.Read(readBuf)
		logger.Tracef(ctx, "readerLoop: Read(): %v %v", n, err)
		if n > 0 {
			if err := s.writeBuffer(ctx, readBuf[:n]); err != nil {
				return err
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			s.bufferLocker.Lock()
			s.inputEOF = true
			s.notifyReadProgressed()
			s.bufferLocker.Unlock()
			return nil
		default:
			return fmt.Errorf("unable to read the input: %w", err)
		}
	}
}

func (s *SegmenterStream) writeBuffer(
	ctx context.Context,
	data []byte,
) error {
	s.bufferLocker.Lock()
	defer s.bufferLocker.Unlock()
	for len(data) > 0 {
		// On ErrNoSpace the buffer still takes as much as fits.
		w, err := s.buffer.Write(data)
		data = data[w:]
		if w > 0 {
			s.notifyReadProgressed()
		}
		if err == nil {
			if len(data) != 0 {
				return fmt.Errorf("short write to the circular buffer: %d bytes left", len(data))
			}
			return nil
		}
		if !errors.Is(err, circular.ErrNoSpace) {
			return fmt.Errorf("unable to write to the circular buffer: %w", err)
		}
		if !s.waitForProcessProgressed(ctx) {
			return ctx.Err()
		}
	}
	return nil
}

// notifyReadProgressed must be called with bufferLocker held.
func (s *SegmenterStream) notifyReadProgressed() {
	oldCh := s.readProgressedCh
	s.readProgressedCh = make(chan struct{})
	close(oldCh)
}

// waitForProcessProgressed must be called with bufferLocker held.
func (s *SegmenterStream) waitForProcessProgressed(ctx context.Context) bool {
	ch := s.processProgressedCh
	s.bufferLocker.Unlock()
	defer s.bufferLocker.Lock()
	select {
	case <-ctx.Done():
		return false
	case <-ch:
		return true
	}
}

// readFrame fills frame from the buffer; it returns false if the input
// ended before the frame was complete.
func (s *SegmenterStream) readFrame(
	ctx context.Context,
	frame []byte,
) (bool, error) {
	receivedCount := 0
	for {
		var (
			waitCh   chan struct{}
			inputEOF bool
		)
		if err := func() error {
			s.bufferLocker.Lock()
			defer s.bufferLocker.Unlock()
			n, err := s.buffer.Read(frame[receivedCount:])
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("unable to read from the circular buffer: %w", err)
			}
			receivedCount += n
			waitCh = s.readProgressedCh
			inputEOF = s.inputEOF
			oldCh := s.processProgressedCh
			s.processProgressedCh = make(chan struct{})
			close(oldCh)
			return nil
		}(); err != nil {
			return false, err
		}
		if receivedCount == len(frame) {
			return true, nil
		}
		if inputEOF {
			if receivedCount > 0 {
				logger.Debugf(ctx, "dropping a trailing incomplete frame of %d bytes", receivedCount)
			}
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-waitCh:
		}
	}
}

func (s *SegmenterStream) processLoop(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "processLoop")
	defer func() { logger.Tracef(ctx, "/processLoop: %v", _err) }()

	raw := make([]byte, s.frameSize)
	samples := make([]float32, s.Segmenter.Config().FrameSamples)
	for {
		ok, err := s.readFrame(ctx, raw)
		if err != nil {
			return err
		}
		if !ok {
			return s.onEOF(ctx)
		}

		if s.paused.Load() {
			s.framesDropped.Add(1)
			continue
		}

		if err := pcm.DecodeFloat32(s.Config.PCMFormat, samples, raw); err != nil {
			return fmt.Errorf("unable to decode the frame: %w", err)
		}
		_, err = s.Segmenter.Process(ctx, segmenter.NewFrame(samples))
		if err != nil {
			return fmt.Errorf("unable to process frame #%d: %w", s.framesProcessed.Load(), err)
		}
		s.framesProcessed.Add(1)
	}
}

func (s *SegmenterStream) onEOF(ctx context.Context) error {
	logger.Debugf(ctx, "end of input after %d bytes", s.BytesConsumed())
	if !s.Config.FlushOnEOF {
		return nil
	}
	if _, err := s.Segmenter.Flush(ctx); err != nil {
		return fmt.Errorf("unable to flush the segmenter: %w", err)
	}
	return nil
}
