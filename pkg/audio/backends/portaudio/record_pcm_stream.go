package portaudio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
	"unsafe"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gordonklaus/portaudio"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/types"
)

const (
	RecordBufferSize = 20 * time.Millisecond
)

// RecordPCMStream reads PortAudio's input buffer in one goroutine and
// writes copies of it to Writer in another, via a bounded channel.
type RecordPCMStream struct {
	PortAudioStream *portaudio.Stream
	InputBuffer     []byte
	Writer          io.Writer

	cancelFunc context.CancelFunc
	waitGroup  sync.WaitGroup
	chunks     chan []byte
	closeOnce  sync.Once
	errLocker  sync.Mutex
	err        error
}

var _ types.RecordStream = (*RecordPCMStream)(nil)

func newRecordPCMStream[T uint8 | int16 | int32 | float32](
	ctx context.Context,
	sampleRate types.SampleRate,
	channels types.Channel,
) (*RecordPCMStream, error) {
	framesPerBuffer := int(RecordBufferSize.Seconds() * float64(sampleRate))

	var sample T
	buf := make([]T, framesPerBuffer*int(channels))
	logger.Debugf(ctx, "newRecordPCMStream: %T, %d, %d %s(%d)", sample, sampleRate, channels, RecordBufferSize, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(int(channels), 0, float64(sampleRate), framesPerBuffer, buf)
	if err != nil {
		return nil, err
	}

	bytesBuf := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(buf))), len(buf)*int(unsafe.Sizeof(sample)))
	return &RecordPCMStream{
		PortAudioStream: stream,
		InputBuffer:     bytesBuf,
		chunks:          make(chan []byte, 8),
	}, nil
}

func (s *RecordPCMStream) start(
	ctx context.Context,
	writer io.Writer,
) error {
	s.Writer = writer
	ctx, s.cancelFunc = context.WithCancel(ctx)

	if err := s.PortAudioStream.Start(); err != nil {
		s.cancelFunc()
		return err
	}

	s.waitGroup.Add(2)
	observability.Go(ctx, func() {
		defer s.waitGroup.Done()
		defer s.cancelFunc()
		defer close(s.chunks)
		s.setErr(s.readerLoop(ctx))
	})
	observability.Go(ctx, func() {
		defer s.waitGroup.Done()
		defer s.cancelFunc()
		s.setErr(s.writerLoop(ctx))
	})
	return nil
}

func (s *RecordPCMStream) setErr(err error) {
	if err == nil {
		return
	}
	s.errLocker.Lock()
	defer s.errLocker.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Err returns the first error which stopped the stream, if any.
func (s *RecordPCMStream) Err() error {
	s.errLocker.Lock()
	defer s.errLocker.Unlock()
	return s.err
}

func (s *RecordPCMStream) readerLoop(
	ctx context.Context,
) (_ret error) {
	logger.Debugf(ctx, "readerLoop")
	defer func() { logger.Debugf(ctx, "/readerLoop: %v", _ret) }()

	for {
		if err := s.PortAudioStream.Read(); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("unable to read: %w", err)
		}

		chunk := make([]byte, len(s.InputBuffer))
		copy(chunk, s.InputBuffer)
		select {
		case <-ctx.Done():
			return nil
		case s.chunks <- chunk:
		}
	}
}

func (s *RecordPCMStream) writerLoop(
	ctx context.Context,
) (_ret error) {
	logger.Debugf(ctx, "writerLoop")
	defer func() { logger.Debugf(ctx, "/writerLoop: %v", _ret) }()

	for chunk := range s.chunks {
		n, err := s.Writer.Write(chunk)
		logger.Tracef(ctx, "/Write: %d %v", n, err)
		if err != nil {
			return fmt.Errorf("unable to write: %w", err)
		}
		if n != len(chunk) {
			return fmt.Errorf("invalid write length: %d != %d", n, len(chunk))
		}
	}
	return nil
}

func (s *RecordPCMStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancelFunc()
		err = s.PortAudioStream.Abort()
		s.waitGroup.Wait()
		if closeErr := s.PortAudioStream.Close(); err == nil {
			err = closeErr
		}
	})
	return err
}
