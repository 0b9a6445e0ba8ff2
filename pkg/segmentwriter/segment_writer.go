// Package segmentwriter stores every utterance reported by a Segmenter as a
// separate WAV file.
package segmentwriter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/pcm"
	"github.com/xaionaro-go/vadsegmenter/pkg/segmenter"
)

const (
	bitDepth     = 16
	wavFormatPCM = 1
	filePerm     = 0o644
)

// Writer is a segmenter.EventSink. A file is created on the first audio of
// an utterance, so misfired utterances never produce one.
type Writer struct {
	Dir        string
	SampleRate audio.SampleRate

	// OnFile is called (if set) after a file is completed.
	OnFile func(ctx context.Context, path string)

	locker       sync.Mutex
	utterances   int
	startFrame   uint64
	file         *os.File
	encoder      *wav.Encoder
	path         string
	intBuffer    []int
	files        []string
	err          error
	samplesCount int
}

var _ segmenter.EventSink = (*Writer)(nil)

func New(
	dir string,
	sampleRate audio.SampleRate,
) (*Writer, error) {
	if sampleRate == 0 {
		return nil, fmt.Errorf("sample rate is mandatory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create directory '%s': %w", dir, err)
	}
	return &Writer{
		Dir:        dir,
		SampleRate: sampleRate,
	}, nil
}

func (w *Writer) OnEvent(ctx context.Context, event segmenter.Event) {
	w.locker.Lock()
	defer w.locker.Unlock()

	var err error
	switch event := event.(type) {
	case segmenter.SpeechStart:
		w.startFrame = event.FrameIndex
	case segmenter.SpeechSegment:
		err = w.write(ctx, event.Audio)
	case segmenter.SpeechEnd:
		err = w.write(ctx, event.Audio)
		if err == nil {
			err = w.finish(ctx)
		}
	case segmenter.VADMisfire:
		logger.Debugf(ctx, "skipping a misfired utterance started at frame #%d", w.startFrame)
	}
	if err != nil {
		logger.Errorf(ctx, "unable to store %s: %v", event.Kind(), err)
		if w.err == nil {
			w.err = err
		}
		w.abort()
	}
}

func (w *Writer) write(ctx context.Context, samples []float32) error {
	if w.encoder == nil {
		if err := w.open(ctx); err != nil {
			return err
		}
	}
	if cap(w.intBuffer) < len(samples) {
		w.intBuffer = make([]int, len(samples))
	}
	data := w.intBuffer[:len(samples)]
	for idx, sample := range samples {
		data[idx] = int(pcm.ToInt16(sample))
	}
	err := w.encoder.Write(&goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  int(w.SampleRate),
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		return fmt.Errorf("unable to write %d samples to '%s': %w", len(samples), w.path, err)
	}
	w.samplesCount += len(samples)
	return nil
}

func (w *Writer) open(ctx context.Context) error {
	w.utterances++
	path := filepath.Join(w.Dir, fmt.Sprintf("utterance_%06d_frame_%d.wav", w.utterances, w.startFrame))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("unable to create '%s': %w", path, err)
	}
	logger.Debugf(ctx, "created '%s'", path)
	w.file = f
	w.path = path
	w.samplesCount = 0
	w.encoder = wav.NewEncoder(f, int(w.SampleRate), bitDepth, 1, wavFormatPCM)
	return nil
}

func (w *Writer) finish(ctx context.Context) error {
	if w.encoder == nil {
		return nil
	}
	var mErr *multierror.Error
	if err := w.encoder.Close(); err != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("unable to finalize the WAV header: %w", err))
	}
	if err := w.file.Close(); err != nil {
		mErr = multierror.Append(mErr, fmt.Errorf("unable to close the file: %w", err))
	}
	path := w.path
	w.encoder, w.file, w.path = nil, nil, ""
	if err := mErr.ErrorOrNil(); err != nil {
		return fmt.Errorf("unable to complete '%s': %w", path, err)
	}

	logger.Infof(ctx, "stored an utterance of %v to '%s'", w.duration(), path)
	w.files = append(w.files, path)
	if w.OnFile != nil {
		w.OnFile(ctx, path)
	}
	return nil
}

func (w *Writer) duration() string {
	return fmt.Sprintf("%.2fs", float64(w.samplesCount)/float64(w.SampleRate))
}

func (w *Writer) abort() {
	if w.file == nil {
		return
	}
	_ = w.file.Close()
	_ = os.Remove(w.path)
	w.encoder, w.file, w.path = nil, nil, ""
}

// Files returns the paths of the completed files, in order.
func (w *Writer) Files() []string {
	w.locker.Lock()
	defer w.locker.Unlock()
	return append([]string(nil), w.files...)
}

// Err returns the first failure to store an utterance.
func (w *Writer) Err() error {
	w.locker.Lock()
	defer w.locker.Unlock()
	return w.err
}

// Close completes the file of an utterance still in progress, if any.
func (w *Writer) Close() error {
	w.locker.Lock()
	defer w.locker.Unlock()
	return w.finish(context.Background())
}
