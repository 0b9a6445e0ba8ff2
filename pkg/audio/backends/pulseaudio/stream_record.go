package pulseaudio

import (
	"fmt"

	"github.com/jfreymuth/pulse"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/types"
)

// RecordStream owns the client it was created with: closing the stream
// closes the client.
type RecordStream struct {
	Client *pulse.Client
	Stream *pulse.RecordStream
}

var _ types.RecordStream = (*RecordStream)(nil)

func newRecordStream(
	client *pulse.Client,
	pulseStream *pulse.RecordStream,
) *RecordStream {
	return &RecordStream{
		Client: client,
		Stream: pulseStream,
	}
}

func (s *RecordStream) Err() error {
	return s.Stream.Error()
}

func (s *RecordStream) Close() (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("got a panic: %v", r)
		}
	}()
	s.Stream.Stop()
	s.Stream.Close()
	s.Client.Close()
	return
}
