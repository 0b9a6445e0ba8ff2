package audio

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/pcm"
)

// VorbisReader decodes an Ogg/Vorbis stream into interleaved
// PCMFormatFloat32LE bytes.
type VorbisReader struct {
	decoder *oggvorbis.Reader
	samples []float32
	pending []byte
}

var _ io.Reader = (*VorbisReader)(nil)

func NewVorbisReader(r io.Reader) (*VorbisReader, error) {
	decoder, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize a vorbis reader: %w", err)
	}
	return &VorbisReader{
		decoder: decoder,
	}, nil
}

func (r *VorbisReader) SampleRate() SampleRate {
	return SampleRate(r.decoder.SampleRate())
}

func (r *VorbisReader) Channels() Channel {
	return Channel(r.decoder.Channels())
}

func (r *VorbisReader) PCMFormat() PCMFormat {
	return PCMFormatFloat32LE
}

func (r *VorbisReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		want := len(p) / 4
		if want == 0 {
			want = 1
		}
		if cap(r.samples) < want {
			r.samples = make([]float32, want)
		}
		n, err := r.decoder.Read(r.samples[:want])
		if n == 0 {
			if err == nil {
				return 0, nil
			}
			return 0, err
		}
		r.pending = make([]byte, n*4)
		if encErr := pcm.EncodeFloat32(PCMFormatFloat32LE, r.pending, r.samples[:n]); encErr != nil {
			return 0, encErr
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
