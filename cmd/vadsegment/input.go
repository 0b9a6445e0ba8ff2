package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-audio/wav"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/pcm"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/resampler"
)

type inputParams struct {
	Path       string
	SampleRate audio.SampleRate
	Channels   audio.Channel
	Format     string
}

// input is mono PCMFormatFloat32LE at the requested sample rate.
type input struct {
	io.Reader
	closers []io.Closer
}

func (in *input) Close() error {
	var mErr *multierror.Error
	for idx := len(in.closers) - 1; idx >= 0; idx-- {
		if err := in.closers[idx].Close(); err != nil {
			mErr = multierror.Append(mErr, err)
		}
	}
	return mErr.ErrorOrNil()
}

func openInput(
	ctx context.Context,
	params inputParams,
	sampleRate audio.SampleRate,
) (_ret *input, _err error) {
	logger.Tracef(ctx, "openInput(%#+v)", params)
	defer func() { logger.Tracef(ctx, "/openInput(%#+v): %v", params, _err) }()

	if params.Path == "" {
		return openMicrophone(ctx, sampleRate)
	}

	in := &input{}
	var file io.Reader
	if params.Path == "-" {
		file = os.Stdin
	} else {
		f, err := os.Open(params.Path)
		if err != nil {
			return nil, fmt.Errorf("unable to open '%s': %w", params.Path, err)
		}
		in.closers = append(in.closers, f)
		file = f
	}

	var (
		reader io.Reader
		inFmt  resampler.Format
	)
	switch strings.ToLower(filepath.Ext(params.Path)) {
	case ".ogg", ".oga":
		vorbis, err := audio.NewVorbisReader(file)
		if err != nil {
			_ = in.Close()
			return nil, err
		}
		reader = vorbis
		inFmt = resampler.Format{
			Channels:   vorbis.Channels(),
			SampleRate: vorbis.SampleRate(),
			PCMFormat:  vorbis.PCMFormat(),
		}
	case ".wav":
		seeker, ok := file.(io.ReadSeeker)
		if !ok {
			_ = in.Close()
			return nil, fmt.Errorf("WAV input has to be seekable")
		}
		var err error
		reader, inFmt, err = decodeWAV(seeker)
		if err != nil {
			_ = in.Close()
			return nil, fmt.Errorf("unable to decode '%s': %w", params.Path, err)
		}
	default:
		format, err := audio.ParsePCMFormat(params.Format)
		if err != nil {
			_ = in.Close()
			return nil, err
		}
		reader = file
		inFmt = resampler.Format{
			Channels:   params.Channels,
			SampleRate: params.SampleRate,
			PCMFormat:  format,
		}
	}

	outFmt := resampler.Format{
		Channels:   1,
		SampleRate: sampleRate,
		PCMFormat:  audio.PCMFormatFloat32LE,
	}
	if inFmt == outFmt {
		in.Reader = reader
		return in, nil
	}
	logger.Debugf(ctx, "converting %#+v to %#+v", inFmt, outFmt)
	r, err := resampler.NewResampler(inFmt, reader, outFmt)
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("unable to initialize a resampler: %w", err)
	}
	in.Reader = r
	return in, nil
}

func decodeWAV(r io.ReadSeeker) (io.Reader, resampler.Format, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, resampler.Format{}, fmt.Errorf("not a valid WAV file")
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, resampler.Format{}, fmt.Errorf("unable to read the PCM data: %w", err)
	}
	if buf.SourceBitDepth <= 0 {
		return nil, resampler.Format{}, fmt.Errorf("unknown bit depth")
	}

	scale := float32(int64(1) << (buf.SourceBitDepth - 1))
	samples := make([]float32, len(buf.Data))
	for idx, v := range buf.Data {
		samples[idx] = float32(v) / scale
	}
	raw := make([]byte, len(samples)*int(audio.PCMFormatFloat32LE.Size()))
	if err := pcm.EncodeFloat32(audio.PCMFormatFloat32LE, raw, samples); err != nil {
		return nil, resampler.Format{}, err
	}
	return bytes.NewReader(raw), resampler.Format{
		Channels:   audio.Channel(buf.Format.NumChannels),
		SampleRate: audio.SampleRate(buf.Format.SampleRate),
		PCMFormat:  audio.PCMFormatFloat32LE,
	}, nil
}

func openMicrophone(
	ctx context.Context,
	sampleRate audio.SampleRate,
) (*input, error) {
	recorder := audio.NewRecorderAuto(ctx)
	pipeReader, pipeWriter := io.Pipe()
	stream, err := recorder.RecordPCM(ctx, sampleRate, 1, audio.PCMFormatFloat32LE, pipeWriter)
	if err != nil {
		_ = recorder.Close()
		return nil, fmt.Errorf("unable to start recording: %w", err)
	}
	logger.Infof(ctx, "recording from %T", recorder.RecorderPCM)
	return &input{
		Reader:  pipeReader,
		closers: []io.Closer{recorder, stream, pipeWriter},
	}, nil
}
