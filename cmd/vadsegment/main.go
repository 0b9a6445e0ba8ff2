package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio"
	_ "github.com/xaionaro-go/vadsegmenter/pkg/audio/backends/oto"
	_ "github.com/xaionaro-go/vadsegmenter/pkg/audio/backends/portaudio"
	_ "github.com/xaionaro-go/vadsegmenter/pkg/audio/backends/pulseaudio"
	"github.com/xaionaro-go/vadsegmenter/pkg/segmenter"
	"github.com/xaionaro-go/vadsegmenter/pkg/segmenterstream"
	"github.com/xaionaro-go/vadsegmenter/pkg/segmentwriter"
)

func main() {
	loggerLevel := logger.LevelInfo
	pflag.Var(&loggerLevel, "log-level", "Log level")
	configPath := pflag.String("config", "", "path to a YAML file with the segmenter config")
	inputPath := pflag.String("input", "", "the audio to segment: a .ogg or .wav file, a raw PCM file, '-' for raw PCM from stdin; the default microphone if empty")
	inputRate := pflag.Uint32("input-rate", 16000, "the sample rate of raw PCM input")
	inputChannels := pflag.Uint32("input-channels", 1, "the amount of channels of raw PCM input")
	inputFormat := pflag.String("input-format", audio.PCMFormatFloat32LE.String(), "the sample format of raw PCM input")
	sampleRate := pflag.Uint32("rate", 16000, "the sample rate the audio is converted to before segmentation")
	modelName := pflag.String("model", modelSpectral, fmt.Sprintf("the speech probability model: %s, %s or %s", modelSpectral, modelLibFVAD, modelRNNoise))
	libfvadMode := pflag.String("libfvad-mode", "aggressive", "the aggressiveness of the libfvad model: quality, low-bitrate, aggressive or very-aggressive")
	frameSamples := pflag.Int("frame-samples", 0, "overrides frame_samples")
	positiveThreshold := pflag.Float64("positive-threshold", 0, "overrides positive_speech_threshold")
	negativeThreshold := pflag.Float64("negative-threshold", 0, "overrides negative_speech_threshold")
	redemption := pflag.Duration("redemption", 0, "overrides redemption_frames with the amount of frames covering the duration")
	preSpeechPad := pflag.Duration("pre-speech-pad", 0, "overrides pre_speech_pad_frames with the amount of frames covering the duration")
	minSpeech := pflag.Duration("min-speech", 0, "overrides min_speech_frames with the amount of frames covering the duration")
	maxSpeech := pflag.Duration("max-speech", 0, "overrides max_speech_frames with the amount of frames covering the duration")
	outputDir := pflag.String("output-dir", "", "if set, every utterance is stored to this directory as a WAV file")
	playback := pflag.Bool("playback", false, "play every utterance back")
	flushOnEOF := pflag.Bool("flush-on-eof", true, "end the current utterance at the end of the input")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	pflag.Parse()

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	ctx, cancelFn := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancelFn()

	if *netPprofAddr != "" {
		observability.Go(ctx, func() { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	cfg := segmenter.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = segmenter.LoadConfig(*configPath)
		assertNoError(err)
	}
	rate := audio.SampleRate(*sampleRate)
	if pflag.CommandLine.Changed("frame-samples") {
		cfg.FrameSamples = *frameSamples
	}
	if pflag.CommandLine.Changed("positive-threshold") {
		cfg.PositiveSpeechThreshold = *positiveThreshold
	}
	if pflag.CommandLine.Changed("negative-threshold") {
		cfg.NegativeSpeechThreshold = *negativeThreshold
	}
	for _, o := range []struct {
		flag  string
		value time.Duration
		field *int
	}{
		{"redemption", *redemption, &cfg.RedemptionFrames},
		{"pre-speech-pad", *preSpeechPad, &cfg.PreSpeechPadFrames},
		{"min-speech", *minSpeech, &cfg.MinSpeechFrames},
		{"max-speech", *maxSpeech, &cfg.MaxSpeechFrames},
	} {
		if pflag.CommandLine.Changed(o.flag) {
			*o.field = cfg.FramesForDuration(o.value, rate)
		}
	}
	assertNoError(cfg.Validate())
	logger.Debugf(ctx, "config: %#+v; frame duration: %v", cfg, cfg.FrameDuration(rate))

	input, err := openInput(ctx, inputParams{
		Path:       *inputPath,
		SampleRate: audio.SampleRate(*inputRate),
		Channels:   audio.Channel(*inputChannels),
		Format:     *inputFormat,
	}, rate)
	assertNoError(err)
	defer input.Close()

	model, err := newModel(ctx, *modelName, *libfvadMode, rate, cfg.FrameSamples)
	assertNoError(err)

	sinks := segmenter.EventSinks{logSink{SampleRate: rate}}
	var writer *segmentwriter.Writer
	if *outputDir != "" {
		writer, err = segmentwriter.New(*outputDir, rate)
		assertNoError(err)
		sinks = append(sinks, writer)
	}
	if *playback {
		p := newPlaybackSink(ctx, audio.NewPlayerAuto(ctx), rate)
		defer p.Close()
		sinks = append(sinks, p)
	}

	seg, err := segmenter.New(cfg, model, sinks)
	assertNoError(err)
	defer seg.Close()

	stream, err := segmenterstream.New(ctx, input, seg, segmenterstream.Config{
		PCMFormat:  audio.PCMFormatFloat32LE,
		FlushOnEOF: *flushOnEOF,
	})
	assertNoError(err)
	handlePauseSignal(ctx, stream)

	err = stream.Wait(ctx)
	if ctx.Err() != nil {
		logger.Infof(ctx, "interrupted")
		assertNoError(stream.Close())
		err = nil
		if *flushOnEOF {
			_, err = seg.Flush(context.WithoutCancel(ctx))
		}
	}
	assertNoError(err)

	if writer != nil {
		assertNoError(writer.Close())
		assertNoError(writer.Err())
	}
	logger.Infof(ctx, "processed %d frames (%d dropped while paused), %d bytes", stream.FramesProcessed(), stream.FramesDropped(), stream.BytesConsumed())
}

// handlePauseSignal toggles pausing of the stream on SIGUSR1.
func handlePauseSignal(ctx context.Context, stream *segmenterstream.SegmenterStream) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	observability.Go(ctx, func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				if stream.IsPaused() {
					stream.Resume()
					logger.Infof(ctx, "resumed")
				} else {
					stream.Pause()
					logger.Infof(ctx, "paused")
				}
			}
		}
	})
}

func assertNoError(err error) {
	if err != nil {
		panic(err)
	}
}
