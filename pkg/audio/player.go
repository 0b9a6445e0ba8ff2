package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/pcm"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/registry"
)

const BufferSize = 100 * time.Millisecond

type Player struct {
	PlayerPCM
}

func NewPlayer(playerPCM PlayerPCM) *Player {
	return &Player{
		PlayerPCM: playerPCM,
	}
}

var (
	lastSuccessfulPlayerFactory       registry.PlayerPCMFactory
	lastSuccessfulPlayerFactoryLocker sync.Mutex
)

func getLastSuccessfulPlayerFactory() registry.PlayerPCMFactory {
	lastSuccessfulPlayerFactoryLocker.Lock()
	defer lastSuccessfulPlayerFactoryLocker.Unlock()
	return lastSuccessfulPlayerFactory
}

func setLastSuccessfulPlayerFactory(factory registry.PlayerPCMFactory) {
	lastSuccessfulPlayerFactoryLocker.Lock()
	defer lastSuccessfulPlayerFactoryLocker.Unlock()
	lastSuccessfulPlayerFactory = factory
}

func NewPlayerAuto(
	ctx context.Context,
) *Player {
	if factory := getLastSuccessfulPlayerFactory(); factory != nil {
		player, err := factory.NewPlayerPCM()
		if err == nil {
			if err := player.Ping(ctx); err == nil {
				return NewPlayer(player)
			}
			_ = player.Close()
		}
	}

	var mErr *multierror.Error
	for _, factory := range registry.PlayerFactories() {
		player, err := factory.NewPlayerPCM()
		logger.Debugf(ctx, "initializing player %T result is %v", factory, err)
		if err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("unable to initialize %T: %w", factory, err))
			continue
		}

		err = player.Ping(ctx)
		logger.Debugf(ctx, "pinging PCM player %T result is %v", player, err)
		if err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("unable to ping %T: %w", player, err))
			_ = player.Close()
			continue
		}

		setLastSuccessfulPlayerFactory(factory)
		return NewPlayer(player)
	}

	logger.Infof(ctx, "was unable to initialize any PCM player: %v", mErr.ErrorOrNil())
	return &Player{
		PlayerPCM: PlayerPCMDummy{},
	}
}

func (a *Player) PlayPCM(
	ctx context.Context,
	sampleRate SampleRate,
	channels Channel,
	pcmFormat PCMFormat,
	bufferSize time.Duration,
	pcmReader io.Reader,
) (PlayStream, error) {
	return a.PlayerPCM.PlayPCM(
		ctx,
		sampleRate,
		channels,
		pcmFormat,
		bufferSize,
		pcmReader,
	)
}

// PlaySamples plays mono float samples and blocks until they are played.
func (a *Player) PlaySamples(
	ctx context.Context,
	sampleRate SampleRate,
	samples []float32,
) (_err error) {
	logger.Tracef(ctx, "PlaySamples, len:%d", len(samples))
	defer func() { logger.Tracef(ctx, "/PlaySamples, len:%d: %v", len(samples), _err) }()

	raw := make([]byte, len(samples)*int(PCMFormatFloat32LE.Size()))
	if err := pcm.EncodeFloat32(PCMFormatFloat32LE, raw, samples); err != nil {
		return fmt.Errorf("unable to encode the samples: %w", err)
	}
	stream, err := a.PlayPCM(ctx, sampleRate, 1, PCMFormatFloat32LE, BufferSize, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("unable to playback as PCM: %w", err)
	}
	if err := stream.Drain(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("unable to drain the stream: %w", err)
	}
	return stream.Close()
}
