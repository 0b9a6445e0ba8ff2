package portaudio

import (
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/registry"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/types"
)

const (
	Priority = 60
)

func init() {
	registry.RegisterRecorderFactory(Priority, RecorderPCMFactory{})
}

type RecorderPCMFactory struct{}

var _ registry.RecorderPCMFactory = RecorderPCMFactory{}

func (RecorderPCMFactory) NewRecorderPCM() (types.RecorderPCM, error) {
	return NewRecorderPCM()
}
