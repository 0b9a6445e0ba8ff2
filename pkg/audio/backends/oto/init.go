package oto

import (
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/registry"
	"github.com/xaionaro-go/vadsegmenter/pkg/audio/types"
)

const (
	Priority = 50
)

func init() {
	registry.RegisterPlayerFactory(Priority, PlayerPCMFactory{})
}

type PlayerPCMFactory struct{}

var _ registry.PlayerPCMFactory = PlayerPCMFactory{}

func (PlayerPCMFactory) NewPlayerPCM() (types.PlayerPCM, error) {
	return NewPlayerPCM()
}
