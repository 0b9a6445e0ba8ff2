package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/xaionaro-go/vadsegmenter/pkg/audio/types"
)

type RecorderPCMFactory interface {
	NewRecorderPCM() (types.RecorderPCM, error)
}

type PlayerPCMFactory interface {
	NewPlayerPCM() (types.PlayerPCM, error)
}

type factoryWithPriority[F any] struct {
	Priority int
	Factory  F
}

type factoryRegistry[F any] struct {
	locker    sync.Mutex
	factories map[reflect.Type]factoryWithPriority[F]
}

func (r *factoryRegistry[F]) register(kind string, priority int, factory F) {
	t := reflect.ValueOf(factory).Type()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	r.locker.Lock()
	defer r.locker.Unlock()
	if r.factories == nil {
		r.factories = map[reflect.Type]factoryWithPriority[F]{}
	}
	if _, ok := r.factories[t]; ok {
		panic(fmt.Errorf("there is already registered a factory of %s of type %v", kind, t))
	}
	r.factories[t] = factoryWithPriority[F]{
		Priority: priority,
		Factory:  factory,
	}
}

// sorted returns the factories, the highest priority first.
func (r *factoryRegistry[F]) sorted() []F {
	r.locker.Lock()
	var factoriesWithPriorities []factoryWithPriority[F]
	for _, factory := range r.factories {
		factoriesWithPriorities = append(factoriesWithPriorities, factory)
	}
	r.locker.Unlock()

	sort.SliceStable(factoriesWithPriorities, func(i, j int) bool {
		return factoriesWithPriorities[i].Priority > factoriesWithPriorities[j].Priority
	})

	factories := make([]F, 0, len(factoriesWithPriorities))
	for _, factory := range factoriesWithPriorities {
		factories = append(factories, factory.Factory)
	}
	return factories
}

var (
	recorderFactoryRegistry factoryRegistry[RecorderPCMFactory]
	playerFactoryRegistry   factoryRegistry[PlayerPCMFactory]
)

func RegisterRecorderFactory(
	priority int,
	recorderPCMFactory RecorderPCMFactory,
) {
	recorderFactoryRegistry.register("RecorderPCM", priority, recorderPCMFactory)
}

func RecorderFactories() []RecorderPCMFactory {
	return recorderFactoryRegistry.sorted()
}

func RegisterPlayerFactory(
	priority int,
	playerPCMFactory PlayerPCMFactory,
) {
	playerFactoryRegistry.register("PlayerPCM", priority, playerPCMFactory)
}

func PlayerFactories() []PlayerPCMFactory {
	return playerFactoryRegistry.sorted()
}
